package core

import "testing"

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		a, b Date
		want int
	}{
		{NewDate(2025, 1, 15), NewDate(2025, 3, 1), 2},
		{NewDate(2025, 1, 31), NewDate(2025, 2, 1), 1}, // day ignored
		{NewDate(2025, 3, 1), NewDate(2025, 1, 31), -2},
		{NewDate(2024, 11, 5), NewDate(2025, 2, 5), 3},
		{NewDate(2025, 6, 10), NewDate(2025, 6, 25), 0},
	}
	for _, tc := range cases {
		if got := MonthsBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d",
				tc.a.FormatStorage(), tc.b.FormatStorage(), got, tc.want)
		}
	}
}

func TestAddMonthsRollover(t *testing.T) {
	cases := []struct {
		start Date
		n     int
		want  string
	}{
		{NewDate(2025, 1, 15), 2, "2025-03-15"},
		{NewDate(2025, 1, 31), 1, "2025-03-03"}, // Feb 31 rolls into March
		{NewDate(2024, 1, 31), 1, "2024-03-02"}, // leap year Feb
		{NewDate(2025, 3, 31), 1, "2025-05-01"}, // Apr 31 rolls into May
		{NewDate(2025, 11, 30), 2, "2026-01-30"},
	}
	for _, tc := range cases {
		if got := tc.start.AddMonths(tc.n).FormatStorage(); got != tc.want {
			t.Errorf("%s + %d months = %s, want %s", tc.start.FormatStorage(), tc.n, got, tc.want)
		}
	}
}

func TestStorageFormatRoundTrip(t *testing.T) {
	d := NewDate(2025, 8, 7)
	if got := d.FormatStorage(); got != "2025-08-07" {
		t.Fatalf("FormatStorage = %q", got)
	}
	back, err := ParseStorage("2025-08-07")
	if err != nil {
		t.Fatalf("ParseStorage: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %v vs %v", back, d)
	}
	if _, err := ParseStorage("07/08/2025"); err == nil {
		t.Errorf("expected error for display-format input")
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := NewDate(2025, 3, 9).FormatDisplay(); got != "09/03/2025" {
		t.Errorf("FormatDisplay = %q", got)
	}
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2025, 2)
	if first.FormatStorage() != "2025-02-01" || last.FormatStorage() != "2025-02-28" {
		t.Errorf("February 2025 range = %s..%s", first.FormatStorage(), last.FormatStorage())
	}
	_, lastDec := MonthRange(2025, 12)
	if lastDec.FormatStorage() != "2025-12-31" {
		t.Errorf("December end = %s", lastDec.FormatStorage())
	}
}
