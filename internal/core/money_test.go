package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestDivideInstallment(t *testing.T) {
	cases := []struct {
		total int64
		n     int
		want  int64
	}{
		{120000, 12, 10000},
		{100000, 3, 33333},
		{1, 2, 1},    // 0.5 cent rounds up
		{5, 2, 3},    // 2.5 cents rounds up
		{99999, 7, 14286},
	}
	for _, tc := range cases {
		got := DivideInstallment(Money{Cents: tc.total}, tc.n)
		if got.Cents != tc.want {
			t.Errorf("%d/%d = %d, want %d", tc.total, tc.n, got.Cents, tc.want)
		}
	}
}

func TestDivideInstallmentPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for n=0")
		}
	}()
	DivideInstallment(Money{Cents: 100}, 0)
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 0,01"},
		{123456, "R$ 1.234,56"},
		{100000000, "R$ 1.000.000,00"},
		{-9950, "-R$ 99,50"},
	}
	for _, tc := range cases {
		if got := FormatBRL(Money{Cents: tc.cents}); got != tc.want {
			t.Errorf("%d cents = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	// parse(format(x)) == x for any value with at most two fractional
	// digits. Exact, since everything stays in integer cents.
	values := []int64{0, 1, 99, 100, 12345, 999999, 123456789, 100000000, -9950}
	for _, cents := range values {
		m := Money{Cents: cents}
		back, err := ParseBRL(FormatBRL(m))
		if err != nil {
			t.Fatalf("%d cents: parse error %v", cents, err)
		}
		if back != m {
			t.Errorf("round trip %d -> %q -> %d", cents, FormatBRL(m), back.Cents)
		}
	}
}
