package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"financas/internal/core"
	"financas/internal/services"
	"financas/internal/storage"
)

type fakeStore struct {
	transactions []core.Transaction
	tags         []core.Tag
	goals        map[string]core.BalanceGoal
	investments  []core.Investment
}

func newFakeStore() *fakeStore {
	return &fakeStore{goals: make(map[string]core.BalanceGoal)}
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	for i := range f.transactions {
		if f.transactions[i].ID == t.ID && f.transactions[i].OwnerID == t.OwnerID {
			f.transactions[i] = t
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) DeleteTransaction(_ context.Context, ownerID string, kind core.Kind, id string) error {
	for i, t := range f.transactions {
		if t.OwnerID == ownerID && t.Kind == kind && t.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) GetTransaction(_ context.Context, ownerID string, kind core.Kind, id string) (*core.Transaction, error) {
	for _, t := range f.transactions {
		if t.OwnerID == ownerID && t.Kind == kind && t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListByMonth(_ context.Context, ownerID string, kind core.Kind, year, month int) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.OwnerID != ownerID || t.Kind != kind {
			continue
		}
		if t.Kind == core.KindExpense && t.IsInstallment {
			continue
		}
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInstallmentExpenses(_ context.Context, ownerID string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.OwnerID == ownerID && t.Kind == core.KindExpense && t.IsInstallment {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) SumAmounts(_ context.Context, ownerID string, kind core.Kind) (core.Money, error) {
	var total int64
	for _, t := range f.transactions {
		if t.OwnerID == ownerID && t.Kind == kind {
			total += t.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

func (f *fakeStore) GetGoal(_ context.Context, ownerID string) (*core.BalanceGoal, error) {
	g, ok := f.goals[ownerID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &g, nil
}

func (f *fakeStore) UpsertGoal(_ context.Context, g core.BalanceGoal) error {
	f.goals[g.OwnerID] = g
	return nil
}

func (f *fakeStore) CreateInvestment(_ context.Context, inv core.Investment) error {
	f.investments = append(f.investments, inv)
	return nil
}

func (f *fakeStore) DeleteInvestment(_ context.Context, ownerID, id string) error {
	for i, inv := range f.investments {
		if inv.OwnerID == ownerID && inv.ID == id {
			f.investments = append(f.investments[:i], f.investments[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListInvestments(_ context.Context, ownerID string) ([]core.Investment, error) {
	var out []core.Investment
	for _, inv := range f.investments {
		if inv.OwnerID == ownerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTag(_ context.Context, tg core.Tag) error {
	f.tags = append(f.tags, tg)
	return nil
}

func (f *fakeStore) DeleteTag(_ context.Context, ownerID, id string) error {
	for i, tg := range f.tags {
		if tg.OwnerID == ownerID && tg.ID == id {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListTags(_ context.Context, ownerID string, kind core.Kind) ([]core.Tag, error) {
	var out []core.Tag
	for _, tg := range f.tags {
		if tg.OwnerID == ownerID && tg.Kind == kind {
			out = append(out, tg)
		}
	}
	return out, nil
}

func newTestServer(store *fakeStore) *Server {
	planner := services.NewMonthPlanner(store)
	return NewServer(Options{
		Addr:         ":0",
		Planner:      planner,
		Transactions: services.NewTransactionService(store, nil),
		Tags:         services.NewTagService(store),
		Goals:        services.NewGoalService(store, planner),
		Investments:  services.NewInvestmentService(store),
	})
}

func do(t *testing.T, srv *Server, method, path, owner, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestMissingOwnerHeader(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodGet, "/api/dashboard", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	// Invalid amount
	rr := do(t, srv, http.MethodPost, "/api/despesas", "u1", `{"amount":"abc","description":"x","date":"2025-03-10"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid amount status = %d, want 422", rr.Code)
	}

	// Malformed JSON
	rr = do(t, srv, http.MethodPost, "/api/despesas", "u1", `{"amount":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rr.Code)
	}

	// Success
	rr = do(t, srv, http.MethodPost, "/api/despesas", "u1", `{"amount":"80.00","description":"Mercado","date":"2025-03-10"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created createdResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("expected created id, got %s (err %v)", rr.Body.String(), err)
	}
}

func TestDashboardProjectsInstallments(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	body := `{"amount":"1200.00","description":"Notebook","date":"2025-01-15","is_installment":true,"total_installments":12}`
	if rr := do(t, srv, http.MethodPost, "/api/despesas", "u1", body); rr.Code != http.StatusCreated {
		t.Fatalf("create installment status = %d", rr.Code)
	}

	rr := do(t, srv, http.MethodGet, "/api/dashboard?year=2025&month=3", "u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var dash dashboardView
	if err := json.Unmarshal(rr.Body.Bytes(), &dash); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if len(dash.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1 occurrence", len(dash.Transactions))
	}
	occ := dash.Transactions[0]
	if occ.AmountCents != 10000 {
		t.Errorf("occurrence amount = %d, want 10000", occ.AmountCents)
	}
	if !strings.HasSuffix(occ.ID, "_parcela_3") {
		t.Errorf("occurrence id = %q, want _parcela_3 suffix", occ.ID)
	}
	if !strings.Contains(occ.Description, "(3/12)") {
		t.Errorf("occurrence description = %q, want (3/12) suffix", occ.Description)
	}
	if dash.Summary.InstallmentExpenseCents != 10000 {
		t.Errorf("installment expense = %d, want 10000", dash.Summary.InstallmentExpenseCents)
	}

	// Another owner sees an empty month
	rr = do(t, srv, http.MethodGet, "/api/dashboard?year=2025&month=3", "u2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
	var other dashboardView
	if err := json.Unmarshal(rr.Body.Bytes(), &other); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if len(other.Transactions) != 0 {
		t.Errorf("owner isolation broken: %d transactions", len(other.Transactions))
	}
}

func TestDashboardInvalidMonth(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodGet, "/api/dashboard?year=2025&month=13", "u1", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDashboardCacheInvalidatedOnWrite(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	if rr := do(t, srv, http.MethodGet, "/api/dashboard?year=2025&month=3", "u1", ""); rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}

	body := `{"amount":"50.00","description":"Padaria","date":"2025-03-05"}`
	if rr := do(t, srv, http.MethodPost, "/api/despesas", "u1", body); rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}

	rr := do(t, srv, http.MethodGet, "/api/dashboard?year=2025&month=3", "u1", "")
	var dash dashboardView
	if err := json.Unmarshal(rr.Body.Bytes(), &dash); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if len(dash.Transactions) != 1 || dash.Summary.TotalExpenseCents != 5000 {
		t.Fatalf("stale dashboard after write: %+v", dash.Summary)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodPost, "/api/receitas", "u1", `{"amount":"5000.00","description":"Salario","date":"2025-03-01","is_fixed":true}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rr.Code)
	}
	var created createdResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}

	if rr := do(t, srv, http.MethodDelete, "/api/receitas/"+created.ID, "u1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rr.Code)
	}

	// Deleting again is a 404
	if rr := do(t, srv, http.MethodDelete, "/api/receitas/"+created.ID, "u1", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rr.Code)
	}
}

func TestTagLifecycle(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodPost, "/api/tags", "u1", `{"name":"Alimentacao","kind":"despesa"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create tag status = %d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/tags?kind=despesa", "u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list tags status = %d", rr.Code)
	}
	var tags []tagView
	if err := json.Unmarshal(rr.Body.Bytes(), &tags); err != nil {
		t.Fatalf("unmarshal tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Alimentacao" {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	// Income tags are separate
	rr = do(t, srv, http.MethodGet, "/api/tags?kind=receita", "u1", "")
	var incomeTags []tagView
	if err := json.Unmarshal(rr.Body.Bytes(), &incomeTags); err != nil {
		t.Fatalf("unmarshal tags: %v", err)
	}
	if len(incomeTags) != 0 {
		t.Fatalf("expected no income tags, got %+v", incomeTags)
	}

	if rr := do(t, srv, http.MethodGet, "/api/tags?kind=contas", "u1", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad kind status = %d, want 400", rr.Code)
	}
}

func TestGoalStatusAndSave(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	if rr := do(t, srv, http.MethodGet, "/api/meta-saldo", "u1", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("status without goal = %d, want 404", rr.Code)
	}

	if rr := do(t, srv, http.MethodPost, "/api/receitas", "u1", `{"amount":"5000.00","description":"Salario","date":"2025-03-01"}`); rr.Code != http.StatusCreated {
		t.Fatalf("create income status = %d", rr.Code)
	}

	rr := do(t, srv, http.MethodPut, "/api/meta-saldo", "u1", `{"target_amount":"4000.00","target_date":"2026-12-31","description":"Reserva"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("save goal status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var status goalStatusView
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal goal status: %v", err)
	}
	if !status.Achieved {
		t.Error("goal should be achieved: balance 5000 >= target 4000")
	}
	if status.BalanceCents != 500000 {
		t.Errorf("balance = %d, want 500000", status.BalanceCents)
	}
}

func TestInvestmentLifecycle(t *testing.T) {
	srv := newTestServer(newFakeStore())
	defer srv.Shutdown(context.Background())

	rr := do(t, srv, http.MethodPost, "/api/investimentos", "u1", `{"initial_amount":"10000.00","type":"CDB","start_date":"2025-01-01","monthly_yield_percent":1.0}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create investment status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var created createdResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created: %v", err)
	}

	rr = do(t, srv, http.MethodGet, "/api/investimentos", "u1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var views []investmentView
	if err := json.Unmarshal(rr.Body.Bytes(), &views); err != nil {
		t.Fatalf("unmarshal investments: %v", err)
	}
	if len(views) != 1 || views[0].InitialCents != 1000000 {
		t.Fatalf("unexpected investments: %+v", views)
	}

	if rr := do(t, srv, http.MethodDelete, "/api/investimentos/"+created.ID, "u1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rr.Code)
	}
}

func TestRateLimitMetersWritesOnly(t *testing.T) {
	store := newFakeStore()
	planner := services.NewMonthPlanner(store)
	srv := NewServer(Options{
		Addr:              ":0",
		Planner:           planner,
		Transactions:      services.NewTransactionService(store, nil),
		Tags:              services.NewTagService(store),
		Goals:             services.NewGoalService(store, planner),
		Investments:       services.NewInvestmentService(store),
		RequestsPerMinute: 2,
	})
	defer srv.Shutdown(context.Background())

	body := `{"amount":"10,00","description":"Cafe","date":"2025-03-01"}`
	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodPost, "/api/despesas", "u1", body); rr.Code != http.StatusCreated {
			t.Fatalf("write %d status = %d, want 201", i+1, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/api/despesas", "u1", body)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("write past the budget status = %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	// Reads stay unmetered even for an owner over the write budget.
	for i := 0; i < 5; i++ {
		if rr := do(t, srv, http.MethodGet, "/api/despesas?year=2025&month=3", "u1", ""); rr.Code != http.StatusOK {
			t.Fatalf("read %d status = %d, want 200", i+1, rr.Code)
		}
	}
}
