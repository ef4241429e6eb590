package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/core"
)

// Store is an in-memory report sink used when no spreadsheet is
// configured, mostly for local development and tests.
type Store struct {
	mu        sync.Mutex
	items     []entry
	summaries map[string]core.MonthlySummary
}

type entry struct {
	collection  string
	transaction core.Transaction
}

func New() *Store {
	return &Store{summaries: make(map[string]core.MonthlySummary)}
}

// AppendTransaction stores the record and returns a synthetic row reference.
func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	collection := "receitas"
	if t.Kind == core.KindExpense {
		collection = "despesas"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entry{collection: collection, transaction: t})
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

func (s *Store) RemoveTransaction(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.collection == collection && e.transaction.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) WriteMonthlySummary(_ context.Context, ownerID string, year, month int, summary core.MonthlySummary) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month: %d", month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[fmt.Sprintf("%s|%d|%d", ownerID, year, month)] = summary
	return nil
}

// Transactions returns a copy of the stored records.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e.transaction)
	}
	return out
}

// Summary returns the stored totals for one owner and month.
func (s *Store) Summary(ownerID string, year, month int) (core.MonthlySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[fmt.Sprintf("%s|%d|%d", ownerID, year, month)]
	return sum, ok
}
