package memory

import (
	"context"
	"sync"

	"kosku/internal/core"
)

// Store is an in-memory SummaryWriter for development and tests.
type Store struct {
	mu   sync.Mutex
	rows []core.MonthlySummaryRow
}

func New() *Store {
	return &Store{}
}

// WriteSummary replaces the stored rows with a copy of the given ones.
func (s *Store) WriteSummary(_ context.Context, rows []core.MonthlySummaryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.MonthlySummaryRow(nil), rows...)
	return nil
}

// Rows returns a copy of the last written summary.
func (s *Store) Rows() []core.MonthlySummaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthlySummaryRow(nil), s.rows...)
}
