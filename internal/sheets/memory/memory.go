package memory

import (
	"context"
	"fmt"
	"sync"

	"ledger/internal/core"
	"ledger/internal/export"
	ports "ledger/internal/sheets"
)

var (
	_ ports.WorkbookWriter = (*Store)(nil)
	_ ports.LedgerMirror   = (*Store)(nil)
)

// Store keeps published workbooks and the last mirrored ledger in memory.
type Store struct {
	mu        sync.Mutex
	workbooks []export.Workbook
	mirror    []core.Transaction
	mirrors   int
}

func New() *Store {
	return &Store{}
}

// WriteWorkbook stores the workbook and returns a synthetic reference.
func (s *Store) WriteWorkbook(_ context.Context, wb export.Workbook) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workbooks = append(s.workbooks, wb)
	return fmt.Sprintf("mem:%d", len(s.workbooks)), nil
}

func (s *Store) MirrorLedger(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = append([]core.Transaction(nil), txs...)
	s.mirrors++
	return nil
}

func (s *Store) Workbooks() []export.Workbook {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]export.Workbook(nil), s.workbooks...)
}

// Mirror returns the last mirrored ledger and how many times it was written.
func (s *Store) Mirror() ([]core.Transaction, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.mirror...), s.mirrors
}
