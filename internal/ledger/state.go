package ledger

import (
	"sync"
	"time"

	"ledger/internal/core"
)

// View is everything the dashboard renders for one filter and page.
type View struct {
	Filter            Filter                `json:"filter"`
	Page              int                   `json:"page"`
	PageSize          int                   `json:"page_size"`
	TotalPages        int                   `json:"total_pages"`
	TotalCount        int                   `json:"total_count"`
	Items             []core.Transaction    `json:"items"`
	Stats             core.Stats            `json:"stats"`
	MonthlySeries     []core.MonthTotals    `json:"monthly_series"`
	ExpenseByCategory []core.CategoryAmount `json:"expense_by_category"`
	RecentActivity    []core.Activity       `json:"recent_activity"`
}

// Build derives a View from the full list. Stats, page and breakdown use
// the filtered set; the monthly series and activity feed use all rows.
func Build(all []core.Transaction, f Filter, page int, now time.Time) View {
	filtered := Apply(all, f)
	return View{
		Filter:            f,
		Page:              page,
		PageSize:          PageSize,
		TotalPages:        TotalPages(len(filtered)),
		TotalCount:        len(filtered),
		Items:             Paginate(filtered, page),
		Stats:             ComputeStats(filtered),
		MonthlySeries:     MonthlySeries(all),
		ExpenseByCategory: ExpenseByCategory(filtered),
		RecentActivity:    RecentActivity(all, now),
	}
}

// State is a client-side working copy of the ledger: the last fetched list
// plus the active filter and page. It is safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	all    []core.Transaction
	filter Filter
	page   int
	now    func() time.Time
}

func NewState(now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	return &State{filter: Filter{Mode: ModeAll}, page: 1, now: now}
}

// Replace installs a freshly fetched list, as done after create and update.
func (s *State) Replace(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append([]core.Transaction(nil), txs...)
}

// Remove drops one transaction locally, as done after a delete.
func (s *State) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.all[:0:0]
	for _, t := range s.all {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.all = kept
}

// SetFilter changes the criteria and returns to page 1.
func (s *State) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Mode == "" {
		f.Mode = ModeAll
	}
	s.filter = f
	s.page = 1
}

func (s *State) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

func (s *State) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *State) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *State) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.all...)
}

// View derives the current view.
func (s *State) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Build(s.all, s.filter, s.page, s.now())
}
