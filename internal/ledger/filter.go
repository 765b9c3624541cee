// Package ledger derives the dashboard views from the full transaction list:
// filtering, pagination, totals, chart series and the recent activity feed.
// Everything here is pure; State is the only stateful type and is owned by
// its caller.
package ledger

import (
	"fmt"
	"strings"

	"ledger/internal/core"
)

// Mode selects which filter criteria apply in addition to the search term.
type Mode string

const (
	ModeAll         Mode = "all"
	ModeDate        Mode = "date"
	ModeMonth       Mode = "month"
	ModeDescription Mode = "description"
)

// ParseMode maps a query value to a Mode. The empty string is ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeDate, ModeMonth, ModeDescription:
		return m, nil
	}
	return "", fmt.Errorf("unknown filter mode %q", s)
}

// Filter holds the criteria of the transaction table. Date is YYYY-MM-DD,
// Month is YYYY-MM. An empty Donor or Category, or their "Semua" sentinels,
// mean no restriction.
type Filter struct {
	Mode        Mode   `json:"mode"`
	Search      string `json:"search,omitempty"`
	Date        string `json:"date,omitempty"`
	Month       string `json:"month,omitempty"`
	Donor       string `json:"donor,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Match reports whether t passes the filter.
func (f Filter) Match(t core.Transaction) bool {
	if !matchesSearch(t, f.Search) {
		return false
	}

	switch f.Mode {
	case ModeDescription:
		return containsFold(t.Description, f.Description) &&
			(anyCategory(f.Category) || t.Category == f.Category)
	case ModeDate:
		return t.Date == f.Date
	case ModeMonth:
		month, ok := core.MonthKey(t.Date)
		if !ok || month != f.Month {
			return false
		}
		return anyDonor(f.Donor) || t.Description == f.Donor
	}
	return true
}

// Apply returns the matching transactions in input order.
func Apply(txs []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(t core.Transaction, term string) bool {
	return containsFold(t.Description, term) || containsFold(t.Category, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyCategory(c string) bool { return c == "" || c == core.AllCategories }
func anyDonor(d string) bool    { return d == "" || d == core.AllDonors }
