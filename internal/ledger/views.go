package ledger

import (
	"sort"
	"time"

	"ledger/internal/core"
)

// PageSize is the number of rows shown per table page.
const PageSize = 50

// RecentWindow bounds the recent activity feed.
const RecentWindow = 30 * 24 * time.Hour

// TotalPages is ceil(n / PageSize); zero rows means zero pages.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-based page of items. Pages outside the range yield
// an empty slice.
func Paginate(items []core.Transaction, page int) []core.Transaction {
	if page < 1 {
		return []core.Transaction{}
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []core.Transaction{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ComputeStats totals income and expense. Balance is income minus expense.
func ComputeStats(txs []core.Transaction) core.Stats {
	var s core.Stats
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			s.Income = s.Income.Add(t.Amount)
		case core.Expense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// MonthlySeries groups transactions by calendar month, ascending. Rows with
// an unparseable date are skipped. Anything that is not income counts as
// expense.
func MonthlySeries(txs []core.Transaction) []core.MonthTotals {
	byMonth := make(map[string]*core.MonthTotals)
	for _, t := range txs {
		d, ok := core.ParseDate(t.Date)
		if !ok {
			continue
		}
		key := d.Format(core.MonthLayout)
		m, ok := byMonth[key]
		if !ok {
			m = &core.MonthTotals{Name: d.Format("Jan 2006"), Month: key}
			byMonth[key] = m
		}
		if t.Type == core.Income {
			m.Income = m.Income.Add(t.Amount)
		} else {
			m.Expense = m.Expense.Add(t.Amount)
		}
	}

	out := make([]core.MonthTotals, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ExpenseByCategory sums expenses per category in first-seen order.
func ExpenseByCategory(txs []core.Transaction) []core.CategoryAmount {
	index := make(map[string]int)
	out := []core.CategoryAmount{}
	for _, t := range txs {
		if t.Type != core.Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryAmount{Name: t.Category})
		}
		out[i].Value = out[i].Value.Add(t.Amount)
	}
	return out
}

// RecentActivity lists transactions dated no earlier than now minus
// RecentWindow, newest first. Dates are read as UTC midnight.
func RecentActivity(txs []core.Transaction, now time.Time) []core.Activity {
	cutoff := now.Add(-RecentWindow)

	type dated struct {
		at time.Time
		t  core.Transaction
	}
	var recent []dated
	for _, t := range txs {
		d, ok := core.ParseDate(t.Date)
		if !ok || d.Before(cutoff) {
			continue
		}
		recent = append(recent, dated{at: d, t: t})
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].at.After(recent[j].at) })

	out := make([]core.Activity, 0, len(recent))
	for _, r := range recent {
		out = append(out, core.Activity{
			ID:   r.t.ID,
			Date: r.t.Date,
			Text: r.t.Description + " (" + r.t.Amount.FormatIDR() + ")",
			Type: r.t.Type,
		})
	}
	return out
}
