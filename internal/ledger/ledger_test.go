package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func tx(id int64, date, desc, cat string, amount int64, typ core.TxType) core.Transaction {
	return core.Transaction{ID: id, Date: date, Description: desc, Category: cat, Amount: core.NewMoney(amount), Type: typ}
}

func sample() []core.Transaction {
	return []core.Transaction{
		tx(5, "2024-02-05", "Listrik Musholla", "Operasional", 250000, core.Expense),
		tx(4, "2024-02-02", "Hamba Allah", "Infaq Jumat", 1000000, core.Income),
		tx(3, "2024-01-20", "Perbaikan Sound System", "Pemeliharaan", 450000, core.Expense),
		tx(2, "2024-01-15", "Biaya Kebersihan Bulanan", "Operasional", 300000, core.Expense),
		tx(1, "2024-01-05", "Hamba Allah", "Infaq Jumat", 1250000, core.Income),
	}
}

func ids(txs []core.Transaction) []int64 {
	out := make([]int64, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterModes(t *testing.T) {
	all := sample()
	cases := []struct {
		name string
		f    Filter
		want []int64
	}{
		{"all", Filter{Mode: ModeAll}, []int64{5, 4, 3, 2, 1}},
		{"search description", Filter{Mode: ModeAll, Search: "LISTRIK"}, []int64{5}},
		{"search category", Filter{Mode: ModeAll, Search: "operasional"}, []int64{5, 2}},
		{"date", Filter{Mode: ModeDate, Date: "2024-01-15"}, []int64{2}},
		{"date no match", Filter{Mode: ModeDate, Date: "2024-03-01"}, []int64{}},
		{"month", Filter{Mode: ModeMonth, Month: "2024-01"}, []int64{3, 2, 1}},
		{"month all donors", Filter{Mode: ModeMonth, Month: "2024-02", Donor: core.AllDonors}, []int64{5, 4}},
		{"month donor", Filter{Mode: ModeMonth, Month: "2024-01", Donor: "Hamba Allah"}, []int64{1}},
		{"description", Filter{Mode: ModeDescription, Description: "biaya"}, []int64{2}},
		{"description category", Filter{Mode: ModeDescription, Category: "Operasional"}, []int64{5, 2}},
		{"description all categories", Filter{Mode: ModeDescription, Description: "hamba", Category: core.AllCategories}, []int64{4, 1}},
		{"search combined with mode", Filter{Mode: ModeMonth, Month: "2024-01", Search: "sound"}, []int64{3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(all, tc.f)))
		})
	}
}

func TestMonthFilterSkipsUnparseableDates(t *testing.T) {
	all := []core.Transaction{tx(1, "garbage", "x", "y", 1, core.Income)}
	assert.Empty(t, Apply(all, Filter{Mode: ModeMonth, Month: "2024-01"}))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAll, m)

	m, err = ParseMode("Month")
	require.NoError(t, err)
	assert.Equal(t, ModeMonth, m)

	_, err = ParseMode("week")
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	var items []core.Transaction
	for i := 1; i <= 120; i++ {
		items = append(items, tx(int64(i), "2024-01-01", "d", "c", 1, core.Income))
	}

	assert.Equal(t, 3, TotalPages(len(items)))
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(50))
	assert.Equal(t, 2, TotalPages(51))

	assert.Len(t, Paginate(items, 1), 50)
	assert.Len(t, Paginate(items, 3), 20)
	assert.Equal(t, int64(101), Paginate(items, 3)[0].ID)
	assert.Empty(t, Paginate(items, 4))
	assert.Empty(t, Paginate(items, 0))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sample())
	assert.True(t, s.Income.Equal(core.NewMoney(2250000)), s.Income.String())
	assert.True(t, s.Expense.Equal(core.NewMoney(1000000)), s.Expense.String())
	assert.True(t, s.Balance.Equal(core.NewMoney(1250000)), s.Balance.String())

	empty := ComputeStats(nil)
	assert.True(t, empty.Balance.IsZero())
}

func TestMonthlySeries(t *testing.T) {
	all := append(sample(), tx(9, "2023-12-30", "x", "y", 10, core.Income))
	series := MonthlySeries(all)

	require.Len(t, series, 3)
	assert.Equal(t, "Dec 2023", series[0].Name)
	assert.Equal(t, "Jan 2024", series[1].Name)
	assert.Equal(t, "Feb 2024", series[2].Name)
	assert.True(t, series[1].Income.Equal(core.NewMoney(1250000)))
	assert.True(t, series[1].Expense.Equal(core.NewMoney(750000)))
}

func TestExpenseByCategory(t *testing.T) {
	got := ExpenseByCategory(sample())
	require.Len(t, got, 2)
	assert.Equal(t, "Operasional", got[0].Name)
	assert.True(t, got[0].Value.Equal(core.NewMoney(550000)))
	assert.Equal(t, "Pemeliharaan", got[1].Name)
}

func TestRecentActivity(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	got := RecentActivity(sample(), now)

	// cutoff is 2024-01-11 12:00, so only dates from 01-12 onwards remain
	require.Len(t, got, 4)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, "Listrik Musholla (Rp 250.000)", got[0].Text)
	assert.Equal(t, core.Expense, got[0].Type)
	assert.Equal(t, int64(2), got[3].ID)
}

func TestStateResetsPageOnFilterChange(t *testing.T) {
	s := NewState(func() time.Time { return time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC) })
	var many []core.Transaction
	for i := 1; i <= 60; i++ {
		many = append(many, tx(int64(i), fmt.Sprintf("2024-01-%02d", i%28+1), "d", "c", 1, core.Income))
	}
	s.Replace(many)
	s.SetPage(2)
	assert.Len(t, s.View().Items, 10)

	s.SetFilter(Filter{Search: "d"})
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, ModeAll, s.Filter().Mode)

	s.Remove(1)
	v := s.View()
	assert.Equal(t, 59, v.TotalCount)
	assert.Equal(t, 2, v.TotalPages)
}

func TestBuildUsesUnfilteredSetForSeries(t *testing.T) {
	v := Build(sample(), Filter{Mode: ModeDate, Date: "2024-02-05"}, 1, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, v.TotalCount)
	assert.Len(t, v.MonthlySeries, 2)
	assert.True(t, v.Stats.Expense.Equal(core.NewMoney(250000)))
	assert.Len(t, v.ExpenseByCategory, 1)
}
