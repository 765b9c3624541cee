package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestSeedRowsShape(t *testing.T) {
	rows := SeedRows(NewSeedRand(7))
	require.Len(t, rows, 52)

	assert.Equal(t, "Saldo Awal Desember", rows[0].Description)
	assert.Equal(t, "Listrik Musholla", rows[11].Description)

	for i := 1; i <= SyntheticRows; i++ {
		r := rows[11+i]
		wantMonth := "2024-02"
		if i <= 20 {
			wantMonth = "2024-01"
		}
		month, ok := core.MonthKey(r.Date)
		require.True(t, ok)
		assert.Equal(t, wantMonth, month, "row %d", i)

		if i%3 == 0 {
			assert.Equal(t, core.Expense, r.Type)
			assert.Equal(t, "Operasional", r.Category)
		} else {
			assert.Equal(t, core.Income, r.Type)
			assert.Equal(t, "Infaq Harian", r.Category)
		}
		assert.False(t, r.Amount.IsNegative())
		assert.True(t, r.Amount.Float64() >= 50000 && r.Amount.Float64() < 550000, "amount %s", r.Amount)
	}
}

func TestSeedRowsDeterministic(t *testing.T) {
	a := SeedRows(NewSeedRand(42))
	b := SeedRows(NewSeedRand(42))
	for i := range a {
		assert.True(t, a[i].Amount.Equal(b[i].Amount), "row %d", i)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.SeedIfEmpty(ctx, NewSeedRand(1))
	require.NoError(t, err)
	assert.Equal(t, 52, n)

	n, err = repo.SeedIfEmpty(ctx, NewSeedRand(1))
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(52), count)
}

func TestSeedSkipsPopulatedStore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, input("2024-01-05", "a", 100, core.Income))
	require.NoError(t, err)

	n, err := repo.SeedIfEmpty(ctx, NewSeedRand(1))
	require.NoError(t, err)
	assert.Zero(t, n)
}
