package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	clock := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"), WithClock(func() time.Time { return clock }))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func input(date, desc string, amount int64, typ core.TxType) core.TransactionInput {
	return core.TransactionInput{
		Date:        date,
		Description: desc,
		Category:    "Infaq Jumat",
		Amount:      core.NewMoney(amount),
		Type:        typ,
	}
}

func TestCreateReturnsStoredRecord(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Create(ctx, input("2024-01-05", "Infaq Jumat Minggu 1", 1250000, core.Income))
	require.NoError(t, err)

	assert.Positive(t, tx.ID)
	assert.Equal(t, "2024-01-05", tx.Date)
	assert.Equal(t, "Infaq Jumat Minggu 1", tx.Description)
	assert.True(t, tx.Amount.Equal(core.NewMoney(1250000)))
	assert.Equal(t, core.Income, tx.Type)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), tx.CreatedAt)

	second, err := repo.Create(ctx, input("2024-01-06", "b", 1, core.Expense))
	require.NoError(t, err)
	assert.Greater(t, second.ID, tx.ID)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	repo := newTestRepo(t)
	in := input("2024-01-05", "", 1000, core.Income)

	_, err := repo.Create(context.Background(), in)
	assert.ErrorIs(t, err, core.ErrValidation)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateRejectsUnknownTypeAtStore(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(context.Background(), input("2024-01-05", "x", 1000, "transfer"))
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, _ := repo.Create(ctx, input("2024-01-05", "a", 1, core.Income))
	b, _ := repo.Create(ctx, input("2024-02-01", "b", 1, core.Income))
	c, _ := repo.Create(ctx, input("2024-01-05", "c", 1, core.Expense))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})
}

func TestListEmpty(t *testing.T) {
	repo := newTestRepo(t)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	orig, err := repo.Create(ctx, input("2024-01-05", "a", 100, core.Income))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, orig.ID, input("2024-01-07", "b", 200, core.Expense))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "2024-01-07", updated.Date)
	assert.Equal(t, "b", updated.Description)
	assert.Equal(t, core.Expense, updated.Type)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
}

func TestUpdateMissingIDIsSilent(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Update(context.Background(), 999, input("2024-01-07", "b", 200, core.Expense))
	assert.NoError(t, err)
	assert.Nil(t, got)

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.Create(ctx, input("2024-01-05", "a", 100, core.Income))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, tx.ID))
	require.NoError(t, repo.Delete(ctx, tx.ID))
	require.NoError(t, repo.Delete(ctx, 424242))

	_, err = repo.Get(ctx, tx.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestMigrationVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	v, dirty, err := MigrationVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
}

func TestListSurvivesOutOfRangeAmount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, input("2024-01-05", "Infaq Jumat Minggu 1", 1250000, core.Income))
	require.NoError(t, err)
	// SQLite reads 9e999 as +Inf.
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO transactions (date, description, category, amount, type) VALUES ('2024-01-06', 'Rusak', 'Lainnya', 9e999, 'income')`)
	require.NoError(t, err)

	txs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "Rusak", txs[0].Description)
	assert.True(t, txs[0].Amount.IsZero())
	assert.Equal(t, "1250000", txs[1].Amount.String())
}
