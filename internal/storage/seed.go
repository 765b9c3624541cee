package storage

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"ledger/internal/core"
)

// SyntheticRows is the number of generated rows added after the fixed
// history on first start.
const SyntheticRows = 40

var historicalRows = []core.TransactionInput{
	{Date: "2024-01-02", Description: "Saldo Awal Desember", Category: "Lain-lain", Amount: core.NewMoney(5000000), Type: core.Income},
	{Date: "2024-01-05", Description: "Infaq Jumat Minggu 1", Category: "Infaq Jumat", Amount: core.NewMoney(1250000), Type: core.Income},
	{Date: "2024-01-10", Description: "Pembelian Karpet Baru", Category: "Sarana Prasarana", Amount: core.NewMoney(2500000), Type: core.Expense},
	{Date: "2024-01-12", Description: "Infaq Jumat Minggu 2", Category: "Infaq Jumat", Amount: core.NewMoney(1100000), Type: core.Income},
	{Date: "2024-01-15", Description: "Biaya Kebersihan Bulanan", Category: "Operasional", Amount: core.NewMoney(300000), Type: core.Expense},
	{Date: "2024-01-19", Description: "Infaq Jumat Minggu 3", Category: "Infaq Jumat", Amount: core.NewMoney(1350000), Type: core.Income},
	{Date: "2024-01-20", Description: "Perbaikan Sound System", Category: "Pemeliharaan", Amount: core.NewMoney(450000), Type: core.Expense},
	{Date: "2024-01-25", Description: "Konsumsi Pengajian Rutin", Category: "Kegiatan", Amount: core.NewMoney(600000), Type: core.Expense},
	{Date: "2024-01-26", Description: "Infaq Jumat Minggu 4", Category: "Infaq Jumat", Amount: core.NewMoney(1200000), Type: core.Income},
	{Date: "2024-01-28", Description: "Infaq Bulanan Januari", Category: "Infaq Bulanan", Amount: core.NewMoney(2000000), Type: core.Income},
	{Date: "2024-02-02", Description: "Infaq Jumat Feb W1", Category: "Infaq Jumat", Amount: core.NewMoney(1000000), Type: core.Income},
	{Date: "2024-02-05", Description: "Listrik Musholla", Category: "Operasional", Amount: core.NewMoney(250000), Type: core.Expense},
}

// SeedRows returns the bootstrap dataset: the fixed history followed by
// SyntheticRows generated rows whose amounts are drawn from rng.
func SeedRows(rng *rand.Rand) []core.TransactionInput {
	rows := make([]core.TransactionInput, 0, len(historicalRows)+SyntheticRows)
	rows = append(rows, historicalRows...)

	for i := 1; i <= SyntheticRows; i++ {
		month := 2
		if i <= 20 {
			month = 1
		}
		date := time.Date(2024, time.Month(month), i%28+1, 0, 0, 0, 0, time.UTC)

		in := core.TransactionInput{
			Date:   date.Format(core.DateLayout),
			Amount: core.NewMoney(int64(rng.IntN(500000)) + 50000),
			Type:   core.Income,
		}
		if i%3 == 0 {
			in.Type = core.Expense
			in.Description = fmt.Sprintf("Biaya Operasional %d", i)
			in.Category = "Operasional"
		} else {
			in.Description = fmt.Sprintf("Infaq Harian %d", i)
			in.Category = "Infaq Harian"
		}
		rows = append(rows, in)
	}
	return rows
}

// NewSeedRand returns the generator used for seeding. A zero seed draws a
// fresh random one.
func NewSeedRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedIfEmpty loads the bootstrap dataset when the table has no rows. It
// reports how many rows were inserted; an already populated store is left
// untouched and yields 0.
func (r *SQLiteRepository) SeedIfEmpty(ctx context.Context, rng *rand.Rand) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistence("begin seed", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	createdAt := r.now().UTC().Format(createdAtLayout)
	rows := SeedRows(rng)
	for _, in := range rows {
		if _, err := q.CreateTransaction(ctx, CreateTransactionParams{
			Date:        in.Date,
			Description: in.Description,
			Category:    in.Category,
			Amount:      in.Amount.Float64(),
			Type:        string(in.Type),
			CreatedAt:   createdAt,
		}); err != nil {
			return 0, persistence("seed transaction", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, persistence("commit seed", err)
	}

	slog.InfoContext(ctx, "Seeded transaction store", "rows", len(rows))
	return len(rows), nil
}
