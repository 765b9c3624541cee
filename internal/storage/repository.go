package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/core"

	_ "modernc.org/sqlite"
)

const createdAtLayout = "2006-01-02 15:04:05"

// SQLiteRepository is the transaction store. It owns a single database
// handle; callers share one instance for the lifetime of the process.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// Option customises a repository.
type Option func(*SQLiteRepository)

// WithClock replaces the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) { r.now = now }
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every transaction, newest date first and, within a date,
// highest id first.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, persistence("list transactions", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

// Get returns one transaction or core.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, persistence(fmt.Sprintf("get transaction %d", id), err)
	}
	return toDomain(row), nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, persistence("count transactions", err)
	}
	return n, nil
}

// Create inserts a transaction and returns it as stored. The insert and the
// read-back are separate statements.
func (r *SQLiteRepository) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount.Float64(),
		Type:        string(in.Type),
		CreatedAt:   r.now().UTC().Format(createdAtLayout),
	})
	if err != nil {
		return core.Transaction{}, persistence("create transaction", err)
	}

	tx, err := r.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, persistence(fmt.Sprintf("read back transaction %d", id), err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"date", tx.Date,
		"type", tx.Type,
		"amount", tx.Amount.String())

	return tx, nil
}

// Update replaces the mutable fields of a transaction and returns the
// stored row. An id that matches nothing is not an error: the result is
// (nil, nil).
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	affected, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount.Float64(),
		Type:        string(in.Type),
		ID:          id,
	})
	if err != nil {
		return nil, persistence(fmt.Sprintf("update transaction %d", id), err)
	}
	if affected == 0 {
		slog.DebugContext(ctx, "Update matched no transaction", "id", id)
		return nil, nil
	}

	tx, err := r.Get(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Delete removes a transaction. Deleting an absent id succeeds.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return persistence(fmt.Sprintf("delete transaction %d", id), err)
	}
	slog.DebugContext(ctx, "Transaction deleted", "id", id, "rows", affected)
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrPersistence, err)
}

func toDomain(row Transaction) core.Transaction {
	return core.Transaction{
		ID:          row.ID,
		Date:        row.Date,
		Description: row.Description,
		Category:    row.Category,
		Amount:      core.MoneyFromFloat(row.Amount),
		Type:        core.TxType(row.Type),
		CreatedAt:   parseCreatedAt(row.CreatedAt),
	}
}

func parseCreatedAt(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		return parseTimestamp(t)
	case []byte:
		return parseTimestamp(string(t))
	}
	return time.Time{}
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{createdAtLayout, time.RFC3339Nano, "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
