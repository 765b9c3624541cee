package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"ledger/internal/activity"
	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/ledger"
	"ledger/internal/sheets"
)

// ErrExportUnavailable is returned when no workbook writer is configured.
var ErrExportUnavailable = errors.New("export backend not configured")

type (
	// Store is the transaction store the service orchestrates.
	Store interface {
		List(ctx context.Context) ([]core.Transaction, error)
		Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
		Update(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error)
		Delete(ctx context.Context, id int64) error
	}

	// EventPublisher announces ledger changes to other processes.
	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
	}

	// ActivityBroadcaster pushes changes to connected dashboards.
	ActivityBroadcaster interface {
		Publish(msg activity.Message)
	}
)

// TransactionService orchestrates ledger operations across the store and
// the optional side channels. Side-channel failures are logged and never
// fail a request; the store write is the source of truth.
type TransactionService struct {
	store     Store
	events    EventPublisher
	activity  ActivityBroadcaster
	workbooks sheets.WorkbookWriter
	views     *cache.LRUCache[ledger.View]
	now       func() time.Time
}

// Option configures optional collaborators.
type Option func(*TransactionService)

func WithEvents(p EventPublisher) Option {
	return func(s *TransactionService) { s.events = p }
}

func WithActivity(b ActivityBroadcaster) Option {
	return func(s *TransactionService) { s.activity = b }
}

func WithWorkbookWriter(w sheets.WorkbookWriter) Option {
	return func(s *TransactionService) { s.workbooks = w }
}

func WithViewCache(c *cache.LRUCache[ledger.View]) Option {
	return func(s *TransactionService) { s.views = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

func NewTransactionService(store Store, opts ...Option) *TransactionService {
	s := &TransactionService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.List(ctx)
}

func (s *TransactionService) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.Create(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.changed(ctx, amqp.ActionCreated, tx.ID, &tx)
	return tx, nil
}

// Update returns (nil, nil) when id matches no transaction; no event is
// emitted in that case.
func (s *TransactionService) Update(ctx context.Context, id int64, in core.TransactionInput) (*core.Transaction, error) {
	tx, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if tx != nil {
		s.changed(ctx, amqp.ActionUpdated, tx.ID, tx)
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.changed(ctx, amqp.ActionDeleted, id, nil)
	return nil
}

// View derives the dashboard view for a filter and page. Results are
// cached until the next mutation or the cache TTL.
func (s *TransactionService) View(ctx context.Context, f ledger.Filter, page int) (ledger.View, error) {
	key := viewKey(f, page)
	if s.views != nil {
		if v, ok := s.views.Get(key); ok {
			return v, nil
		}
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return ledger.View{}, err
	}
	v := ledger.Build(all, f, page, s.now())
	if s.views != nil {
		s.views.Set(key, v)
	}
	return v, nil
}

// RecentActivity returns the 30-day activity feed.
func (s *TransactionService) RecentActivity(ctx context.Context) ([]core.Activity, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.RecentActivity(all, s.now()), nil
}

// Workbook builds the report workbook for the given selections.
func (s *TransactionService) Workbook(ctx context.Context, f ledger.Filter) (export.Workbook, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return export.Workbook{}, err
	}
	return export.Build(all, f, s.now()), nil
}

// PublishWorkbook builds the report and hands it to the configured writer.
func (s *TransactionService) PublishWorkbook(ctx context.Context, f ledger.Filter) (string, error) {
	if s.workbooks == nil {
		return "", ErrExportUnavailable
	}
	wb, err := s.Workbook(ctx, f)
	if err != nil {
		return "", err
	}
	ref, err := s.workbooks.WriteWorkbook(ctx, wb)
	if err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	slog.InfoContext(ctx, "Workbook published", "title", wb.Title, "ref", ref)
	return ref, nil
}

func (s *TransactionService) changed(ctx context.Context, action amqp.Action, id int64, tx *core.Transaction) {
	if s.views != nil {
		s.views.Purge()
	}

	if s.activity != nil {
		s.activity.Publish(activity.Message{
			Type:          "transaction_" + string(action),
			TransactionID: id,
			Transaction:   tx,
		})
	}

	if s.events == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping transaction event", "id", id)
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(action, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

func viewKey(f ledger.Filter, page int) string {
	q := url.Values{}
	q.Set("mode", string(f.Mode))
	q.Set("search", f.Search)
	q.Set("date", f.Date)
	q.Set("month", f.Month)
	q.Set("donor", f.Donor)
	q.Set("description", f.Description)
	q.Set("category", f.Category)
	q.Set("page", fmt.Sprint(page))
	return q.Encode()
}
