package worker

import (
	"context"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
)

// Syncer rewrites the external ledger mirror.
type Syncer interface {
	SyncNow(ctx context.Context) error
}

// MirrorWorker applies transaction events from the broker to the ledger
// mirror. Every event triggers a full rewrite, so redelivered or reordered
// events converge to the same result.
type MirrorWorker struct {
	syncer Syncer
	seen   *cache.LRUCache[struct{}]
}

func NewMirrorWorker(syncer Syncer) *MirrorWorker {
	return &MirrorWorker{
		syncer: syncer,
		seen:   cache.NewLRUCache[struct{}](1024, time.Hour),
	}
}

// HandleEvent processes one event. A message id already applied is
// acknowledged without another rewrite.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	if ev.MessageID != "" {
		if _, dup := w.seen.Get(ev.MessageID); dup {
			slog.DebugContext(ctx, "Skipping duplicate transaction event", "message_id", ev.MessageID)
			return nil
		}
	}

	slog.InfoContext(ctx, "Processing transaction event",
		"message_id", ev.MessageID,
		"action", ev.Action,
		"transaction_id", ev.TransactionID)

	if err := w.syncer.SyncNow(ctx); err != nil {
		return err
	}
	if ev.MessageID != "" {
		w.seen.Set(ev.MessageID, struct{}{})
	}
	return nil
}

// SeenCache exposes the dedupe cache so it can be registered for cleanup.
func (w *MirrorWorker) SeenCache() cache.Cleaner {
	return w.seen
}
