package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
)

// Lister reads the full ledger.
type Lister interface {
	List(ctx context.Context) ([]core.Transaction, error)
}

// MirrorProcessorConfig holds configuration for the mirror processor
type MirrorProcessorConfig struct {
	// Interval between full refreshes (default: 5m)
	Interval time.Duration

	// Timeout bounds a single refresh (default: 1m)
	Timeout time.Duration
}

func DefaultMirrorProcessorConfig() MirrorProcessorConfig {
	return MirrorProcessorConfig{
		Interval: 5 * time.Minute,
		Timeout:  time.Minute,
	}
}

// MirrorProcessor keeps an external copy of the ledger current. It rewrites
// the whole mirror on a fixed interval and whenever Trigger is called.
type MirrorProcessor struct {
	store  Lister
	mirror sheets.LedgerMirror
	config MirrorProcessorConfig

	trigger chan struct{}

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	lastSync time.Time
	lastErr  error
}

func NewMirrorProcessor(store Lister, mirror sheets.LedgerMirror, config MirrorProcessorConfig) *MirrorProcessor {
	if config.Interval <= 0 {
		config.Interval = DefaultMirrorProcessorConfig().Interval
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultMirrorProcessorConfig().Timeout
	}
	return &MirrorProcessor{
		store:   store,
		mirror:  mirror,
		config:  config,
		trigger: make(chan struct{}, 1),
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (p *MirrorProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("mirror processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Mirror processor started", "interval", p.config.Interval)
	return nil
}

// Stop signals the loop and waits for it to finish. The processor counts as
// stopped once signalled, even if the wait times out; later calls are no-ops.
func (p *MirrorProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Mirror processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Mirror processor stop timed out")
		return ctx.Err()
	}
}

func (p *MirrorProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Trigger requests a refresh soon. Requests made while one is pending
// collapse into it.
func (p *MirrorProcessor) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// PublishTransactionEvent lets the processor stand in for the broker when
// none is configured: every change schedules a refresh.
func (p *MirrorProcessor) PublishTransactionEvent(_ context.Context, _ *amqp.TransactionEvent) error {
	p.Trigger()
	return nil
}

// LastSync reports when the last refresh finished and its error.
func (p *MirrorProcessor) LastSync() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSync, p.lastErr
}

// SyncNow rewrites the mirror from the store.
func (p *MirrorProcessor) SyncNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	txs, err := p.store.List(ctx)
	if err == nil {
		err = p.mirror.MirrorLedger(ctx, txs)
	}

	p.mu.Lock()
	p.lastSync = time.Now()
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}
	slog.InfoContext(ctx, "Ledger mirrored", "rows", len(txs))
	return nil
}

func (p *MirrorProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.syncAndLog(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.syncAndLog(ctx)
		case <-p.trigger:
			p.syncAndLog(ctx)
		}
	}
}

func (p *MirrorProcessor) syncAndLog(ctx context.Context) {
	if err := p.SyncNow(ctx); err != nil {
		slog.ErrorContext(ctx, "Mirror refresh failed", "error", err)
	}
}
