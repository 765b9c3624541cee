package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets/memory"
)

func TestDefaultMirrorProcessorConfig(t *testing.T) {
	p := NewMirrorProcessor(nil, nil, MirrorProcessorConfig{})
	assert.Equal(t, 5*time.Minute, p.config.Interval)
	assert.Equal(t, time.Minute, p.config.Timeout)
	assert.False(t, p.IsRunning())
}

func TestMirrorProcessorSyncNow(t *testing.T) {
	store := &fakeStore{txs: []core.Transaction{{ID: 1}, {ID: 2}}}
	mirror := memory.New()
	p := NewMirrorProcessor(store, mirror, DefaultMirrorProcessorConfig())

	require.NoError(t, p.SyncNow(context.Background()))
	got, writes := mirror.Mirror()
	assert.Len(t, got, 2)
	assert.Equal(t, 1, writes)

	at, err := p.LastSync()
	assert.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestMirrorProcessorRecordsFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("disk I/O error")}
	p := NewMirrorProcessor(store, memory.New(), DefaultMirrorProcessorConfig())

	err := p.SyncNow(context.Background())
	assert.Error(t, err)
	_, last := p.LastSync()
	assert.Error(t, last)
}

func TestMirrorProcessorLifecycle(t *testing.T) {
	store := &fakeStore{}
	mirror := memory.New()
	p := NewMirrorProcessor(store, mirror, MirrorProcessorConfig{Interval: time.Hour})
	ctx := context.Background()

	require.NoError(t, p.Start(ctx))
	assert.True(t, p.IsRunning())
	assert.Error(t, p.Start(ctx), "second start should fail")

	// initial refresh on start
	require.Eventually(t, func() bool { _, n := mirror.Mirror(); return n >= 1 }, 2*time.Second, 10*time.Millisecond)

	p.Trigger()
	p.Trigger()
	require.Eventually(t, func() bool { _, n := mirror.Mirror(); return n >= 2 }, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, p.Stop(stopCtx))
	assert.False(t, p.IsRunning())
	assert.NoError(t, p.Stop(stopCtx))
}

func TestMirrorProcessorAsEventPublisher(t *testing.T) {
	p := NewMirrorProcessor(&fakeStore{}, memory.New(), DefaultMirrorProcessorConfig())
	var pub EventPublisher = p

	require.NoError(t, pub.PublishTransactionEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionCreated, 1)))
	require.NoError(t, pub.PublishTransactionEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionDeleted, 1)))
	assert.Len(t, p.trigger, 1, "pending refreshes collapse")
}

// blockingMirror holds every refresh until released.
type blockingMirror struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingMirror) MirrorLedger(ctx context.Context, _ []core.Transaction) error {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestMirrorProcessorStopAfterTimeout(t *testing.T) {
	mirror := &blockingMirror{entered: make(chan struct{}, 1), release: make(chan struct{})}
	p := NewMirrorProcessor(&fakeStore{}, mirror, MirrorProcessorConfig{Interval: time.Hour})

	require.NoError(t, p.Start(context.Background()))
	select {
	case <-mirror.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("initial refresh never started")
	}

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Stop(short), context.DeadlineExceeded)
	assert.False(t, p.IsRunning())

	assert.NotPanics(t, func() { assert.NoError(t, p.Stop(context.Background())) })

	close(mirror.release)
}
