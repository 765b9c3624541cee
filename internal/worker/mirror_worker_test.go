package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/amqp"
)

type countingSyncer struct {
	calls int
	err   error
}

func (c *countingSyncer) SyncNow(context.Context) error {
	c.calls++
	return c.err
}

func TestHandleEventSyncs(t *testing.T) {
	s := &countingSyncer{}
	w := NewMirrorWorker(s)

	require.NoError(t, w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionCreated, 1)))
	require.NoError(t, w.HandleEvent(context.Background(), amqp.NewTransactionEvent(amqp.ActionDeleted, 1)))
	assert.Equal(t, 2, s.calls)
}

func TestHandleEventSkipsDuplicates(t *testing.T) {
	s := &countingSyncer{}
	w := NewMirrorWorker(s)
	ev := amqp.NewTransactionEvent(amqp.ActionUpdated, 3)

	require.NoError(t, w.HandleEvent(context.Background(), ev))
	require.NoError(t, w.HandleEvent(context.Background(), ev))
	assert.Equal(t, 1, s.calls)
}

func TestHandleEventFailureAllowsRetry(t *testing.T) {
	s := &countingSyncer{err: errors.New("quota exceeded")}
	w := NewMirrorWorker(s)
	ev := amqp.NewTransactionEvent(amqp.ActionCreated, 4)

	assert.Error(t, w.HandleEvent(context.Background(), ev))

	s.err = nil
	assert.NoError(t, w.HandleEvent(context.Background(), ev))
	assert.Equal(t, 2, s.calls)
}
