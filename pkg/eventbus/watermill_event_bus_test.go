package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvern/overseer/pkg/channels/gochannel"
	"github.com/hyvern/overseer/pkg/events"
	"github.com/hyvern/overseer/pkg/models"
)

func setupTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestPublishDeliversToHandler(t *testing.T) {
	bus := setupTestBus(t)

	received := make(chan any, 1)
	require.NoError(t, bus.Handle(events.WorkItemQueuedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	sent := events.WorkItemQueued{
		BaseEvent: events.BaseEvent{
			ID:         "evt-1",
			Type:       events.WorkItemQueuedEvent,
			Timestamp:  time.Now().UTC(),
			WorkItemID: "item-1",
		},
		QueueID: "main",
	}

	require.NoError(t, bus.Publish(ctx, "item-1", sent))

	select {
	case event := <-received:
		queued, ok := event.(*events.WorkItemQueued)
		require.True(t, ok)
		assert.Equal(t, "evt-1", queued.ID)
		assert.Equal(t, "item-1", queued.WorkItemID)
		assert.Equal(t, "main", queued.QueueID)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestEventTypeRouting(t *testing.T) {
	bus := setupTestBus(t)

	completed := make(chan any, 1)
	queued := make(chan any, 1)

	require.NoError(t, bus.Handle(events.WorkflowCompletedEvent, func(_ context.Context, event any) error {
		completed <- event

		return nil
	}))
	require.NoError(t, bus.Handle(events.WorkItemQueuedEvent, func(_ context.Context, event any) error {
		queued <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	sent := events.WorkflowCompleted{
		BaseEvent: events.BaseEvent{
			ID:         "evt-2",
			Type:       events.WorkflowCompletedEvent,
			WorkItemID: "item-1",
			WorkerID:   "worker-1",
		},
		Progress: &models.ExecutionProgress{TotalNodes: 3, CompletedNodes: 3},
		Duration: 42 * time.Second,
	}

	require.NoError(t, bus.Publish(ctx, "item-1", sent))

	select {
	case event := <-completed:
		got, ok := event.(*events.WorkflowCompleted)
		require.True(t, ok)
		require.NotNil(t, got.Progress)
		assert.Equal(t, 3, got.Progress.CompletedNodes)
		assert.Equal(t, "worker-1", got.WorkerID)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}

	select {
	case <-queued:
		t.Fatal("wrong handler was invoked")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGenerateID(t *testing.T) {
	bus := setupTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
