package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hyvern/overseer/pkg/eventbus"
	"github.com/hyvern/overseer/pkg/events"
	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/otelhelper"
	"github.com/hyvern/overseer/pkg/persistence"
	"github.com/hyvern/overseer/pkg/workflow"
)

// Worker consumes WorkItemQueued events, drives the workflow engine for each
// item and persists the terminal state.
type Worker struct {
	id          string
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	engine      *workflow.Engine
	tracer      trace.Tracer
	logger      *slog.Logger
}

func NewWorker(
	id string,
	p persistence.Persistence,
	eventBus eventbus.EventBus,
	engine *workflow.Engine,
	logger *slog.Logger,
) *Worker {
	tracer, err := otelhelper.NewTracer(context.Background(), "overseer-worker")
	if err != nil {
		logger.Warn("Tracing disabled, exporter unavailable", "error", err)

		tracer = noop.NewTracerProvider().Tracer("overseer-worker")
	}

	return &Worker{
		id:          id,
		persistence: p,
		eventBus:    eventBus,
		engine:      engine,
		tracer:      tracer,
		logger:      logger.With("module", "worker"),
	}
}

// Start subscribes to the event bus and blocks until the context is done or
// a termination signal arrives.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.eventBus.Handle(events.WorkItemQueuedEvent, w.handleWorkItemQueued); err != nil {
		return fmt.Errorf("failed to register event handler: %w", err)
	}

	if err := w.eventBus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to event bus: %w", err)
	}

	w.logger.InfoContext(ctx, "Worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-sigChan:
	}

	w.logger.Info("Shutting down worker")

	return nil
}

func (w *Worker) handleWorkItemQueued(ctx context.Context, event any) error {
	queued, ok := event.(*events.WorkItemQueued)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for WorkItemQueued")

		return nil
	}

	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "worker.execute_workflow",
		attribute.String(otelhelper.WorkItemIDKey, queued.WorkItemID),
		attribute.String(otelhelper.QueueIDKey, queued.QueueID),
		attribute.String(otelhelper.WorkerIDKey, w.id),
	)
	defer span.End()

	logger := w.logger.With("work_item_id", queued.WorkItemID)

	item, err := w.persistence.WorkItems().ByID(ctx, queued.WorkItemID)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to load work item", "error", err)

		return err
	}

	item.Status = models.WorkItemStatusInProgress
	item.UpdatedAt = time.Now().UTC()

	if err := w.persistence.WorkItems().Save(ctx, item); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	w.publish(ctx, item.ID, events.WorkflowStarted{
		BaseEvent: w.baseEvent(events.WorkflowStartedEvent, item.ID),
	})

	state := w.engine.ExecuteWorkflow(ctx, *item)

	if err := w.persistence.WorkflowStates().Save(ctx, &state); err != nil {
		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Failed to save workflow state", "error", err)

		return err
	}

	duration := time.Since(state.StartedAt)

	if state.Phase == models.PhaseCompleted {
		item.Status = models.WorkItemStatusCompleted
	} else {
		item.Status = models.WorkItemStatusFailed
	}

	item.UpdatedAt = time.Now().UTC()

	if err := w.persistence.WorkItems().Save(ctx, item); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	if state.Phase == models.PhaseCompleted {
		w.publish(ctx, item.ID, events.WorkflowCompleted{
			BaseEvent: w.baseEvent(events.WorkflowCompletedEvent, item.ID),
			Progress:  state.ExecutionProgress,
			Duration:  duration,
		})
	} else {
		span.SetAttributes(attribute.String(otelhelper.PhaseKey, string(state.Phase)))

		w.publish(ctx, item.ID, events.WorkflowFailed{
			BaseEvent: w.baseEvent(events.WorkflowFailedEvent, item.ID),
			Phase:     state.Phase,
			Error:     state.Error,
			Duration:  duration,
		})
	}

	logger.InfoContext(ctx, "Workflow settled", "phase", state.Phase, "duration", duration)

	return nil
}

func (w *Worker) baseEvent(eventType events.EventType, workItemID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkItemID: workItemID,
		WorkerID:   w.id,
	}
}

func (w *Worker) publish(ctx context.Context, key string, event eventbus.Event) {
	if err := w.eventBus.Publish(ctx, key, event); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
