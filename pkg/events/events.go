// Package events defines the lifecycle events exchanged between the API, the
// queue and the workflow workers.
package events

import (
	"time"

	"github.com/hyvern/overseer/pkg/models"
)

type EventType string

// Kafka topic carrying all work-item and workflow lifecycle events.
const Topic = "overseer.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Work-item lifecycle.
	WorkItemQueuedEvent EventType = "workitem.queued"

	// Workflow run lifecycle.
	WorkflowStartedEvent   EventType = "workflow.started"
	WorkflowCompletedEvent EventType = "workflow.completed"
	WorkflowFailedEvent    EventType = "workflow.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkItemID string         `json:"work_item_id"`
	WorkerID   string         `json:"worker_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// WorkItemQueued announces a freshly enqueued work item to the workers.
type WorkItemQueued struct {
	BaseEvent

	QueueID string `json:"queue_id"`
}

func (e WorkItemQueued) GetType() EventType {
	return WorkItemQueuedEvent
}

// WorkflowStarted marks the moment a worker claimed the item and entered the
// planning phase.
type WorkflowStarted struct {
	BaseEvent
}

func (e WorkflowStarted) GetType() EventType {
	return WorkflowStartedEvent
}

// WorkflowCompleted carries the terminal state of a successful run.
type WorkflowCompleted struct {
	BaseEvent

	Progress *models.ExecutionProgress `json:"progress,omitempty"`
	Duration time.Duration             `json:"duration"`
}

func (e WorkflowCompleted) GetType() EventType {
	return WorkflowCompletedEvent
}

// WorkflowFailed carries the terminal state of a failed run.
type WorkflowFailed struct {
	BaseEvent

	Phase    models.Phase  `json:"phase"`
	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e WorkflowFailed) GetType() EventType {
	return WorkflowFailedEvent
}
