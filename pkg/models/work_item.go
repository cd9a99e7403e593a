// Package models defines the core domain models for the work-item workflow engine.
package models

import "time"

// WorkItemStatus represents the lifecycle state of a queued work item.
type WorkItemStatus string

const (
	WorkItemStatusQueued     WorkItemStatus = "queued"      // Waiting for a worker
	WorkItemStatusInProgress WorkItemStatus = "in_progress" // Claimed by a worker
	WorkItemStatusCompleted  WorkItemStatus = "completed"   // Workflow finished successfully
	WorkItemStatusFailed     WorkItemStatus = "failed"      // Workflow ended in failure
)

// WorkItemPriority orders items within a queue.
type WorkItemPriority string

const (
	WorkItemPriorityLow    WorkItemPriority = "low"
	WorkItemPriorityMedium WorkItemPriority = "medium"
	WorkItemPriorityHigh   WorkItemPriority = "high"
)

// WorkItem is one externally queued unit of work. It is immutable input to
// the workflow engine; the queue owns it.
type WorkItem struct {
	ID          string           `json:"id"          validate:"required"`
	QueueID     string           `json:"queue_id"    validate:"required"`
	Title       string           `json:"title"       validate:"required,min=3"`
	Description string           `json:"description"`
	Status      WorkItemStatus   `json:"status"      validate:"required"`
	Priority    WorkItemPriority `json:"priority"`
	Workstream  string           `json:"workstream,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
