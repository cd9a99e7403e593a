// Package persistence provides the storage abstraction for work items and
// terminal workflow states.
package persistence

import (
	"context"

	"github.com/hyvern/overseer/pkg/models"
)

type Persistence interface {
	WorkItems() WorkItemRepository
	WorkflowStates() WorkflowStateRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// WorkItemRepository stores queued work items.
type WorkItemRepository interface {
	Save(ctx context.Context, item *models.WorkItem) error
	ByID(ctx context.Context, id string) (*models.WorkItem, error)
	ByQueue(ctx context.Context, queueID string) ([]*models.WorkItem, error)
}

// WorkflowStateRepository stores the engine's terminal state per work item.
type WorkflowStateRepository interface {
	Save(ctx context.Context, state *models.WorkflowState) error
	ByWorkItemID(ctx context.Context, workItemID string) (*models.WorkflowState, error)
}
