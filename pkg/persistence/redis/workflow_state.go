package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

type WorkflowStateRepository struct {
	client goredis.UniversalClient
}

func (r *WorkflowStateRepository) Save(ctx context.Context, state *models.WorkflowState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode workflow state for %s: %w", state.WorkItemID, err)
	}

	if err := r.client.Set(ctx, stateKeyPrefix+state.WorkItemID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store workflow state for %s: %w", state.WorkItemID, err)
	}

	return nil
}

func (r *WorkflowStateRepository) ByWorkItemID(ctx context.Context, workItemID string) (*models.WorkflowState, error) {
	data, err := r.client.Get(ctx, stateKeyPrefix+workItemID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("state for work item %s: %w", workItemID, persistence.ErrWorkflowStateNotFound)
		}

		return nil, fmt.Errorf("failed to read workflow state for %s: %w", workItemID, err)
	}

	var state models.WorkflowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state for %s: %w", workItemID, err)
	}

	return &state, nil
}
