package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

// WorkflowStateRepository stores one JSON file per terminal workflow state,
// keyed by work item ID.
type WorkflowStateRepository struct {
	root string
}

func NewWorkflowStateRepository(root string) *WorkflowStateRepository {
	return &WorkflowStateRepository{root: root}
}

func (r *WorkflowStateRepository) dir() string {
	return filepath.Join(r.root, "states")
}

func (r *WorkflowStateRepository) path(workItemID string) string {
	return filepath.Join(r.dir(), workItemID+".json")
}

func (r *WorkflowStateRepository) Save(_ context.Context, state *models.WorkflowState) error {
	if err := os.MkdirAll(r.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create states dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workflow state for %s: %w", state.WorkItemID, err)
	}

	if err := os.WriteFile(r.path(state.WorkItemID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write workflow state for %s: %w", state.WorkItemID, err)
	}

	return nil
}

func (r *WorkflowStateRepository) ByWorkItemID(_ context.Context, workItemID string) (*models.WorkflowState, error) {
	data, err := os.ReadFile(r.path(workItemID))
	if err != nil {
		if os.IsNotExist(err) {
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
