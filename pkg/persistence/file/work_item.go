package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

// WorkItemRepository stores one JSON file per work item.
type WorkItemRepository struct {
	root string
}

func NewWorkItemRepository(root string) *WorkItemRepository {
	return &WorkItemRepository{root: root}
}

func (r *WorkItemRepository) dir() string {
	return filepath.Join(r.root, "workitems")
}

func (r *WorkItemRepository) path(id string) string {
	return filepath.Join(r.dir(), id+".json")
}

func (r *WorkItemRepository) Save(_ context.Context, item *models.WorkItem) error {
	if err := os.MkdirAll(r.dir(), 0o755); err != nil {
		return persistence.NewWorkItemError("Save", item.ID, err)
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return persistence.NewWorkItemError("Save", item.ID, err)
	}

	if err := os.WriteFile(r.path(item.ID), data, 0o644); err != nil {
		return persistence.NewWorkItemError("Save", item.ID, err)
	}

	return nil
}

func (r *WorkItemRepository) ByID(_ context.Context, id string) (*models.WorkItem, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkItemError("ByID", id, persistence.ErrWorkItemNotFound)
		}

		return nil, persistence.NewWorkItemError("ByID", id, err)
	}

	var item models.WorkItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, persistence.NewWorkItemError("ByID", id, err)
	}

	return &item, nil
}

func (r *WorkItemRepository) ByQueue(ctx context.Context, queueID string) ([]*models.WorkItem, error) {
	entries, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list work item files: %w", err)
	}

	items := make([]*models.WorkItem, 0, len(entries))

	for _, entry := range entries {
		id := entry[:len(entry)-len(".json")]

		item, err := r.ByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if item.QueueID == queueID {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}
