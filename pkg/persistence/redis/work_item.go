package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

type WorkItemRepository struct {
	client goredis.UniversalClient
}

func (r *WorkItemRepository) Save(ctx context.Context, item *models.WorkItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return persistence.NewWorkItemError("Save", item.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, workItemKeyPrefix+item.ID, data, 0)
	pipe.ZAdd(ctx, queueKeyPrefix+item.QueueID, goredis.Z{
		Score:  float64(item.CreatedAt.UnixMilli()),
		Member: item.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewWorkItemError("Save", item.ID, err)
	}

	return nil
}

func (r *WorkItemRepository) ByID(ctx context.Context, id string) (*models.WorkItem, error) {
	data, err := r.client.Get(ctx, workItemKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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
	ids, err := r.client.ZRange(ctx, queueKeyPrefix+queueID, 0, -1).Result()
	if err != nil {
		return nil, persistence.NewWorkItemError("ByQueue", queueID, err)
	}

	items := make([]*models.WorkItem, 0, len(ids))

	for _, id := range ids {
		item, err := r.ByID(ctx, id)
		if err != nil {
			// The queue index can momentarily outlive a deleted item.
			if persistence.IsWorkItemNotFound(err) {
				continue
			}

			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
