// Package redis provides Redis-backed persistence for deployments where
// multiple workers and the API share one store.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hyvern/overseer/pkg/persistence"
)

const (
	workItemKeyPrefix = "overseer:workitem:"
	stateKeyPrefix    = "overseer:state:"
	queueKeyPrefix    = "overseer:queue:"
)

// Persistence implements persistence.Persistence over Redis. Work items and
// states are JSON values; each queue additionally keeps an ordered set of its
// item IDs.
type Persistence struct {
	client    goredis.UniversalClient
	workItems *WorkItemRepository
	states    *WorkflowStateRepository
}

// NewPersistence connects to Redis using a redis:// URL.
func NewPersistence(url string) (*Persistence, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)

	return &Persistence{
		client:    client,
		workItems: &WorkItemRepository{client: client},
		states:    &WorkflowStateRepository{client: client},
	}, nil
}

func (p *Persistence) WorkItems() persistence.WorkItemRepository {
	return p.workItems
}

func (p *Persistence) WorkflowStates() persistence.WorkflowStateRepository {
	return p.states
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
