package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

func testWorkItem(id, queueID string, createdAt time.Time) *models.WorkItem {
	return &models.WorkItem{
		ID:        id,
		QueueID:   queueID,
		Title:     "Test item " + id,
		Status:    models.WorkItemStatusQueued,
		Priority:  models.WorkItemPriorityMedium,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestWorkItemRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	item := testWorkItem("item-1", "main", time.Now().UTC().Truncate(time.Second))
	item.Description = "with a description"

	require.NoError(t, p.WorkItems().Save(ctx, item))

	loaded, err := p.WorkItems().ByID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, item, loaded)
}

func TestWorkItemByIDNotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkItems().ByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkItemNotFound(err))
}

func TestWorkItemByQueue(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	base := time.Now().UTC().Truncate(time.Second)

	// Saved out of creation order, across two queues.
	require.NoError(t, p.WorkItems().Save(ctx, testWorkItem("b", "main", base.Add(time.Minute))))
	require.NoError(t, p.WorkItems().Save(ctx, testWorkItem("a", "main", base)))
	require.NoError(t, p.WorkItems().Save(ctx, testWorkItem("c", "other", base)))

	items, err := p.WorkItems().ByQueue(ctx, "main")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestWorkItemByQueueEmptyStore(t *testing.T) {
	items, err := NewPersistence(t.TempDir()).WorkItems().ByQueue(context.Background(), "main")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWorkflowStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	now := time.Now().UTC().Truncate(time.Second)
	state := &models.WorkflowState{
		Phase:            models.PhaseCompleted,
		WorkItemID:       "item-1",
		WorkItemTitle:    "Test item",
		Plan:             &models.WorkflowPlan{Intent: "do it", Scope: "here", EstimatedComplexity: models.ComplexityLow},
		ReviewIterations: []models.ReviewIteration{{Iteration: 1, Approved: true}},
		DiscoveryResults: []models.DiscoveryResult{},
		ExecutionProgress: &models.ExecutionProgress{
			TotalNodes:     2,
			CompletedNodes: 2,
		},
		StartedAt:   now,
		CompletedAt: &now,
	}

	require.NoError(t, p.WorkflowStates().Save(ctx, state))

	loaded, err := p.WorkflowStates().ByWorkItemID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestWorkflowStateNotFound(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowStates().ByWorkItemID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowStateNotFound(err))
}

func TestFileURLPrefixStripped(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	p := NewPersistence("file://" + root)

	require.NoError(t, p.HealthCheck(ctx))
	require.NoError(t, p.WorkItems().Save(ctx, testWorkItem("x", "main", time.Now().UTC())))

	_, err := p.WorkItems().ByID(ctx, "x")
	require.NoError(t, err)
}

func TestHealthCheckMissingRoot(t *testing.T) {
	p := NewPersistence("/definitely/not/a/real/path")

	require.Error(t, p.HealthCheck(context.Background()))
}
