package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

// MockPersistence is a mock implementation of the persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	WorkItemRepo      *MockWorkItemRepository
	WorkflowStateRepo *MockWorkflowStateRepository
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		WorkItemRepo:      &MockWorkItemRepository{},
		WorkflowStateRepo: &MockWorkflowStateRepository{},
	}
}

func (m *MockPersistence) WorkItems() persistence.WorkItemRepository {
	return m.WorkItemRepo
}

func (m *MockPersistence) WorkflowStates() persistence.WorkflowStateRepository {
	return m.WorkflowStateRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockWorkItemRepository is a mock implementation of persistence.WorkItemRepository.
type MockWorkItemRepository struct {
	mock.Mock
}

func (m *MockWorkItemRepository) Save(ctx context.Context, item *models.WorkItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *MockWorkItemRepository) ByID(ctx context.Context, id string) (*models.WorkItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) ByQueue(ctx context.Context, queueID string) ([]*models.WorkItem, error) {
	args := m.Called(ctx, queueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkItem), args.Error(1)
}

// MockWorkflowStateRepository is a mock implementation of persistence.WorkflowStateRepository.
type MockWorkflowStateRepository struct {
	mock.Mock
}

func (m *MockWorkflowStateRepository) Save(ctx context.Context, state *models.WorkflowState) error {
	args := m.Called(ctx, state)

	return args.Error(0)
}

func (m *MockWorkflowStateRepository) ByWorkItemID(ctx context.Context, workItemID string) (*models.WorkflowState, error) {
	args := m.Called(ctx, workItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowState), args.Error(1)
}
