package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkItemNotFound indicates a work item was not found by the given identifier.
	ErrWorkItemNotFound = errors.New("work item not found")

	// ErrWorkflowStateNotFound indicates no workflow state exists for the given work item.
	ErrWorkflowStateNotFound = errors.New("workflow state not found")

	// ErrWorkItemAlreadyExists indicates a work item with the same identifier already exists.
	ErrWorkItemAlreadyExists = errors.New("work item already exists")
)

// WorkItemError wraps work-item storage errors with operation context.
type WorkItemError struct {
	Op         string // Operation being performed (e.g., "ByID", "Save")
	WorkItemID string
	Err        error
}

func (e *WorkItemError) Error() string {
	return fmt.Sprintf("%s operation failed for work item %s: %v", e.Op, e.WorkItemID, e.Err)
}

func (e *WorkItemError) Unwrap() error {
	return e.Err
}

func (e *WorkItemError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkItemError creates a new work item error with context.
func NewWorkItemError(op, workItemID string, err error) *WorkItemError {
	return &WorkItemError{
		Op:         op,
		WorkItemID: workItemID,
		Err:        err,
	}
}

// IsWorkItemNotFound checks if an error indicates a work item was not found.
func IsWorkItemNotFound(err error) bool {
	return errors.Is(err, ErrWorkItemNotFound)
}

// IsWorkflowStateNotFound checks if an error indicates a workflow state was not found.
func IsWorkflowStateNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowStateNotFound)
}
