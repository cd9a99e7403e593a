// Package file provides file-based persistence for development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/hyvern/overseer/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a directory tree:
// one JSON file per work item under workitems/, one per terminal workflow
// state under states/.
type Persistence struct {
	root      string
	workItems *WorkItemRepository
	states    *WorkflowStateRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:      cleanRoot,
		workItems: NewWorkItemRepository(cleanRoot),
		states:    NewWorkflowStateRepository(cleanRoot),
	}
}

func (p *Persistence) WorkItems() persistence.WorkItemRepository {
	return p.workItems
}

func (p *Persistence) WorkflowStates() persistence.WorkflowStateRepository {
	return p.states
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file persistence there is none.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
