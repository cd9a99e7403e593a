package models

import "time"

// NodeStatus represents the execution state of one decomposition tree node.
type NodeStatus string

const (
	NodeStatusTodo       NodeStatus = "todo"
	NodeStatusInProgress NodeStatus = "in_progress"
	NodeStatusDone       NodeStatus = "done"
	NodeStatusFailed     NodeStatus = "failed"
)

// IsTerminal reports whether the node needs no further execution.
func (s NodeStatus) IsTerminal() bool {
	return s == NodeStatusDone || s == NodeStatusFailed
}

// OverseerPlan is the hierarchical execution plan produced by decomposition:
// a strict phase → task → subtask tree. PlanVersion increments on every
// persisted mutation so concurrent readers can detect stale snapshots.
type OverseerPlan struct {
	PlanVersion int          `json:"plan_version"`
	Phases      []*PlanPhase `json:"phases" validate:"required,min=1"`
}

type PlanPhase struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name" validate:"required"`
	Status             NodeStatus  `json:"status"`
	AcceptanceCriteria []string    `json:"acceptance_criteria"`
	Tasks              []*PlanTask `json:"tasks" validate:"required,min=1"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type PlanTask struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name" validate:"required"`
	Status             NodeStatus     `json:"status"`
	AcceptanceCriteria []string       `json:"acceptance_criteria"`
	Subtasks           []*PlanSubtask `json:"subtasks" validate:"required,min=1"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

type PlanSubtask struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"      validate:"required"`
	Objective          string     `json:"objective" validate:"required"`
	Status             NodeStatus `json:"status"`
	AcceptanceCriteria []string   `json:"acceptance_criteria"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ExecutableNodes counts the tree's execution units: the subtask leaves.
// Phases and tasks are containers; they carry status but are not separately
// counted in progress.
func (p *OverseerPlan) ExecutableNodes() int {
	total := 0
	for _, phase := range p.Phases {
		for _, task := range phase.Tasks {
			total += len(task.Subtasks)
		}
	}

	return total
}

// ExecutionProgress is the running tally maintained by the executing phase,
// counted over the tree's executable nodes.
type ExecutionProgress struct {
	TotalNodes     int    `json:"total_nodes"`
	CompletedNodes int    `json:"completed_nodes"`
	FailedNodes    int    `json:"failed_nodes"`
	CurrentNodeID  string `json:"current_node_id,omitempty"`
}
