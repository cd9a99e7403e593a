package models

import "time"

// Phase represents one stage of the workflow state machine.
type Phase string

const (
	PhasePlanning    Phase = "planning"
	PhaseReviewing   Phase = "reviewing"
	PhaseDiscovering Phase = "discovering"
	PhaseDecomposing Phase = "decomposing"
	PhaseExecuting   Phase = "executing"
	PhaseCompleted   Phase = "completed"
	PhaseFailed      Phase = "failed"
)

// IsTerminal reports whether the phase is a terminal state.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// WorkflowState is the engine's record for one workflow run. It is owned
// exclusively by the engine while the run is in flight and returned by value
// when the run settles.
//
// Invariants: CompletedAt is set exactly when the phase is terminal; Error is
// set exactly when the phase is failed; fields for phases not yet reached
// stay at their zero value.
type WorkflowState struct {
	Phase             Phase              `json:"phase"`
	WorkItemID        string             `json:"work_item_id"`
	WorkItemTitle     string             `json:"work_item_title"`
	Plan              *WorkflowPlan      `json:"plan,omitempty"`
	ReviewIterations  []ReviewIteration  `json:"review_iterations"`
	DiscoveryResults  []DiscoveryResult  `json:"discovery_results"`
	DAG               *OverseerPlan      `json:"dag,omitempty"`
	ExecutionProgress *ExecutionProgress `json:"execution_progress,omitempty"`
	StartedAt         time.Time          `json:"started_at"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
	Error             string             `json:"error,omitempty"`
}

// Complete marks the run as successfully finished.
func (s *WorkflowState) Complete(now time.Time) {
	s.Phase = PhaseCompleted
	s.CompletedAt = &now
}

// Fail marks the run as failed with the given cause.
func (s *WorkflowState) Fail(err error, now time.Time) {
	s.Phase = PhaseFailed
	s.Error = err.Error()
	s.CompletedAt = &now
}

// EffectivePlan returns the plan the downstream phases should use: the last
// review revision when one exists, otherwise the original plan.
func (s *WorkflowState) EffectivePlan() *WorkflowPlan {
	for i := len(s.ReviewIterations) - 1; i >= 0; i-- {
		if rp := s.ReviewIterations[i].RevisedPlan; rp != nil {
			return rp
		}
	}

	return s.Plan
}
