package models

// Complexity is the planner's effort estimate for a work item.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// WorkflowPlan is the planning phase's output, possibly revised by review.
type WorkflowPlan struct {
	Intent              string     `json:"intent"               validate:"required"`
	Scope               string     `json:"scope"                validate:"required"`
	DiscoveryQuestions  []string   `json:"discovery_questions"`
	Constraints         []string   `json:"constraints"`
	SuccessCriteria     []string   `json:"success_criteria"`
	EstimatedComplexity Complexity `json:"estimated_complexity" validate:"required,oneof=low medium high"`
}

// ReviewIteration records one pass of the plan review loop.
type ReviewIteration struct {
	Iteration        int           `json:"iteration"`
	Approved         bool          `json:"approved"`
	Feedback         string        `json:"feedback"`
	SuggestedChanges []string      `json:"suggested_changes,omitempty"`
	RevisedPlan      *WorkflowPlan `json:"revised_plan,omitempty"`
}
