package workflow

import (
	"context"
	"fmt"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/report"
)

// plan produces the workflow plan for the item. There is no partial-plan
// state: any failure here is fatal to the whole workflow.
func (e *Engine) plan(ctx context.Context, item models.WorkItem) (*models.WorkflowPlan, error) {
	sessionKey := planSession(item.ID)

	reply, err := e.runAndWait(ctx, sessionKey, planPrompt(item), e.config.Workflow.Plan.Timeout())
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}

	var plan models.WorkflowPlan
	if err := report.Decode(reply, report.PlanSchema, &plan); err != nil {
		return nil, fmt.Errorf("planning produced no usable plan: %w", err)
	}

	if err := validate.Struct(plan); err != nil {
		return nil, fmt.Errorf("planning produced an invalid plan: %w", err)
	}

	e.logger.InfoContext(ctx, "Plan produced",
		"work_item_id", item.ID,
		"discovery_questions", len(plan.DiscoveryQuestions),
		"complexity", plan.EstimatedComplexity)

	return &plan, nil
}
