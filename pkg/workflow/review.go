package workflow

import (
	"context"
	"fmt"

	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/report"
)

type reviewReport struct {
	Approved         bool                 `json:"approved"`
	Feedback         string               `json:"feedback"`
	SuggestedChanges []string             `json:"suggested_changes"`
	RevisedPlan      *models.WorkflowPlan `json:"revised_plan"`
}

// review runs the bounded plan-review loop. Each iteration may revise the
// working plan; approval stops the loop early. Hitting the iteration bound
// without approval is not an error: review is advisory, the latest plan
// proceeds.
func (e *Engine) review(
	ctx context.Context,
	item models.WorkItem,
	plan *models.WorkflowPlan,
) ([]models.ReviewIteration, error) {
	iterations := make([]models.ReviewIteration, 0, e.config.Workflow.Review.MaxIterations)
	current := plan

	for i := 1; i <= e.config.Workflow.Review.MaxIterations; i++ {
		sessionKey := reviewSession(item.ID, i)

		reply, err := e.runAndWait(ctx, sessionKey, reviewPrompt(item, current, i), e.config.Workflow.Review.Timeout())
		if err != nil {
			return nil, fmt.Errorf("review iteration %d failed: %w", i, err)
		}

		var rr reviewReport
		if err := report.Decode(reply, report.ReviewSchema, &rr); err != nil {
			return nil, fmt.Errorf("review iteration %d produced no usable report: %w", i, err)
		}

		iteration := models.ReviewIteration{
			Iteration:        i,
			Approved:         rr.Approved,
			Feedback:         rr.Feedback,
			SuggestedChanges: rr.SuggestedChanges,
			RevisedPlan:      rr.RevisedPlan,
		}
		iterations = append(iterations, iteration)

		if rr.RevisedPlan != nil {
			current = rr.RevisedPlan
		}

		if rr.Approved {
			e.logger.InfoContext(ctx, "Plan approved",
				"work_item_id", item.ID, "iteration", i)

			return iterations, nil
		}

		e.logger.InfoContext(ctx, "Plan not yet approved",
			"work_item_id", item.ID, "iteration", i, "revised", rr.RevisedPlan != nil)
	}

	e.logger.WarnContext(ctx, "Review iteration bound reached without approval, proceeding",
		"work_item_id", item.ID, "iterations", len(iterations))

	return iterations, nil
}
