package workflow

import (
	"context"
	"fmt"

	"github.com/hyvern/overseer/pkg/barrier"
	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/report"
)

type discoveryReport struct {
	Findings    string   `json:"findings"`
	KeyInsights []string `json:"key_insights"`
}

// discover fans one subagent run out per discovery question and joins them
// through the barrier. A question that times out or errors yields a result
// with its status preserved and empty findings; only dispatch failures
// (before the barrier) are fatal.
func (e *Engine) discover(
	ctx context.Context,
	item models.WorkItem,
	plan *models.WorkflowPlan,
) ([]models.DiscoveryResult, error) {
	entries := make([]barrier.Entry, 0, len(plan.DiscoveryQuestions))

	for i, question := range plan.DiscoveryQuestions {
		sessionKey := discoverySession(item.ID, i)

		runID, err := e.runAgent(ctx, sessionKey, discoveryPrompt(item, plan, question))
		if err != nil {
			return nil, fmt.Errorf("failed to dispatch discovery question %d: %w", i, err)
		}

		entries = append(entries, barrier.Entry{
			RunID:      runID,
			SessionKey: sessionKey,
			Label:      question,
		})
	}

	e.logger.InfoContext(ctx, "Discovery dispatched",
		"work_item_id", item.ID, "questions", len(entries))

	joined := barrier.Await(ctx, entries, e.config.Workflow.Discovery.Timeout(), e.caller, e.replies, e.logger)

	results := make([]models.DiscoveryResult, len(joined))
	for i, jr := range joined {
		results[i] = e.discoveryResult(ctx, jr)
	}

	return results, nil
}

func (e *Engine) discoveryResult(ctx context.Context, jr barrier.Result) models.DiscoveryResult {
	result := models.DiscoveryResult{
		Question:   jr.Entry.Label,
		RunID:      jr.Entry.RunID,
		SessionKey: jr.Entry.SessionKey,
		Status:     models.DiscoveryStatus(jr.Status),
		Error:      jr.Error,
	}

	if jr.Status != barrier.StatusOK {
		return result
	}

	var dr discoveryReport
	if err := report.Decode(jr.Reply, report.DiscoverySchema, &dr); err != nil {
		// An unstructured answer is still an answer.
		e.logger.DebugContext(ctx, "Discovery reply has no structured report, keeping raw text",
			"session_key", jr.Entry.SessionKey, "error", err)

		result.Findings = jr.Reply

		return result
	}

	result.Findings = dr.Findings
	result.KeyInsights = dr.KeyInsights

	return result
}
