package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/report"
)

type decompositionReport struct {
	Phases []struct {
		Name               string   `json:"name"`
		AcceptanceCriteria []string `json:"acceptance_criteria"`
		Tasks              []struct {
			Name               string   `json:"name"`
			AcceptanceCriteria []string `json:"acceptance_criteria"`
			Subtasks           []struct {
				Name               string   `json:"name"`
				Objective          string   `json:"objective"`
				AcceptanceCriteria []string `json:"acceptance_criteria"`
			} `json:"subtasks"`
		} `json:"tasks"`
	} `json:"phases"`
}

// decompose turns the effective plan into the phase→task→subtask execution
// tree, every node normalized to status=todo with a fresh ID and timestamps.
func (e *Engine) decompose(
	ctx context.Context,
	item models.WorkItem,
	plan *models.WorkflowPlan,
	discoveries []models.DiscoveryResult,
) (*models.OverseerPlan, error) {
	sessionKey := decomposeSession(item.ID)

	reply, err := e.runAndWait(ctx, sessionKey, decomposePrompt(item, plan, discoveries), e.config.Workflow.Plan.Timeout())
	if err != nil {
		return nil, fmt.Errorf("decomposition failed: %w", err)
	}

	var dr decompositionReport
	if err := report.Decode(reply, report.DecompositionSchema, &dr); err != nil {
		return nil, fmt.Errorf("decomposition produced no usable tree: %w", err)
	}

	dag := buildOverseerPlan(dr, time.Now().UTC())

	if err := validate.Struct(dag); err != nil {
		return nil, fmt.Errorf("decomposition produced an invalid tree: %w", err)
	}

	e.logger.InfoContext(ctx, "Decomposition produced",
		"work_item_id", item.ID,
		"phases", len(dag.Phases),
		"executable_nodes", dag.ExecutableNodes())

	return dag, nil
}

func buildOverseerPlan(dr decompositionReport, now time.Time) *models.OverseerPlan {
	dag := &models.OverseerPlan{PlanVersion: 1}

	for _, phase := range dr.Phases {
		p := &models.PlanPhase{
			ID:                 uuid.New().String(),
			Name:               phase.Name,
			Status:             models.NodeStatusTodo,
			AcceptanceCriteria: phase.AcceptanceCriteria,
			CreatedAt:          now,
			UpdatedAt:          now,
		}

		for _, task := range phase.Tasks {
			t := &models.PlanTask{
				ID:                 uuid.New().String(),
				Name:               task.Name,
				Status:             models.NodeStatusTodo,
				AcceptanceCriteria: task.AcceptanceCriteria,
				CreatedAt:          now,
				UpdatedAt:          now,
			}

			for _, subtask := range task.Subtasks {
				t.Subtasks = append(t.Subtasks, &models.PlanSubtask{
					ID:                 uuid.New().String(),
					Name:               subtask.Name,
					Objective:          subtask.Objective,
					Status:             models.NodeStatusTodo,
					AcceptanceCriteria: subtask.AcceptanceCriteria,
					CreatedAt:          now,
					UpdatedAt:          now,
				})
			}

			p.Tasks = append(p.Tasks, t)
		}

		dag.Phases = append(dag.Phases, p)
	}

	return dag
}
