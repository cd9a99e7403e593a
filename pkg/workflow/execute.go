package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/hyvern/overseer/pkg/models"
)

// execute walks the decomposition tree sequentially, depth first, driving one
// subagent run per subtask. Progress counts the subtask leaves; phases and
// tasks carry status but are containers, not execution units.
//
// Failure policy (bounded blast radius): a failed subtask fails its parent
// task and halts the task's remaining subtasks, which are marked failed so
// every node ends terminal; sibling tasks under the same phase still run. A
// phase is done only when all of its tasks are. Subtask failures are local;
// context cancellation is the one fatal condition that aborts the walk.
func (e *Engine) execute(
	ctx context.Context,
	item models.WorkItem,
	dag *models.OverseerPlan,
) (*models.ExecutionProgress, error) {
	progress := &models.ExecutionProgress{TotalNodes: dag.ExecutableNodes()}

	for _, phase := range dag.Phases {
		if err := ctx.Err(); err != nil {
			return progress, fmt.Errorf("execution aborted at phase %s: %w", phase.ID, err)
		}

		setNodeStatus(&phase.Status, &phase.UpdatedAt, models.NodeStatusInProgress)
		progress.CurrentNodeID = phase.ID

		phaseFailed := false

		for _, task := range phase.Tasks {
			if err := ctx.Err(); err != nil {
				return progress, fmt.Errorf("execution aborted at task %s: %w", task.ID, err)
			}

			setNodeStatus(&task.Status, &task.UpdatedAt, models.NodeStatusInProgress)
			progress.CurrentNodeID = task.ID

			taskFailed := false

			for _, subtask := range task.Subtasks {
				if taskFailed {
					// Halted by an earlier sibling; terminal for accounting.
					setNodeStatus(&subtask.Status, &subtask.UpdatedAt, models.NodeStatusFailed)
					progress.FailedNodes++

					continue
				}

				setNodeStatus(&subtask.Status, &subtask.UpdatedAt, models.NodeStatusInProgress)
				progress.CurrentNodeID = subtask.ID

				err := e.executeSubtask(ctx, item, subtask)

				if cerr := ctx.Err(); cerr != nil {
					return progress, fmt.Errorf("execution aborted at subtask %s: %w", subtask.ID, cerr)
				}

				if err != nil {
					e.logger.WarnContext(ctx, "Subtask failed",
						"work_item_id", item.ID, "subtask_id", subtask.ID, "error", err)

					setNodeStatus(&subtask.Status, &subtask.UpdatedAt, models.NodeStatusFailed)
					progress.FailedNodes++

					taskFailed = true

					continue
				}

				setNodeStatus(&subtask.Status, &subtask.UpdatedAt, models.NodeStatusDone)
				progress.CompletedNodes++
			}

			if taskFailed {
				setNodeStatus(&task.Status, &task.UpdatedAt, models.NodeStatusFailed)

				phaseFailed = true
			} else {
				setNodeStatus(&task.Status, &task.UpdatedAt, models.NodeStatusDone)
			}
		}

		if phaseFailed {
			setNodeStatus(&phase.Status, &phase.UpdatedAt, models.NodeStatusFailed)
		} else {
			setNodeStatus(&phase.Status, &phase.UpdatedAt, models.NodeStatusDone)
		}
	}

	progress.CurrentNodeID = ""
	dag.PlanVersion++

	return progress, nil
}

// executeSubtask runs one subagent for one subtask. A timeout, a remote
// error or a transport failure is a subtask-local outcome, not a workflow
// failure.
func (e *Engine) executeSubtask(ctx context.Context, item models.WorkItem, subtask *models.PlanSubtask) error {
	sessionKey := subtaskSession(item.ID, subtask.ID)

	_, err := e.runAndWait(ctx, sessionKey, subtaskPrompt(item, subtask), e.config.Workflow.Execution.TaskTimeout())

	return err
}

func setNodeStatus(status *models.NodeStatus, updatedAt *time.Time, next models.NodeStatus) {
	*status = next
	*updatedAt = time.Now().UTC()
}
