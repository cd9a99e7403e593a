// Package workflow implements the autonomous work-item workflow engine: a
// multi-phase orchestrator that drives one queued work item through planning,
// optional review, parallel discovery, hierarchical decomposition and
// execution. Content generation is delegated to agent subprocesses behind
// the gateway contracts; this package owns the state machine, the skip rules
// and the failure isolation between the two error tiers.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hyvern/overseer/pkg/config"
	"github.com/hyvern/overseer/pkg/gateway"
	"github.com/hyvern/overseer/pkg/models"
)

var validate = validator.New()

// Engine sequences the workflow phases for one work item at a time. All
// collaborators are injected at construction; an Engine holds no mutable
// state of its own, so one instance may run workflows for unrelated items
// concurrently.
type Engine struct {
	caller  gateway.Caller
	replies gateway.ReplyReader
	config  config.WorkerConfig
	logger  *slog.Logger
}

func NewEngine(
	caller gateway.Caller,
	replies gateway.ReplyReader,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		caller:  caller,
		replies: replies,
		config:  cfg,
		logger:  logger.With("module", "workflow_engine"),
	}
}

// ExecuteWorkflow runs the full phase sequence for one work item and returns
// the terminal state. It never returns an error: every failure is captured
// into the returned state with phase=failed, the cause in Error and
// CompletedAt stamped.
func (e *Engine) ExecuteWorkflow(ctx context.Context, item models.WorkItem) models.WorkflowState {
	logger := e.logger.With("work_item_id", item.ID)

	state := models.WorkflowState{
		Phase:            models.PhasePlanning,
		WorkItemID:       item.ID,
		WorkItemTitle:    item.Title,
		ReviewIterations: []models.ReviewIteration{},
		DiscoveryResults: []models.DiscoveryResult{},
		StartedAt:        time.Now().UTC(),
	}

	logger.InfoContext(ctx, "Starting workflow", "title", item.Title)

	plan, err := e.plan(ctx, item)
	if err != nil {
		return e.fail(ctx, state, err)
	}

	state.Plan = plan

	state.Phase = models.PhaseReviewing

	if e.config.Workflow.Review.Enabled {
		iterations, err := e.review(ctx, item, plan)
		if err != nil {
			return e.fail(ctx, state, err)
		}

		state.ReviewIterations = iterations
	} else {
		logger.InfoContext(ctx, "Review disabled, skipping phase")
	}

	effective := state.EffectivePlan()

	state.Phase = models.PhaseDiscovering

	if len(effective.DiscoveryQuestions) > 0 {
		results, err := e.discover(ctx, item, effective)
		if err != nil {
			return e.fail(ctx, state, err)
		}

		state.DiscoveryResults = results
	} else {
		logger.InfoContext(ctx, "Plan has no discovery questions, skipping phase")
	}

	state.Phase = models.PhaseDecomposing

	dag, err := e.decompose(ctx, item, effective, state.DiscoveryResults)
	if err != nil {
		return e.fail(ctx, state, err)
	}

	state.DAG = dag

	state.Phase = models.PhaseExecuting

	progress, err := e.execute(ctx, item, dag)
	state.ExecutionProgress = progress

	if err != nil {
		return e.fail(ctx, state, err)
	}

	state.Complete(time.Now().UTC())

	logger.InfoContext(ctx, "Workflow completed",
		"total_nodes", progress.TotalNodes,
		"completed_nodes", progress.CompletedNodes,
		"failed_nodes", progress.FailedNodes)

	return state
}

// fail settles the state into the failed phase. A cancelled run gets a
// distinguishable error value rather than being silently dropped.
func (e *Engine) fail(ctx context.Context, state models.WorkflowState, err error) models.WorkflowState {
	if errors.Is(err, context.Canceled) {
		err = fmt.Errorf("workflow cancelled during %s: %w", state.Phase, err)
	}

	e.logger.ErrorContext(ctx, "Workflow failed",
		"work_item_id", state.WorkItemID, "phase", state.Phase, "error", err)

	state.Fail(err, time.Now().UTC())

	return state
}

// runAgent dispatches a subagent run against its own session key.
func (e *Engine) runAgent(ctx context.Context, sessionKey, prompt string) (string, error) {
	var run gateway.RunResult

	err := e.caller.Call(ctx, gateway.MethodAgentRun, gateway.RunParams{
		SessionKey: sessionKey,
		Prompt:     prompt,
		Thinking:   e.config.Thinking,
	}, &run, 0)
	if err != nil {
		return "", fmt.Errorf("failed to dispatch agent run for %s: %w", sessionKey, err)
	}

	return run.RunID, nil
}

// runAndWait dispatches a run, blocks until the remote wait settles and
// returns the latest reply. The remote call owns the timeout.
func (e *Engine) runAndWait(ctx context.Context, sessionKey, prompt string, timeout time.Duration) (string, error) {
	runID, err := e.runAgent(ctx, sessionKey, prompt)
	if err != nil {
		return "", err
	}

	var wait gateway.WaitResult

	err = e.caller.Call(ctx, gateway.MethodAgentWait, gateway.WaitParams{
		RunID:      runID,
		SessionKey: sessionKey,
		TimeoutMs:  timeout.Milliseconds(),
	}, &wait, timeout)
	if err != nil {
		return "", fmt.Errorf("failed to wait on agent run %s: %w", runID, err)
	}

	switch wait.Status {
	case gateway.WaitStatusOK:
		reply, err := e.replies.ReadLatestReply(ctx, sessionKey)
		if err != nil {
			return "", fmt.Errorf("failed to read reply for %s: %w", sessionKey, err)
		}

		return reply, nil
	case gateway.WaitStatusTimeout:
		return "", fmt.Errorf("agent run %s timed out after %s", runID, timeout)
	default:
		return "", fmt.Errorf("agent run %s failed: %s", runID, wait.Error)
	}
}
