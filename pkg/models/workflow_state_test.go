package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseIsTerminal(t *testing.T) {
	assert.True(t, PhaseCompleted.IsTerminal())
	assert.True(t, PhaseFailed.IsTerminal())

	for _, phase := range []Phase{PhasePlanning, PhaseReviewing, PhaseDiscovering, PhaseDecomposing, PhaseExecuting} {
		assert.False(t, phase.IsTerminal(), "phase %s", phase)
	}
}

func TestWorkflowStateComplete(t *testing.T) {
	now := time.Now().UTC()
	state := WorkflowState{Phase: PhaseExecuting}

	state.Complete(now)

	assert.Equal(t, PhaseCompleted, state.Phase)
	require.NotNil(t, state.CompletedAt)
	assert.Equal(t, now, *state.CompletedAt)
	assert.Empty(t, state.Error)
}

func TestWorkflowStateFail(t *testing.T) {
	now := time.Now().UTC()
	state := WorkflowState{Phase: PhaseDecomposing}

	state.Fail(errors.New("decomposition produced no usable tree"), now)

	assert.Equal(t, PhaseFailed, state.Phase)
	assert.Equal(t, "decomposition produced no usable tree", state.Error)
	require.NotNil(t, state.CompletedAt)
	assert.Equal(t, now, *state.CompletedAt)
}

func TestEffectivePlan_NoReviews(t *testing.T) {
	plan := &WorkflowPlan{Intent: "original"}
	state := WorkflowState{Plan: plan}

	assert.Same(t, plan, state.EffectivePlan())
}

func TestEffectivePlan_LastRevisionWins(t *testing.T) {
	first := &WorkflowPlan{Intent: "first revision"}
	second := &WorkflowPlan{Intent: "second revision"}

	state := WorkflowState{
		Plan: &WorkflowPlan{Intent: "original"},
		ReviewIterations: []ReviewIteration{
			{Iteration: 1, RevisedPlan: first},
			{Iteration: 2, RevisedPlan: second},
			{Iteration: 3, Approved: true}, // approval without a revision
		},
	}

	assert.Same(t, second, state.EffectivePlan())
}

func TestEffectivePlan_IterationsWithoutRevisions(t *testing.T) {
	plan := &WorkflowPlan{Intent: "original"}
	state := WorkflowState{
		Plan: plan,
		ReviewIterations: []ReviewIteration{
			{Iteration: 1},
			{Iteration: 2, Approved: true},
		},
	}

	assert.Same(t, plan, state.EffectivePlan())
}
