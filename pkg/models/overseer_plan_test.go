package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeStatusIsTerminal(t *testing.T) {
	assert.True(t, NodeStatusDone.IsTerminal())
	assert.True(t, NodeStatusFailed.IsTerminal())
	assert.False(t, NodeStatusTodo.IsTerminal())
	assert.False(t, NodeStatusInProgress.IsTerminal())
}

func TestExecutableNodesCountsSubtaskLeaves(t *testing.T) {
	plan := &OverseerPlan{
		Phases: []*PlanPhase{
			{
				Tasks: []*PlanTask{
					{Subtasks: []*PlanSubtask{{}, {}}},
					{Subtasks: []*PlanSubtask{{}}},
				},
			},
			{
				Tasks: []*PlanTask{
					{Subtasks: []*PlanSubtask{{}, {}, {}}},
				},
			},
		},
	}

	// Two phases and three tasks are containers; only the six leaves count.
	assert.Equal(t, 6, plan.ExecutableNodes())
}

func TestExecutableNodesEmptyPlan(t *testing.T) {
	assert.Equal(t, 0, (&OverseerPlan{}).ExecutableNodes())
}
