package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyvern/overseer/pkg/models"
)

// Prompt builders. Each prompt ends with the JSON contract the subagent's
// report must satisfy; pkg/report validates the reply against the matching
// schema.

func planPrompt(item models.WorkItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are planning the work item %q.\n\n", item.Title)

	if item.Description != "" {
		fmt.Fprintf(&b, "Description:\n%s\n\n", item.Description)
	}

	b.WriteString("Produce a workflow plan. Reply with a fenced json block containing: " +
		"intent, scope, discovery_questions (array of questions that need codebase " +
		"investigation before decomposition), constraints, success_criteria and " +
		"estimated_complexity (low|medium|high).")

	return b.String()
}

func reviewPrompt(item models.WorkItem, plan *models.WorkflowPlan, iteration int) string {
	encoded, _ := json.MarshalIndent(plan, "", "  ")

	return fmt.Sprintf(
		"Review iteration %d for the plan of work item %q.\n\nCurrent plan:\n%s\n\n"+
			"Reply with a fenced json block containing: approved (boolean), feedback, "+
			"suggested_changes (array) and, when changes are needed, revised_plan "+
			"(a full plan object).",
		iteration, item.Title, encoded)
}

func discoveryPrompt(item models.WorkItem, plan *models.WorkflowPlan, question string) string {
	return fmt.Sprintf(
		"Investigate the following question for work item %q (scope: %s):\n\n%s\n\n"+
			"Reply with a fenced json block containing: findings (text) and "+
			"key_insights (array of short takeaways).",
		item.Title, plan.Scope, question)
}

func decomposePrompt(item models.WorkItem, plan *models.WorkflowPlan, discoveries []models.DiscoveryResult) string {
	var b strings.Builder

	encoded, _ := json.MarshalIndent(plan, "", "  ")
	fmt.Fprintf(&b, "Decompose the approved plan for work item %q into an execution tree.\n\nPlan:\n%s\n", item.Title, encoded)

	answered := make([]models.DiscoveryResult, 0, len(discoveries))

	for _, d := range discoveries {
		if d.Status == models.DiscoveryStatusOK {
			answered = append(answered, d)
		}
	}

	if len(answered) > 0 {
		b.WriteString("\nDiscovery findings:\n")

		for _, d := range answered {
			fmt.Fprintf(&b, "- Q: %s\n  A: %s\n", d.Question, d.Findings)
		}
	}

	b.WriteString("\nReply with a fenced json block containing: phases (array), each with " +
		"name, acceptance_criteria and tasks; each task with name, acceptance_criteria " +
		"and subtasks; each subtask with name, objective and acceptance_criteria.")

	return b.String()
}

func subtaskPrompt(item models.WorkItem, subtask *models.PlanSubtask) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Execute subtask %q for work item %q.\n\nObjective: %s\n",
		subtask.Name, item.Title, subtask.Objective)

	if len(subtask.AcceptanceCriteria) > 0 {
		b.WriteString("\nAcceptance criteria:\n")

		for _, c := range subtask.AcceptanceCriteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	return b.String()
}
