package workflow

import "fmt"

// Session keys are derived deterministically from the work item so reruns of
// the same item land in traceable, per-purpose agent sessions.

func planSession(itemID string) string {
	return fmt.Sprintf("workitem:%s:plan", itemID)
}

func reviewSession(itemID string, iteration int) string {
	return fmt.Sprintf("workitem:%s:review:%d", itemID, iteration)
}

func discoverySession(itemID string, questionIndex int) string {
	return fmt.Sprintf("workitem:%s:discovery:%d", itemID, questionIndex)
}

func decomposeSession(itemID string) string {
	return fmt.Sprintf("workitem:%s:decompose", itemID)
}

func subtaskSession(itemID, subtaskID string) string {
	return fmt.Sprintf("workitem:%s:subtask:%s", itemID, subtaskID)
}
