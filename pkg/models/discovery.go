package models

// DiscoveryStatus classifies the outcome of one discovery subagent run.
type DiscoveryStatus string

const (
	DiscoveryStatusOK      DiscoveryStatus = "ok"
	DiscoveryStatusError   DiscoveryStatus = "error"
	DiscoveryStatusTimeout DiscoveryStatus = "timeout"
)

// DiscoveryResult is the answer (or non-answer) to one discovery question.
// A timeout or error keeps the question visible downstream without failing
// the workflow.
type DiscoveryResult struct {
	Question    string          `json:"question"`
	RunID       string          `json:"run_id"`
	SessionKey  string          `json:"session_key"`
	Status      DiscoveryStatus `json:"status"`
	Findings    string          `json:"findings"`
	KeyInsights []string        `json:"key_insights,omitempty"`
	Error       string          `json:"error,omitempty"`
}
