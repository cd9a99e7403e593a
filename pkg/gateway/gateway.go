// Package gateway defines the RPC contracts between the workflow engine and
// the agent subprocesses it delegates content generation to. The engine only
// depends on the interfaces here; the wire transport lives behind them.
package gateway

import (
	"context"
	"time"
)

// RPC methods used by the workflow engine.
const (
	MethodAgentRun  = "agent.run"  // Dispatch a subagent run against a session key
	MethodAgentWait = "agent.wait" // Block until the run settles or the timeout elapses
)

// Caller dispatches one typed RPC call. Implementations decode the remote
// result into result when it is non-nil. Implementations must be safe for
// concurrent use; the join barrier issues calls from multiple goroutines.
type Caller interface {
	Call(ctx context.Context, method string, params any, result any, timeout time.Duration) error
}

// ReplyReader returns the most recent assistant reply text for a session, or
// an empty string when the session has no reply yet.
type ReplyReader interface {
	ReadLatestReply(ctx context.Context, sessionKey string) (string, error)
}

// RunParams starts a new subagent run scoped to its own session.
type RunParams struct {
	SessionKey string `json:"session_key"`
	Prompt     string `json:"prompt"`
	Thinking   string `json:"thinking,omitempty"`
}

// RunResult identifies the dispatched run.
type RunResult struct {
	RunID string `json:"run_id"`
}

// WaitStatus is the remote wait call's outcome classification. The remote
// side owns timeout enforcement; callers never run their own timer.
type WaitStatus string

const (
	WaitStatusOK      WaitStatus = "ok"
	WaitStatusError   WaitStatus = "error"
	WaitStatusTimeout WaitStatus = "timeout"
)

// WaitParams blocks on a previously dispatched run.
type WaitParams struct {
	RunID      string `json:"run_id"`
	SessionKey string `json:"session_key"`
	TimeoutMs  int64  `json:"timeout_ms"`
}

// WaitResult reports how the run settled.
type WaitResult struct {
	Status WaitStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}
