// Package barrier implements the join barrier: a fan-out/fan-in wait over a
// set of dispatched subagent runs. One run's failure never affects its
// siblings and never surfaces as an error from the barrier itself.
package barrier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hyvern/overseer/pkg/gateway"
)

// Entry describes one dispatched subagent run to wait on.
type Entry struct {
	RunID      string
	SessionKey string
	Label      string
}

// Status classifies how one entry's remote wait settled.
type Status string

const (
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusTimeout Status = "timeout"
)

// Result is the per-entry outcome. Reply is only populated for StatusOK.
type Result struct {
	Entry  Entry
	Status Status
	Reply  string
	Error  string
}

// Await waits on every entry concurrently and returns one result per entry,
// in input order regardless of completion order. The remote wait call is the
// sole owner of the timeout; the barrier runs no timer of its own. An empty
// entry set returns immediately without touching the gateway.
func Await(
	ctx context.Context,
	entries []Entry,
	timeout time.Duration,
	caller gateway.Caller,
	replies gateway.ReplyReader,
	logger *slog.Logger,
) []Result {
	results := make([]Result, len(entries))
	if len(entries) == 0 {
		return results
	}

	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)

		go func(slot int, entry Entry) {
			defer wg.Done()

			// Each goroutine owns exactly one result slot, so no lock
			// is needed around the shared slice.
			results[slot] = awaitOne(ctx, entry, timeout, caller, replies, logger)
		}(i, entry)
	}

	wg.Wait()

	return results
}

func awaitOne(
	ctx context.Context,
	entry Entry,
	timeout time.Duration,
	caller gateway.Caller,
	replies gateway.ReplyReader,
	logger *slog.Logger,
) Result {
	result := Result{Entry: entry}

	var wait gateway.WaitResult

	err := caller.Call(ctx, gateway.MethodAgentWait, gateway.WaitParams{
		RunID:      entry.RunID,
		SessionKey: entry.SessionKey,
		TimeoutMs:  timeout.Milliseconds(),
	}, &wait, timeout)
	if err != nil {
		// A transport-level rejection is confined to this entry.
		logger.WarnContext(ctx, "Barrier wait call failed",
			"label", entry.Label, "run_id", entry.RunID, "error", err)

		result.Status = StatusError
		result.Error = err.Error()

		return result
	}

	switch wait.Status {
	case gateway.WaitStatusOK:
		result.Status = StatusOK

		reply, err := replies.ReadLatestReply(ctx, entry.SessionKey)
		if err != nil {
			logger.WarnContext(ctx, "Barrier reply read failed",
				"label", entry.Label, "session_key", entry.SessionKey, "error", err)

			result.Status = StatusError
			result.Error = err.Error()

			return result
		}

		result.Reply = reply
	case gateway.WaitStatusTimeout:
		result.Status = StatusTimeout
	case gateway.WaitStatusError:
		result.Status = StatusError
		result.Error = wait.Error
	default:
		result.Status = StatusError
		result.Error = "unknown wait status: " + string(wait.Status)
	}

	return result
}
