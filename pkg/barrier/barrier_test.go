package barrier

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hyvern/overseer/pkg/gateway"
	"github.com/hyvern/overseer/pkg/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func waitParamsFor(runID string) any {
	return mock.MatchedBy(func(p gateway.WaitParams) bool {
		return p.RunID == runID
	})
}

func stubWait(caller *mocks.MockCaller, runID string, result gateway.WaitResult, delay time.Duration) {
	caller.On("Call", mock.Anything, gateway.MethodAgentWait, waitParamsFor(runID), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if delay > 0 {
				time.Sleep(delay)
			}

			*(args.Get(3).(*gateway.WaitResult)) = result
		}).
		Return(nil)
}

func TestAwait_EmptyEntries(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	results := Await(context.Background(), nil, time.Minute, caller, replies, testLogger())

	assert.Empty(t, results)
	caller.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	replies.AssertNotCalled(t, "ReadLatestReply", mock.Anything, mock.Anything)
}

func TestAwait_PreservesInputOrder(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	// C settles first, then A, then B. The result slice must still be A, B, C.
	stubWait(caller, "run-a", gateway.WaitResult{Status: gateway.WaitStatusOK}, 60*time.Millisecond)
	stubWait(caller, "run-b", gateway.WaitResult{Status: gateway.WaitStatusOK}, 120*time.Millisecond)
	stubWait(caller, "run-c", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)

	replies.On("ReadLatestReply", mock.Anything, "sess-a").Return("reply A", nil)
	replies.On("ReadLatestReply", mock.Anything, "sess-b").Return("reply B", nil)
	replies.On("ReadLatestReply", mock.Anything, "sess-c").Return("reply C", nil)

	entries := []Entry{
		{RunID: "run-a", SessionKey: "sess-a", Label: "A"},
		{RunID: "run-b", SessionKey: "sess-b", Label: "B"},
		{RunID: "run-c", SessionKey: "sess-c", Label: "C"},
	}

	results := Await(context.Background(), entries, time.Minute, caller, replies, testLogger())

	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Entry.Label)
	assert.Equal(t, "B", results[1].Entry.Label)
	assert.Equal(t, "C", results[2].Entry.Label)
	assert.Equal(t, "reply A", results[0].Reply)
	assert.Equal(t, "reply B", results[1].Reply)
	assert.Equal(t, "reply C", results[2].Reply)
}

func TestAwait_TransportFailureIsIsolated(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	stubWait(caller, "run-a", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)
	caller.On("Call", mock.Anything, gateway.MethodAgentWait, waitParamsFor("run-b"), mock.Anything, mock.Anything).
		Return(assert.AnError)
	stubWait(caller, "run-c", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)

	replies.On("ReadLatestReply", mock.Anything, mock.Anything).Return("found it", nil)

	entries := []Entry{
		{RunID: "run-a", SessionKey: "sess-a"},
		{RunID: "run-b", SessionKey: "sess-b"},
		{RunID: "run-c", SessionKey: "sess-c"},
	}

	results := Await(context.Background(), entries, time.Minute, caller, replies, testLogger())

	require.Len(t, results, 3)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, StatusError, results[1].Status)
	assert.Equal(t, assert.AnError.Error(), results[1].Error)
	assert.Empty(t, results[1].Reply)
	assert.Equal(t, StatusOK, results[2].Status)
}

func TestAwait_StatusMapping(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	stubWait(caller, "run-a", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)
	stubWait(caller, "run-b", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)
	stubWait(caller, "run-c", gateway.WaitResult{Status: gateway.WaitStatusTimeout}, 0)

	replies.On("ReadLatestReply", mock.Anything, mock.Anything).Return("ok", nil)

	entries := []Entry{
		{RunID: "run-a", SessionKey: "sess-a"},
		{RunID: "run-b", SessionKey: "sess-b"},
		{RunID: "run-c", SessionKey: "sess-c"},
	}

	results := Await(context.Background(), entries, time.Minute, caller, replies, testLogger())

	require.Len(t, results, 3)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Equal(t, StatusOK, results[1].Status)
	assert.Equal(t, StatusTimeout, results[2].Status)
	assert.Empty(t, results[2].Reply)

	// Timed-out entries never hit the reply reader.
	replies.AssertNumberOfCalls(t, "ReadLatestReply", 2)
}

func TestAwait_RemoteErrorCarriesMessage(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	stubWait(caller, "run-a", gateway.WaitResult{Status: gateway.WaitStatusError, Error: "agent crashed"}, 0)

	results := Await(context.Background(), []Entry{{RunID: "run-a", SessionKey: "sess-a"}}, time.Minute, caller, replies, testLogger())

	require.Len(t, results, 1)
	assert.Equal(t, StatusError, results[0].Status)
	assert.Equal(t, "agent crashed", results[0].Error)
}

func TestAwait_ReplyReadFailureBecomesError(t *testing.T) {
	caller := &mocks.MockCaller{}
	replies := &mocks.MockReplyReader{}

	stubWait(caller, "run-a", gateway.WaitResult{Status: gateway.WaitStatusOK}, 0)
	replies.On("ReadLatestReply", mock.Anything, "sess-a").Return("", assert.AnError)

	results := Await(context.Background(), []Entry{{RunID: "run-a", SessionKey: "sess-a"}}, time.Minute, caller, replies, testLogger())

	require.Len(t, results, 1)
	assert.Equal(t, StatusError, results[0].Status)
	assert.Empty(t, results[0].Reply)
}
