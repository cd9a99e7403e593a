package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewHTTPClient(server.URL, slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestCall_RoundTrip(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "2.0", req.JSONRPC)
		assert.NotEmpty(t, req.ID)
		assert.Equal(t, MethodAgentRun, req.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		params := req.Params.(map[string]any)
		assert.Equal(t, "workitem:item-1:plan", params["session_key"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  RunResult{RunID: "run-42"},
		})
	})

	var result RunResult

	err := client.Call(context.Background(), MethodAgentRun, RunParams{
		SessionKey: "workitem:item-1:plan",
		Prompt:     "plan this",
	}, &result, 0)

	require.NoError(t, err)
	assert.Equal(t, "run-42", result.RunID)
}

func TestCall_RemoteError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc": "2.0", "id": "1", "error": {"code": -32601, "message": "method not found"}}`))
	})

	err := client.Call(context.Background(), "agent.unknown", nil, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
	assert.Contains(t, err.Error(), "-32601")
}

func TestCall_HTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.Call(context.Background(), MethodAgentWait, nil, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestCall_MalformedEnvelope(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	err := client.Call(context.Background(), MethodAgentWait, nil, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestReadLatestReply(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "session.lastReply", req.Method)

		_, _ = w.Write([]byte(`{"jsonrpc": "2.0", "id": "1", "result": {"text": "the findings"}}`))
	})

	reply, err := client.ReadLatestReply(context.Background(), "workitem:item-1:discovery:0")
	require.NoError(t, err)
	assert.Equal(t, "the findings", reply)
}
