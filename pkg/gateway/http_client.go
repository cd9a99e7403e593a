package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// waitGrace is added on top of the remote timeout so a long agent.wait call
// is not cut off by the HTTP layer before the gateway reports "timeout".
const waitGrace = 15 * time.Second

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// HTTPClient speaks JSON-RPC over HTTP to the agent gateway. It implements
// both Caller and ReplyReader.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{},
		logger:  logger.With("module", "gateway_client"),
	}
}

func (c *HTTPClient) Call(ctx context.Context, method string, params any, result any, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout+waitGrace)
		defer cancel()
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "Calling gateway", "method", method)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway call %s failed: %w", method, err)
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WarnContext(ctx, "Failed to close gateway response body", "error", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway call %s returned HTTP %d", method, resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if envelope.Error != nil {
		return fmt.Errorf("gateway call %s failed: %s (code %d)", method, envelope.Error.Message, envelope.Error.Code)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}

	return nil
}

type lastReplyParams struct {
	SessionKey string `json:"session_key"`
}

type lastReplyResult struct {
	Text string `json:"text"`
}

// ReadLatestReply fetches the most recent assistant message for a session.
// An empty string means the session has no reply yet.
func (c *HTTPClient) ReadLatestReply(ctx context.Context, sessionKey string) (string, error) {
	var result lastReplyResult

	err := c.Call(ctx, "session.lastReply", lastReplyParams{SessionKey: sessionKey}, &result, 0)
	if err != nil {
		return "", err
	}

	return result.Text, nil
}
