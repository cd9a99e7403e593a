// Package mocks provides testify mocks for the engine's collaborators.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCaller is a mock implementation of the gateway.Caller interface.
// Tests populate the result argument through Run callbacks.
type MockCaller struct {
	mock.Mock
}

func (m *MockCaller) Call(ctx context.Context, method string, params any, result any, timeout time.Duration) error {
	args := m.Called(ctx, method, params, result, timeout)

	return args.Error(0)
}

// MockReplyReader is a mock implementation of the gateway.ReplyReader interface.
type MockReplyReader struct {
	mock.Mock
}

func (m *MockReplyReader) ReadLatestReply(ctx context.Context, sessionKey string) (string, error) {
	args := m.Called(ctx, sessionKey)

	return args.String(0), args.Error(1)
}
