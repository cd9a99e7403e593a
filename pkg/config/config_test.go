package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "worker.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Workflow.Enabled)
	assert.True(t, cfg.Workflow.Review.Enabled)
	assert.Equal(t, 3, cfg.Workflow.Review.MaxIterations)
	assert.Equal(t, 2*time.Minute, cfg.Workflow.Plan.Timeout())
	assert.Equal(t, 2*time.Minute, cfg.Workflow.Review.Timeout())
	assert.Equal(t, 2*time.Minute, cfg.Workflow.Discovery.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.Workflow.Execution.TaskTimeout())

	require.NoError(t, Validate(cfg))
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
enabled: true
thinking: high
gateway:
  url: http://gateway.internal:4520/rpc
workflow:
  enabled: true
  plan:
    timeout_ms: 60000
  review:
    enabled: false
    max_iterations: 5
    timeout_ms: 30000
  discovery:
    timeout_ms: 90000
  execution:
    task_timeout_ms: 600000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "high", cfg.Thinking)
	assert.Equal(t, "http://gateway.internal:4520/rpc", cfg.Gateway.URL)
	assert.False(t, cfg.Workflow.Review.Enabled)
	assert.Equal(t, 5, cfg.Workflow.Review.MaxIterations)
	assert.Equal(t, time.Minute, cfg.Workflow.Plan.Timeout())
	assert.Equal(t, 10*time.Minute, cfg.Workflow.Execution.TaskTimeout())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
workflow:
  review:
    enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Workflow.Review.Enabled)
	// Everything else stays at the defaults.
	assert.Equal(t, "http://localhost:4520/rpc", cfg.Gateway.URL)
	assert.Equal(t, 3, cfg.Workflow.Review.MaxIterations)
	assert.Equal(t, 2*time.Minute, cfg.Workflow.Plan.Timeout())
}

func TestLoad_ZeroMaxIterationsFallsBack(t *testing.T) {
	path := writeConfig(t, `
workflow:
  review:
    enabled: true
    max_iterations: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workflow.Review.MaxIterations)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "workflow: [not: a: mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Gateway.URL = "not a url"

	require.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Thinking = "maximum"

	require.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Workflow.Review.MaxIterations = -1

	require.Error(t, Validate(cfg))
}
