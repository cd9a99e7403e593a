// Package config provides worker configuration loading.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// WorkerConfig is the engine worker's configuration, loaded from YAML.
type WorkerConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Thinking string         `yaml:"thinking"  validate:"omitempty,oneof=low medium high"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

type GatewayConfig struct {
	URL string `yaml:"url" validate:"required,url"`
}

type WorkflowConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Plan      PlanConfig      `yaml:"plan"`
	Review    ReviewConfig    `yaml:"review"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Execution ExecutionConfig `yaml:"execution"`
}

type PlanConfig struct {
	TimeoutMs int64 `yaml:"timeout_ms" validate:"min=0"`
}

type ReviewConfig struct {
	Enabled       bool  `yaml:"enabled"`
	MaxIterations int   `yaml:"max_iterations" validate:"min=1"`
	TimeoutMs     int64 `yaml:"timeout_ms"     validate:"min=0"`
}

type DiscoveryConfig struct {
	TimeoutMs int64 `yaml:"timeout_ms" validate:"min=0"`
}

type ExecutionConfig struct {
	TaskTimeoutMs int64 `yaml:"task_timeout_ms" validate:"min=0"`
}

func (c PlanConfig) Timeout() time.Duration      { return time.Duration(c.TimeoutMs) * time.Millisecond }
func (c ReviewConfig) Timeout() time.Duration    { return time.Duration(c.TimeoutMs) * time.Millisecond }
func (c DiscoveryConfig) Timeout() time.Duration { return time.Duration(c.TimeoutMs) * time.Millisecond }

func (c ExecutionConfig) TaskTimeout() time.Duration {
	return time.Duration(c.TaskTimeoutMs) * time.Millisecond
}

// Default returns the configuration used when no file overrides are given.
func Default() WorkerConfig {
	return WorkerConfig{
		Enabled: true,
		Gateway: GatewayConfig{URL: "http://localhost:4520/rpc"},
		Workflow: WorkflowConfig{
			Enabled: true,
			Plan:    PlanConfig{TimeoutMs: 120_000},
			Review: ReviewConfig{
				Enabled:       true,
				MaxIterations: 3,
				TimeoutMs:     120_000,
			},
			Discovery: DiscoveryConfig{TimeoutMs: 120_000},
			Execution: ExecutionConfig{TaskTimeoutMs: 300_000},
		},
	}
}

// Load reads a worker config file, applying defaults for anything unset.
func Load(path string) (WorkerConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return WorkerConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return WorkerConfig{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if cfg.Workflow.Review.MaxIterations == 0 {
		cfg.Workflow.Review.MaxIterations = 3
	}

	if err := Validate(cfg); err != nil {
		return WorkerConfig{}, err
	}

	return cfg, nil
}

// Validate checks the configuration's structural constraints.
func Validate(cfg WorkerConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid worker config: %w", err)
	}

	return nil
}
