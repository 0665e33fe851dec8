package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/photo-pipeline/config"
	"github.com/target/photo-pipeline/internal/adapters/reaper"
	"github.com/target/photo-pipeline/internal/observability/statsd"
	"github.com/target/photo-pipeline/internal/queue"
)

// ReaperConfig contains configuration for the reaper service.
type ReaperConfig struct {
	Queue   *queue.Connection
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics statsd.Sink
}

// RunReaper starts the reaper service. It connects the broker on demand so a
// reaper-only process does not need the worker wiring.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	if cfg.Queue == nil {
		return errors.New("reaper requires a queue connection")
	}
	if !cfg.Queue.EnsureConnected(ctx) {
		return fmt.Errorf("reaper: %w", queue.ErrQueueUnavailable)
	}

	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		Queue:   cfg.Queue.Queue(),
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
