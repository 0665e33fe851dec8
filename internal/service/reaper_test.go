package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/photo-pipeline/config"
	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/model"
	"github.com/target/photo-pipeline/internal/mocks"
	"github.com/target/photo-pipeline/internal/observability/statsd"
	"github.com/target/photo-pipeline/internal/testutil"
)

func testReaperConfig() config.ReaperConfig {
	return config.ReaperConfig{
		Interval:        5 * time.Minute,
		CompletedMaxAge: 24 * time.Hour,
		FailedMaxAge:    7 * 24 * time.Hour,
		BatchSize:       500,
	}
}

func newTestReaper(t *testing.T, repo core.QueueRepository, cfg config.ReaperConfig, sink statsd.Sink) *ReaperService {
	t.Helper()
	svc, err := NewReaperService(ReaperServiceOptions{
		Repo:    repo,
		Config:  cfg,
		Logger:  slog.Default(),
		Metrics: sink,
		Now:     testutil.TestTime,
	})
	require.NoError(t, err)
	return svc
}

func TestNewReaperService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc, err := NewReaperService(ReaperServiceOptions{
			Repo:   mocks.NewMockQueueRepository(ctrl),
			Config: testReaperConfig(),
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when repo is nil", func(t *testing.T) {
		_, err := NewReaperService(ReaperServiceOptions{Config: testReaperConfig()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "QueueRepository is required")
	})
}

func TestReaperService_runCleanup(t *testing.T) {
	t.Run("trims both states until a batch comes back empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		sink := statsd.NewRecorder()
		cfg := testReaperConfig()
		now := testutil.TestTime()

		completedCutoff := core.TrimFinishedParams{CompletedBefore: now.Add(-cfg.CompletedMaxAge), BatchSize: 500}
		failedCutoff := core.TrimFinishedParams{FailedBefore: now.Add(-cfg.FailedMaxAge), BatchSize: 500}
		gomock.InOrder(
			repo.EXPECT().TrimFinished(gomock.Any(), completedCutoff).Return(&model.TrimResult{Completed: 500}, nil),
			repo.EXPECT().TrimFinished(gomock.Any(), completedCutoff).Return(&model.TrimResult{Completed: 20}, nil),
			repo.EXPECT().TrimFinished(gomock.Any(), completedCutoff).Return(&model.TrimResult{}, nil),
			repo.EXPECT().TrimFinished(gomock.Any(), failedCutoff).Return(&model.TrimResult{Failed: 3}, nil),
			repo.EXPECT().TrimFinished(gomock.Any(), failedCutoff).Return(&model.TrimResult{}, nil),
		)

		svc := newTestReaper(t, repo, cfg, sink)
		require.NoError(t, svc.runCleanup(context.Background()))

		removed := sink.Named("reaper.jobs_removed")
		require.Len(t, removed, 2)
		assert.InDelta(t, 520, removed[0].Value, 0)
		assert.Equal(t, "delete_completed", removed[0].Tags["operation"])
		assert.InDelta(t, 3, removed[1].Value, 0)
		assert.Equal(t, "delete_failed", removed[1].Tags["operation"])

		cleanup := sink.Named("reaper.cleanup")
		require.Len(t, cleanup, 1)
		assert.Equal(t, "success", cleanup[0].Tags["result"])
		assert.Len(t, sink.Named("reaper.last_success_epoch"), 1)
	})

	t.Run("reports noop when nothing aged out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		sink := statsd.NewRecorder()
		repo.EXPECT().TrimFinished(gomock.Any(), gomock.Any()).Return(&model.TrimResult{}, nil).Times(2)

		svc := newTestReaper(t, repo, testReaperConfig(), sink)
		require.NoError(t, svc.runCleanup(context.Background()))

		cleanup := sink.Named("reaper.cleanup")
		require.Len(t, cleanup, 1)
		assert.Equal(t, "noop", cleanup[0].Tags["result"])
		assert.Empty(t, sink.Named("reaper.jobs_removed"))
	})

	t.Run("continues on partial errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		sink := statsd.NewRecorder()
		cfg := testReaperConfig()
		now := testutil.TestTime()

		repo.EXPECT().
			TrimFinished(gomock.Any(), core.TrimFinishedParams{CompletedBefore: now.Add(-cfg.CompletedMaxAge), BatchSize: 500}).
			Return(nil, errors.New("redis down"))
		repo.EXPECT().
			TrimFinished(gomock.Any(), core.TrimFinishedParams{FailedBefore: now.Add(-cfg.FailedMaxAge), BatchSize: 500}).
			Return(&model.TrimResult{}, nil)

		svc := newTestReaper(t, repo, cfg, sink)
		err := svc.runCleanup(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete old completed jobs")
		assert.Contains(t, err.Error(), "redis down")
		cleanup := sink.Named("reaper.cleanup")
		require.Len(t, cleanup, 1)
		assert.Equal(t, "error", cleanup[0].Tags["result"])
		assert.Empty(t, sink.Named("reaper.last_success_epoch"))
	})

	t.Run("collapses cancellation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		repo.EXPECT().TrimFinished(gomock.Any(), gomock.Any()).Return(nil, context.Canceled).Times(2)

		svc := newTestReaper(t, repo, testReaperConfig(), nil)
		err := svc.runCleanup(context.Background())

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReaperService_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		repo.EXPECT().TrimFinished(gomock.Any(), gomock.Any()).Return(&model.TrimResult{}, nil).MinTimes(2)

		cfg := testReaperConfig()
		cfg.Interval = 100 * time.Millisecond
		svc := newTestReaper(t, repo, cfg, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- svc.Run(ctx)
		}()

		time.Sleep(150 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after context cancellation")
		}
	})

	t.Run("continues running despite cleanup errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockQueueRepository(ctrl)
		repo.EXPECT().TrimFinished(gomock.Any(), gomock.Any()).Return(nil, errors.New("test error")).MinTimes(4)

		cfg := testReaperConfig()
		cfg.Interval = 50 * time.Millisecond
		svc := newTestReaper(t, repo, cfg, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err := svc.Run(ctx)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
