package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/photo-pipeline/config"
	"github.com/target/photo-pipeline/internal/mocks"
	"github.com/target/photo-pipeline/internal/queue"
)

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 0,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  1,
		},
		{
			name:  "http and worker",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeWorker},
			want:  2,
		},
		{
			name: "all services enabled",
			modes: []config.ServiceMode{
				config.ServiceModeHTTP,
				config.ServiceModeWorker,
				config.ServiceModeReaper,
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			if got := errorChannelCapacity(enabled); got != tt.want {
				t.Fatalf("errorChannelCapacity(%v) = %d, want %d", tt.modes, got, tt.want)
			}
		})
	}
}

func TestErrorChannelBufferSize(t *testing.T) {
	enabled := map[config.ServiceMode]bool{
		config.ServiceModeHTTP:   true,
		config.ServiceModeWorker: true,
	}
	if got := errorChannelBufferSize(enabled); got != 3 {
		t.Fatalf("errorChannelBufferSize = %d, want 3", got)
	}
	if got := errorChannelBufferSize(nil); got != 1 {
		t.Fatalf("errorChannelBufferSize(nil) = %d, want 1", got)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableFactory points at a closed port so the ping fails immediately.
func unreachableFactory() queue.ClientFactory {
	return func() (redis.UniversalClient, string, error) {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		return client, "127.0.0.1:1", nil
	}
}

func testAppConfig(services string) *config.AppConfig {
	cfg := &config.AppConfig{Services: services}
	cfg.Queue.Name = "photo-ai"
	cfg.Queue.PingTimeout = 200 * time.Millisecond
	cfg.Processing.BaseURL = "http://processing.local"
	cfg.Processing.AIEnabled = true
	return cfg
}

func TestNewServices_RequiresConfig(t *testing.T) {
	_, err := NewServices(context.Background(), nil)
	require.Error(t, err)

	_, err = NewServices(context.Background(), &ServiceDeps{})
	require.Error(t, err)
}

func TestNewServices_HTTPOnlyStaysLazy(t *testing.T) {
	factoryCalls := 0
	factory := func() (redis.UniversalClient, string, error) {
		factoryCalls++
		return unreachableFactory()()
	}

	svc, err := NewServices(context.Background(), &ServiceDeps{
		Config:        testAppConfig("http"),
		Logger:        discardLogger(),
		ClientFactory: factory,
	})
	require.NoError(t, err)

	assert.NotNil(t, svc.Queue)
	assert.NotNil(t, svc.Submitter)
	assert.Nil(t, svc.Runner)
	assert.Nil(t, svc.Publisher)
	assert.Zero(t, factoryCalls, "http-only startup must not dial the broker")
	assert.False(t, svc.Submitter.IsQueueAvailable())
}

func TestNewServices_WorkerRequiresDB(t *testing.T) {
	_, err := NewServices(context.Background(), &ServiceDeps{
		Config:        testAppConfig("worker"),
		Logger:        discardLogger(),
		ClientFactory: unreachableFactory(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestNewServices_WorkerFailsWhenBrokerUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)

	// sql.Open does not dial; the pool is never used here.
	db, err := sql.Open("pgx", "postgres://photos@127.0.0.1:1/photos")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewServices(context.Background(), &ServiceDeps{
		Config:        testAppConfig("worker"),
		DB:            db,
		Logger:        discardLogger(),
		ClientFactory: unreachableFactory(),
		Storage:       mocks.NewMockObjectStorage(ctrl),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrQueueUnavailable))
	assert.NotNil(t, svc.Processor, "processor is wired before the broker is dialed")
	assert.Nil(t, svc.Runner)
}

type failingCloser struct{ err error }

func (c failingCloser) Close() error { return c.err }

func TestCloseAndLog_LogsCloseError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	closeAndLog(context.Background(), logger, "queue connection", failingCloser{err: errors.New("conn reset")})
	assert.Contains(t, buf.String(), "close failed")
	assert.Contains(t, buf.String(), "resource=\"queue connection\"")
	assert.Contains(t, buf.String(), "conn reset")

	buf.Reset()
	closeAndLog(context.Background(), logger, "queue connection", failingCloser{})
	assert.Empty(t, buf.String())
}

func TestServiceContainer_ReleaseAfterFailedInit(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, err := sql.Open("pgx", "postgres://photos@127.0.0.1:1/photos")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewServices(context.Background(), &ServiceDeps{
		Config:        testAppConfig("worker"),
		DB:            db,
		Logger:        discardLogger(),
		ClientFactory: unreachableFactory(),
		Storage:       mocks.NewMockObjectStorage(ctrl),
	})
	require.Error(t, err)
	require.NotNil(t, svc.Queue)

	var buf bytes.Buffer
	svc.Release(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotContains(t, buf.String(), "failed")
	assert.False(t, svc.Queue.EnsureConnected(context.Background()), "a released connection never reconnects")
	// Zero container is safe.
	ServiceContainer{}.Release(context.Background(), nil)
}

func TestObservabilityContainer_SinkNilWhenDisabled(t *testing.T) {
	obs := buildObservability(discardLogger(), config.ObservabilityConfig{})
	assert.Nil(t, obs.Sink())
	assert.NotNil(t, obs.Tracer)
	assert.Nil(t, obs.TracerProvider)
	require.NoError(t, obs.Close(context.Background()))
}

func TestObservabilityContainer_TracingEnabled(t *testing.T) {
	obs := buildObservability(discardLogger(), config.ObservabilityConfig{
		Tracing: config.ObservabilityTracingConfig{Enabled: true, ServiceName: "photo-pipeline"},
	})
	require.NotNil(t, obs.TracerProvider)
	require.NoError(t, obs.Close(context.Background()))
}

func TestObservabilityContainer_TracingWithStdoutExporter(t *testing.T) {
	obs := buildObservability(discardLogger(), config.ObservabilityConfig{
		Tracing: config.ObservabilityTracingConfig{Enabled: true, ServiceName: "photo-pipeline", Exporter: "stdout"},
	})
	require.NotNil(t, obs.TracerProvider)
	assert.True(t, obs.Tracer.Enabled())
	require.NoError(t, obs.Close(context.Background()))
}

func TestLaunchBackground_ReportsErrors(t *testing.T) {
	errCh := make(chan error, 1)
	deps := &serviceStartupDeps{
		ctx:             context.Background(),
		logger:          discardLogger(),
		enabledServices: map[config.ServiceMode]bool{config.ServiceModeReaper: true},
		errCh:           errCh,
	}

	done := launchBackground(context.Background(), deps, backgroundService{
		mode:  config.ServiceModeReaper,
		name:  "reaper",
		start: func(context.Context) error { return errors.New("boom") },
	})
	require.NotNil(t, done)
	<-done

	select {
	case err := <-errCh:
		assert.Contains(t, err.Error(), "reaper failed: boom")
	default:
		t.Fatal("expected error on channel")
	}
}

func TestLaunchBackground_SkipsDisabledAndCanceled(t *testing.T) {
	errCh := make(chan error, 1)
	deps := &serviceStartupDeps{
		ctx:             context.Background(),
		logger:          discardLogger(),
		enabledServices: map[config.ServiceMode]bool{config.ServiceModeWorker: true},
		errCh:           errCh,
	}

	disabled := launchBackground(context.Background(), deps, backgroundService{
		mode:  config.ServiceModeReaper,
		name:  "reaper",
		start: func(context.Context) error { return errors.New("never") },
	})
	assert.Nil(t, disabled)

	done := launchBackground(context.Background(), deps, backgroundService{
		mode:  config.ServiceModeWorker,
		name:  "worker",
		start: func(context.Context) error { return context.Canceled },
	})
	<-done
	assert.Empty(t, errCh)
}

func TestWaitForShutdown_ServiceErrorStopsEverything(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	errCh <- errors.New("worker failed: boom")

	done := make(chan struct{})
	close(done)

	err := waitForShutdown(shutdownConfig{
		ctx:         ctx,
		cancel:      cancel,
		signals:     make(chan os.Signal),
		errCh:       errCh,
		logger:      discardLogger(),
		backgrounds: []backgroundServiceHandle{{mode: config.ServiceModeWorker, name: "worker", done: done}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Error(t, ctx.Err(), "service context is canceled")
}
