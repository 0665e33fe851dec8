package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server (enqueue and status endpoints).
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeWorker runs the photo queue worker.
	ServiceModeWorker ServiceMode = "worker"
	// ServiceModeReaper runs retention cleanup of finished jobs.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeWorker,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeWorker, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, worker, reaper)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// QueueConfig contains broker queue configuration.
type QueueConfig struct {
	// Name is the queue name; keys live under bull:<name>:.
	Name string `env:"QUEUE_NAME" envDefault:"photo-ai"`

	// PingTimeout bounds the one-time connection health check.
	PingTimeout time.Duration `env:"QUEUE_PING_TIMEOUT" envDefault:"2000ms"`
}

// Sanitize applies guardrails to queue configuration values.
func (q *QueueConfig) Sanitize() {
	if q.Name = strings.TrimSpace(q.Name); q.Name == "" {
		q.Name = "photo-ai"
	}
	if q.PingTimeout <= 0 {
		q.PingTimeout = 2 * time.Second
	}
}

// WorkerConfig contains queue worker configuration.
// Lock duration and stalled interval are fixed policy, not configurable.
type WorkerConfig struct {
	// Concurrency is the number of jobs processed in parallel per process.
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"2"`

	// PromoteInterval is how often delayed retries are checked.
	PromoteInterval time.Duration `env:"WORKER_PROMOTE_INTERVAL" envDefault:"1s"`

	// BlockTimeout bounds each blocking fetch from the wait list.
	BlockTimeout time.Duration `env:"WORKER_BLOCK_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to worker configuration values.
func (w *WorkerConfig) Sanitize() {
	if w.Concurrency < 1 {
		w.Concurrency = 1
	}
	if w.PromoteInterval < 100*time.Millisecond {
		w.PromoteInterval = 100 * time.Millisecond
	}
	if w.BlockTimeout < time.Second {
		w.BlockTimeout = time.Second
	}
}

// ReaperConfig contains finished-job retention configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// CompletedMaxAge is the maximum age for completed jobs before deletion.
	CompletedMaxAge time.Duration `env:"REAPER_COMPLETED_MAX_AGE" envDefault:"24h"`

	// FailedMaxAge is the maximum age for failed jobs before deletion.
	FailedMaxAge time.Duration `env:"REAPER_FAILED_MAX_AGE" envDefault:"168h"` // 7 days

	// BatchSize is the maximum number of jobs removed per operation.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.CompletedMaxAge < 1*time.Hour {
		r.CompletedMaxAge = 1 * time.Hour
	}
	if r.FailedMaxAge < 1*time.Hour {
		r.FailedMaxAge = 1 * time.Hour
	}
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}
