// Package queue owns the broker connection and the job submission entry points.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/photo-pipeline/internal/core"
)

// DefaultPingTimeout bounds the startup health check.
const DefaultPingTimeout = 2000 * time.Millisecond

// ClientFactory constructs a broker client and a description of its address for logs.
type ClientFactory func() (redis.UniversalClient, string, error)

// RepoFactory builds the queue repository on top of a live client.
type RepoFactory func(client redis.UniversalClient) (core.QueueRepository, error)

// ConnectionOptions configures a Connection.
type ConnectionOptions struct {
	Factory     ClientFactory
	NewRepo     RepoFactory
	PingTimeout time.Duration
	Logger      *slog.Logger
}

// Connection lazily connects to the broker exactly once per process.
// A failed connection is cached; the process must restart to retry.
type Connection struct {
	factory     ClientFactory
	newRepo     RepoFactory
	pingTimeout time.Duration
	logger      *slog.Logger

	once   sync.Once
	mu     sync.RWMutex
	ready  bool
	client redis.UniversalClient
	repo   core.QueueRepository
}

// NewConnection creates a Connection. Nothing is dialed until EnsureConnected.
func NewConnection(opts ConnectionOptions) (*Connection, error) {
	if opts.Factory == nil {
		return nil, errors.New("client factory is required")
	}
	if opts.NewRepo == nil {
		return nil, errors.New("repository factory is required")
	}
	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Connection{
		factory:     opts.Factory,
		newRepo:     opts.NewRepo,
		pingTimeout: timeout,
		logger:      logger.With("component", "queue_connection"),
	}, nil
}

// EnsureConnected initializes the broker connection on first use and reports
// whether it is ready. Concurrent callers wait for the single initialization.
// It never returns an error; failures are logged and cached.
func (c *Connection) EnsureConnected(ctx context.Context) bool {
	c.once.Do(func() {
		// Detach from the first caller's cancellation; the ping timeout still applies.
		c.connect(context.WithoutCancel(ctx))
	})
	return c.Available()
}

func (c *Connection) connect(ctx context.Context) {
	client, addr, err := c.factory()
	if err != nil {
		c.logger.ErrorContext(ctx, "queue unavailable: invalid broker configuration", "error", err)
		return
	}
	addr = RedactAddr(addr)

	pingCtx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		c.logger.ErrorContext(ctx, "queue unavailable: broker ping failed",
			"addr", addr,
			"timeout", c.pingTimeout,
			"error", err,
		)
		c.closeClient(ctx, client)
		return
	}

	repo, err := c.newRepo(client)
	if err != nil {
		c.logger.ErrorContext(ctx, "queue unavailable: build repository", "addr", addr, "error", err)
		c.closeClient(ctx, client)
		return
	}

	c.mu.Lock()
	c.client = client
	c.repo = repo
	c.ready = true
	c.mu.Unlock()
	c.logger.InfoContext(ctx, "queue connected", "addr", addr)
}

func (c *Connection) closeClient(ctx context.Context, client redis.UniversalClient) {
	if err := client.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close broker client", "error", err)
	}
}

// Available reports whether the broker is connected without triggering initialization.
func (c *Connection) Available() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Client returns the live broker client or nil.
//
//nolint:ireturn // the client may be single, sentinel or cluster.
func (c *Connection) Client() redis.UniversalClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Queue returns the queue repository or nil when not connected.
//
//nolint:ireturn // callers depend on the port, not the Redis implementation.
func (c *Connection) Queue() core.QueueRepository {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo
}

// Close releases the client. A closed Connection never reconnects.
func (c *Connection) Close() error {
	c.once.Do(func() {})

	c.mu.Lock()
	client := c.client
	c.client = nil
	c.repo = nil
	c.ready = false
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("close broker client: %w", err)
	}
	return nil
}

// RedactAddr strips credentials from a broker address before it is logged.
func RedactAddr(addr string) string {
	if u, err := url.Parse(addr); err == nil && u.User != nil {
		u.User = nil
		return u.String()
	}
	if i := strings.LastIndex(addr, "@"); i > -1 {
		return addr[i+1:]
	}
	return addr
}
