package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
)

const (
	// DefaultQueuePrefix is the key namespace shared with other broker clients.
	DefaultQueuePrefix = "bull"
	// StalledFailedReason is recorded on jobs that stalled more often than allowed.
	StalledFailedReason = job.StalledFailedReason

	defaultPromoteLimit = 1000
	defaultTrimBatch    = 500
)

// QueueRepoConfig holds configuration options for the queue repository.
type QueueRepoConfig struct {
	// Queue is the queue name, e.g. "photo-ai".
	Queue string
	// Prefix namespaces all keys; defaults to "bull".
	Prefix          string
	LockPolicy      *job.LockPolicy
	MaxStalledCount int
	TimeProvider    TimeProvider
	Logger          *slog.Logger
}

// queueKeys are the fully qualified broker keys of one queue.
type queueKeys struct {
	prefix       string
	id           string
	wait         string
	active       string
	delayed      string
	completed    string
	failed       string
	stalled      string
	stalledCheck string
}

func newQueueKeys(prefix, queue string) queueKeys {
	p := prefix + ":" + queue + ":"
	return queueKeys{
		prefix:       p,
		id:           p + "id",
		wait:         p + "wait",
		active:       p + "active",
		delayed:      p + "delayed",
		completed:    p + "completed",
		failed:       p + "failed",
		stalled:      p + "stalled",
		stalledCheck: p + "stalled-check",
	}
}

func (k queueKeys) job(id string) string  { return k.prefix + "job:" + id }
func (k queueKeys) lock(id string) string { return k.prefix + "lock:" + id }

// QueueRepo is a Redis-backed job broker with per-job locks, delayed retries
// and stalled job recovery.
type QueueRepo struct {
	client       redis.UniversalClient
	keys         queueKeys
	lockPolicy   *job.LockPolicy
	maxStalled   int
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.QueueRepository = (*QueueRepo)(nil)

// NewQueueRepo creates a new QueueRepo for the given client and configuration.
func NewQueueRepo(client redis.UniversalClient, cfg QueueRepoConfig) (*QueueRepo, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if cfg.Queue == "" {
		return nil, ErrQueueNameRequired
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultQueuePrefix
	}
	policy := cfg.LockPolicy
	if policy == nil {
		policy = job.DefaultLockPolicy()
	}
	maxStalled := cfg.MaxStalledCount
	if maxStalled <= 0 {
		maxStalled = job.MaxStalledCount
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QueueRepo{
		client:       client,
		keys:         newQueueKeys(prefix, cfg.Queue),
		lockPolicy:   policy,
		maxStalled:   maxStalled,
		timeProvider: tp,
		logger:       logger.With("component", "queue_repo", "queue", cfg.Queue),
	}, nil
}

func (r *QueueRepo) nowMillis() int64 {
	return r.timeProvider.Now().UnixMilli()
}

// Add enqueues a job on the wait list.
func (r *QueueRepo) Add(ctx context.Context, req *model.AddJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("add job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate job: %w", err)
	}

	opts, err := json.Marshal(req.Opts)
	if err != nil {
		return nil, fmt.Errorf("marshal job options: %w", err)
	}
	now := r.timeProvider.Now()

	id, err := addJobScript.Run(ctx, r.client,
		[]string{r.keys.id, r.keys.wait},
		r.keys.prefix, string(req.Name), string(req.Data), string(opts), now.UnixMilli(),
	).Text()
	if err != nil {
		return nil, fmt.Errorf("add job: %w", err)
	}

	return &model.Job{
		ID:        id,
		Name:      req.Name,
		Data:      req.Data,
		Opts:      req.Opts,
		Timestamp: time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

// Reserve blocks up to block waiting for a job, moves it to the active list and
// locks it with token. It returns model.ErrNoJobsAvailable when nothing arrived.
func (r *QueueRepo) Reserve(ctx context.Context, token string, block time.Duration) (*model.Job, error) {
	if token == "" {
		return nil, errors.New("lock token is required")
	}

	id, err := r.client.BLMove(ctx, r.keys.wait, r.keys.active, "RIGHT", "LEFT", block).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoJobsAvailable
		}
		return nil, fmt.Errorf("move job to active: %w", err)
	}

	lock := r.lockPolicy.Resolve(0)
	raw, err := claimJobScript.Run(ctx, r.client,
		[]string{r.keys.lock(id), r.keys.job(id)},
		token, lock.Millis(), r.nowMillis(),
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The job hash was trimmed while the id sat in the wait list.
			r.logger.WarnContext(ctx, "dropping job without data", "job_id", id)
			if remErr := r.client.LRem(ctx, r.keys.active, 0, id).Err(); remErr != nil {
				r.logger.WarnContext(ctx, "failed to remove orphan job id", "job_id", id, "error", remErr)
			}
			return nil, model.ErrNoJobsAvailable
		}
		return nil, fmt.Errorf("claim job %s: %w", id, err)
	}

	return parseJobFields(id, pairsToMap(raw))
}

// ExtendLock renews the lock held with token. It returns false when the lock was lost.
func (r *QueueRepo) ExtendLock(ctx context.Context, jobID, token string) (bool, error) {
	lock := r.lockPolicy.Resolve(0)
	n, err := extendLockScript.Run(ctx, r.client,
		[]string{r.keys.lock(jobID), r.keys.stalled},
		token, lock.Millis(), jobID,
	).Int()
	if err != nil {
		return false, fmt.Errorf("extend lock %s: %w", jobID, err)
	}
	return n == 1, nil
}

// Complete marks an owned job completed.
func (r *QueueRepo) Complete(ctx context.Context, j *model.Job, token string) error {
	if j == nil {
		return model.ErrNilJob
	}
	now := r.timeProvider.Now()
	n, err := completeJobScript.Run(ctx, r.client,
		[]string{r.keys.lock(j.ID), r.keys.active, r.keys.completed, r.keys.job(j.ID), r.keys.stalled},
		token, j.ID, now.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("complete job %s: %w", j.ID, err)
	}
	if n < 0 {
		return fmt.Errorf("complete job %s: %w", j.ID, ErrLockMismatch)
	}
	finished := now.UTC()
	j.FinishedOn = &finished
	return nil
}

// Fail records a failed attempt of an owned job and schedules the retry, if any.
// The job object keeps its pre-attempt AttemptsMade; the outcome carries the new count.
func (r *QueueRepo) Fail(ctx context.Context, params core.FailJobParams) (*model.FailOutcome, error) {
	j := params.Job
	if j == nil {
		return nil, model.ErrNilJob
	}

	maxAttempts := j.Opts.Attempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := job.BackoffDelay(j.Opts.Backoff, j.AttemptsMade+1)
	now := r.timeProvider.Now()

	res, err := failJobScript.Run(ctx, r.client,
		[]string{
			r.keys.lock(j.ID), r.keys.active, r.keys.delayed, r.keys.failed,
			r.keys.job(j.ID), r.keys.stalled, r.keys.wait,
		},
		params.Token, j.ID, now.UnixMilli(), params.Reason, maxAttempts, delay.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("fail job %s: %w", j.ID, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("fail job %s: unexpected reply %v", j.ID, res)
	}
	if res[0] < 0 {
		return nil, fmt.Errorf("fail job %s: %w", j.ID, ErrLockMismatch)
	}

	j.FailedReason = params.Reason
	out := &model.FailOutcome{
		Retried:      res[0] == 1,
		AttemptsMade: int(res[1]),
	}
	if out.Retried {
		out.Delay = delay
	} else {
		finished := now.UTC()
		j.FinishedOn = &finished
	}
	return out, nil
}

// PromoteDelayed moves delayed jobs whose backoff elapsed back to the wait list.
func (r *QueueRepo) PromoteDelayed(ctx context.Context, now time.Time) (int64, error) {
	n, err := promoteDelayedScript.Run(ctx, r.client,
		[]string{r.keys.delayed, r.keys.wait},
		now.UnixMilli(), defaultPromoteLimit,
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("promote delayed jobs: %w", err)
	}
	return n, nil
}

// RecoverStalled requeues active jobs whose worker stopped renewing the lock.
func (r *QueueRepo) RecoverStalled(ctx context.Context) (*model.StalledResult, error) {
	raw, err := recoverStalledScript.Run(ctx, r.client,
		[]string{r.keys.stalled, r.keys.active, r.keys.wait, r.keys.failed, r.keys.stalledCheck},
		r.keys.prefix, r.maxStalled, r.nowMillis(), r.lockPolicy.StalledInterval().Milliseconds(), StalledFailedReason,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("recover stalled jobs: %w", err)
	}
	if len(raw) != 2 {
		return nil, fmt.Errorf("recover stalled jobs: unexpected reply %v", raw)
	}

	res := &model.StalledResult{
		Requeued: toStrings(raw[0]),
		Failed:   toStrings(raw[1]),
	}
	if res.Total() > 0 {
		r.logger.WarnContext(ctx, "recovered stalled jobs",
			"requeued", len(res.Requeued),
			"failed", len(res.Failed),
		)
	}
	return res, nil
}

// GetJob loads a job by id.
func (r *QueueRepo) GetJob(ctx context.Context, id string) (*model.Job, error) {
	fields, err := r.client.HGetAll(ctx, r.keys.job(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrJobNotFound
	}
	return parseJobFields(id, fields)
}

// Counts reports the number of jobs in each state.
func (r *QueueRepo) Counts(ctx context.Context) (*model.JobCounts, error) {
	pipe := r.client.Pipeline()
	waiting := pipe.LLen(ctx, r.keys.wait)
	active := pipe.LLen(ctx, r.keys.active)
	delayed := pipe.ZCard(ctx, r.keys.delayed)
	completed := pipe.ZCard(ctx, r.keys.completed)
	failed := pipe.ZCard(ctx, r.keys.failed)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	return &model.JobCounts{
		Waiting:   waiting.Val(),
		Active:    active.Val(),
		Delayed:   delayed.Val(),
		Completed: completed.Val(),
		Failed:    failed.Val(),
	}, nil
}

// TrimFinished deletes completed and failed jobs finished before the cutoffs.
// A zero cutoff skips that state.
func (r *QueueRepo) TrimFinished(ctx context.Context, params core.TrimFinishedParams) (*model.TrimResult, error) {
	limit := params.BatchSize
	if limit <= 0 {
		limit = defaultTrimBatch
	}

	res := &model.TrimResult{}
	if !params.CompletedBefore.IsZero() {
		n, err := r.trim(ctx, r.keys.completed, params.CompletedBefore, limit)
		if err != nil {
			return nil, err
		}
		res.Completed = n
	}
	if !params.FailedBefore.IsZero() {
		n, err := r.trim(ctx, r.keys.failed, params.FailedBefore, limit)
		if err != nil {
			return nil, err
		}
		res.Failed = n
	}
	return res, nil
}

func (r *QueueRepo) trim(ctx context.Context, key string, before time.Time, limit int) (int64, error) {
	n, err := trimFinishedScript.Run(ctx, r.client,
		[]string{key},
		r.keys.prefix, before.UnixMilli(), limit,
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("trim %s: %w", key, err)
	}
	return n, nil
}

func pairsToMap(pairs []string) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseJobFields builds a Job from its stored hash. Missing or malformed
// counters read as zero so old records stay loadable.
func parseJobFields(id string, f map[string]string) (*model.Job, error) {
	j := &model.Job{
		ID:           id,
		Name:         model.JobName(f["name"]),
		FailedReason: f["failedReason"],
		AttemptsMade: atoiOrZero(f["attemptsMade"]),
		StalledCount: atoiOrZero(f["stalledCounter"]),
	}
	if data := f["data"]; data != "" {
		j.Data = json.RawMessage(data)
	}
	if opts := f["opts"]; opts != "" {
		if err := json.Unmarshal([]byte(opts), &j.Opts); err != nil {
			return nil, fmt.Errorf("decode options of job %s: %w", id, err)
		}
	}
	if ts, ok := millisToTime(f["timestamp"]); ok {
		j.Timestamp = ts
	}
	if ts, ok := millisToTime(f["processedOn"]); ok {
		j.ProcessedOn = &ts
	}
	if ts, ok := millisToTime(f["finishedOn"]); ok {
		j.FinishedOn = &ts
	}
	return j, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func millisToTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
