package job

import (
	"errors"
	"time"
)

// ErrInvalidLockDuration indicates the configured lock duration is not positive.
var ErrInvalidLockDuration = errors.New("lock duration must be positive")

// LockSource identifies how a lock duration was resolved.
type LockSource string

const (
	// LockSourceExplicit indicates the caller supplied a positive duration.
	LockSourceExplicit LockSource = "explicit"
	// LockSourceDefault indicates the default duration was used.
	LockSourceDefault LockSource = "default"
	// LockSourceClamped indicates the requested duration was clamped to the minimum supported value.
	LockSourceClamped LockSource = "clamped"
)

// minLock is the smallest lock Redis can express with PX.
const minLock = time.Millisecond

// LockPolicy normalises lock durations for job claims and lock renewals.
type LockPolicy struct {
	lockDuration    time.Duration
	stalledInterval time.Duration
}

// NewLockPolicy constructs a LockPolicy. A zero stalled interval falls back to half the lock.
func NewLockPolicy(lockDuration, stalledInterval time.Duration) (*LockPolicy, error) {
	if lockDuration <= 0 {
		return nil, ErrInvalidLockDuration
	}
	if stalledInterval <= 0 {
		stalledInterval = lockDuration / 2
	}
	return &LockPolicy{
		lockDuration:    lockDuration,
		stalledInterval: stalledInterval,
	}, nil
}

// DefaultLockPolicy returns the fixed worker policy (60s lock, 30s stalled check).
func DefaultLockPolicy() *LockPolicy {
	return &LockPolicy{
		lockDuration:    LockDuration,
		stalledInterval: StalledInterval,
	}
}

// LockDuration returns the configured lock duration.
func (p *LockPolicy) LockDuration() time.Duration {
	if p == nil {
		return 0
	}
	return p.lockDuration
}

// StalledInterval returns how often stalled jobs are checked for.
func (p *LockPolicy) StalledInterval() time.Duration {
	if p == nil {
		return 0
	}
	return p.stalledInterval
}

// RenewInterval returns how often a held lock is extended.
func (p *LockPolicy) RenewInterval() time.Duration {
	if p == nil {
		return 0
	}
	return p.lockDuration / 2
}

// LockDecision captures the outcome of resolving a lock request.
type LockDecision struct {
	Duration  time.Duration
	Source    LockSource
	Requested time.Duration
}

// UsedDefault reports whether the policy fell back to the default lock duration.
func (d LockDecision) UsedDefault() bool {
	return d.Source == LockSourceDefault
}

// Clamped reports whether the requested value was clamped to the minimum supported duration.
func (d LockDecision) Clamped() bool {
	return d.Source == LockSourceClamped
}

// Millis returns the lock duration in whole milliseconds.
func (d LockDecision) Millis() int64 {
	return d.Duration.Milliseconds()
}

// Resolve normalises the requested duration to whole milliseconds.
func (p *LockPolicy) Resolve(request time.Duration) LockDecision {
	decision := LockDecision{Requested: request}
	if p == nil {
		decision.Source = LockSourceDefault
		return decision
	}

	switch {
	case request == 0:
		decision.Duration = p.lockDuration.Truncate(time.Millisecond)
		decision.Source = LockSourceDefault
	case request < minLock:
		decision.Duration = minLock
		decision.Source = LockSourceClamped
	default:
		decision.Duration = request.Truncate(time.Millisecond)
		decision.Source = LockSourceExplicit
	}
	return decision
}
