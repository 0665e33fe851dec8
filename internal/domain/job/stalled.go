package job

import "errors"

// StalledFailedReason is recorded on jobs that stalled more often than allowed.
const StalledFailedReason = "job stalled more than allowable limit"

// ErrStalled is the failure reported for jobs the stalled checker moved to
// failed. The broker does not count a stall as an attempt, so such a failure
// is terminal whatever the attempt counters say.
var ErrStalled = errors.New(StalledFailedReason)
