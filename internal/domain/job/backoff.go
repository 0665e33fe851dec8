package job

import (
	"time"

	"github.com/target/photo-pipeline/internal/domain/model"
)

// maxBackoffShift bounds the exponent so the delay never overflows.
const maxBackoffShift = 20

// BackoffDelay returns the delay before the next attempt.
// attemptsMade is the number of attempts made including the one that just failed.
func BackoffDelay(b *model.Backoff, attemptsMade int) time.Duration {
	if b == nil || b.Delay <= 0 {
		return 0
	}
	base := time.Duration(b.Delay) * time.Millisecond

	switch b.Type {
	case model.BackoffFixed:
		return base
	case model.BackoffExponential:
		shift := attemptsMade - 1
		if shift < 0 {
			shift = 0
		}
		if shift > maxBackoffShift {
			shift = maxBackoffShift
		}
		return base << shift
	default:
		return base
	}
}
