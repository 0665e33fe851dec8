package job

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/photo-pipeline/internal/domain/model"
)

func TestIsTerminalFailure(t *testing.T) {
	tests := []struct {
		attempts     int
		attemptsMade int
		want         bool
	}{
		{1, 0, true},
		{2, 0, false},
		{2, 1, true},
		{3, 0, false},
		{3, 1, false},
		{3, 2, true},
		{5, 4, true},
		{5, 3, false},
		// unset attempts defaults to 1
		{0, 0, true},
		{-3, 0, true},
		// invalid attemptsMade defaults to 0
		{2, -1, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempts=%d made=%d", tt.attempts, tt.attemptsMade), func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminalFailure(tt.attempts, tt.attemptsMade))
		})
	}
}

func TestIsLastAttempt(t *testing.T) {
	assert.True(t, IsLastAttempt(nil))
	assert.False(t, IsLastAttempt(&model.Job{Opts: PhotoJobOptions()}))
	assert.True(t, IsLastAttempt(&model.Job{Opts: PhotoJobOptions(), AttemptsMade: 4}))
	assert.True(t, IsLastAttempt(&model.Job{}))
}

func TestPhotoJobOptions(t *testing.T) {
	opts := PhotoJobOptions()
	assert.Equal(t, 5, opts.Attempts)
	require.NotNil(t, opts.Backoff)
	assert.Equal(t, model.BackoffExponential, opts.Backoff.Type)
	assert.Equal(t, int64(60000), opts.Backoff.Delay)

	assessment := AssessmentJobOptions()
	assert.Equal(t, 1, assessment.Attempts)
	assert.Nil(t, assessment.Backoff)
}

func TestBackoffDelay(t *testing.T) {
	exp := &model.Backoff{Type: model.BackoffExponential, Delay: 60000}

	assert.Equal(t, 60*time.Second, BackoffDelay(exp, 1))
	assert.Equal(t, 120*time.Second, BackoffDelay(exp, 2))
	assert.Equal(t, 240*time.Second, BackoffDelay(exp, 3))
	assert.Equal(t, 480*time.Second, BackoffDelay(exp, 4))
	assert.Equal(t, 60*time.Second, BackoffDelay(exp, 0))

	fixed := &model.Backoff{Type: model.BackoffFixed, Delay: 1500}
	assert.Equal(t, 1500*time.Millisecond, BackoffDelay(fixed, 4))

	assert.Zero(t, BackoffDelay(nil, 2))
	assert.Zero(t, BackoffDelay(&model.Backoff{Type: model.BackoffExponential}, 2))

	// Large attempt counts stay positive.
	assert.Positive(t, BackoffDelay(exp, 1000))
}
