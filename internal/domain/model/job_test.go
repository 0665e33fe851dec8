package model

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobName_Known(t *testing.T) {
	assert.True(t, JobNameProcessPhoto.Known())
	assert.True(t, JobNameRunAssessment.Known())
	assert.False(t, JobName("").Known())
	assert.False(t, JobName("process-photo").Known())
}

func TestJobName_UnmarshalText(t *testing.T) {
	var n JobName
	require.NoError(t, n.UnmarshalText([]byte(" Process-Photo-AI ")))
	assert.Equal(t, JobNameProcessPhoto, n)

	err := n.UnmarshalText([]byte("unknown"))
	require.Error(t, err)
}

func TestAddJobRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AddJobRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  AddJobRequest{Name: JobNameProcessPhoto, Data: json.RawMessage(`{"photoId":"p1"}`)},
		},
		{
			name:    "missing name",
			req:     AddJobRequest{Data: json.RawMessage(`{}`)},
			wantErr: "job name is required",
		},
		{
			name:    "missing data",
			req:     AddJobRequest{Name: JobNameProcessPhoto},
			wantErr: "job data is required",
		},
		{
			name: "negative attempts",
			req: AddJobRequest{
				Name: JobNameProcessPhoto,
				Data: json.RawMessage(`{}`),
				Opts: JobOptions{Attempts: -1},
			},
			wantErr: "attempts must be >= 0",
		},
		{
			name: "negative backoff",
			req: AddJobRequest{
				Name: JobNameProcessPhoto,
				Data: json.RawMessage(`{}`),
				Opts: JobOptions{Backoff: &Backoff{Type: BackoffFixed, Delay: -1}},
			},
			wantErr: "backoff delay must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestJob_MarkTerminalPublished_OncePerObject(t *testing.T) {
	job := &Job{ID: "1"}
	assert.False(t, job.TerminalPublished())

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if job.MarkTerminalPublished() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.True(t, job.TerminalPublished())

	// A separate object for the same broker job is tracked independently.
	other := &Job{ID: "1"}
	assert.True(t, other.MarkTerminalPublished())

	var nilJob *Job
	assert.False(t, nilJob.MarkTerminalPublished())
}

func TestDecodePayload(t *testing.T) {
	t.Run("photo job", func(t *testing.T) {
		job := &Job{
			Name: JobNameProcessPhoto,
			Data: json.RawMessage(`{"photoId":"p1","runAiAnalysis":false,"traceContext":{"traceparent":"tp"}}`),
		}
		payload, err := DecodePayload(job)
		require.NoError(t, err)
		photo, ok := payload.(*PhotoPayload)
		require.True(t, ok)
		assert.Equal(t, "p1", photo.Data.PhotoID)
		assert.False(t, photo.Data.AIRequested())
		assert.Equal(t, "tp", payload.Carrier()["traceparent"])
	})

	t.Run("assessment job", func(t *testing.T) {
		job := &Job{Name: JobNameRunAssessment, Data: json.RawMessage(`{"assessmentId":"a1"}`)}
		payload, err := DecodePayload(job)
		require.NoError(t, err)
		assessment, ok := payload.(*AssessmentPayload)
		require.True(t, ok)
		assert.Equal(t, "a1", assessment.Data.AssessmentID)
	})

	t.Run("missing name falls back to legacy photo", func(t *testing.T) {
		job := &Job{Data: json.RawMessage(`{"photoId":"p2"}`)}
		payload, err := DecodePayload(job)
		require.NoError(t, err)
		legacy, ok := payload.(*LegacyPayload)
		require.True(t, ok)
		assert.Equal(t, "p2", legacy.Data.PhotoID)
		assert.True(t, legacy.Data.AIRequested())
	})

	t.Run("unknown name falls back to legacy photo", func(t *testing.T) {
		job := &Job{Name: "ai-processing", Data: json.RawMessage(`{"photoId":"p3"}`)}
		payload, err := DecodePayload(job)
		require.NoError(t, err)
		legacy, ok := payload.(*LegacyPayload)
		require.True(t, ok)
		assert.Equal(t, JobName("ai-processing"), legacy.Name)
	})

	t.Run("malformed data", func(t *testing.T) {
		_, err := DecodePayload(&Job{Name: JobNameProcessPhoto, Data: json.RawMessage(`{`)})
		require.Error(t, err)
	})

	t.Run("nil job", func(t *testing.T) {
		_, err := DecodePayload(nil)
		require.ErrorIs(t, err, ErrNilJob)
	})
}

func TestPhotoDataOf(t *testing.T) {
	data, ok := PhotoDataOf(&Job{Name: JobNameProcessPhoto, Data: json.RawMessage(`{"photoId":"p1"}`)})
	require.True(t, ok)
	assert.Equal(t, "p1", data.PhotoID)

	_, ok = PhotoDataOf(&Job{Name: JobNameRunAssessment, Data: json.RawMessage(`{"assessmentId":"a"}`)})
	assert.False(t, ok)
}
