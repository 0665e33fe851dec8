package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
	"github.com/target/photo-pipeline/internal/queue"
)

type fakeSubmitter struct {
	available bool
	err       error

	photoID      string
	opts         queue.PhotoJobOptions
	assessmentID string
}

func (f *fakeSubmitter) IsQueueAvailable() bool { return f.available }

func (f *fakeSubmitter) EnqueuePhotoJob(_ context.Context, photoID string, opts queue.PhotoJobOptions) (*model.Job, error) {
	f.photoID, f.opts = photoID, opts
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: "42"}, nil
}

func (f *fakeSubmitter) EnqueueAssessmentJob(_ context.Context, assessmentID string) (*model.Job, error) {
	f.assessmentID = assessmentID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Job{ID: "43"}, nil
}

func newTestRouter(sub *fakeSubmitter, maxBody int64) http.Handler {
	return NewRouter(RouterServices{
		Jobs:         sub,
		MaxBodyBytes: maxBody,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProcessPhoto_Accepted(t *testing.T) {
	sub := &fakeSubmitter{available: true}
	body := `{"runAiAnalysis":false,"models":{"vision":"v2"},"unknown":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/photos/p1/process", strings.NewReader(body))
	req.Header.Set(RequestIDHeader, "req-9")
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "42", decodeBody(t, rec)["jobId"])
	assert.Equal(t, "p1", sub.photoID)
	require.NotNil(t, sub.opts.RunAIAnalysis)
	assert.False(t, *sub.opts.RunAIAnalysis)
	assert.JSONEq(t, `{"vision":"v2"}`, string(sub.opts.Models))
	assert.Equal(t, "req-9", sub.opts.RequestID, "header request id is used when the body has none")
}

func TestProcessPhoto_EmptyBody(t *testing.T) {
	sub := &fakeSubmitter{available: true}
	req := httptest.NewRequest(http.MethodPost, "/api/photos/p1/process", nil)
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Nil(t, sub.opts.RunAIAnalysis)
}

func TestProcessPhoto_BodyRequestIDWins(t *testing.T) {
	sub := &fakeSubmitter{available: true}
	req := httptest.NewRequest(http.MethodPost, "/api/photos/p1/process", strings.NewReader(`{"requestId":"body-id"}`))
	req.Header.Set(RequestIDHeader, "header-id")
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "body-id", sub.opts.RequestID)
}

func TestProcessPhoto_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		maxBody  int64
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "invalid json",
			body:     `[1,2`,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "body too large",
			body:     `{"requestId":"` + strings.Repeat("x", 64) + `"}`,
			maxBody:  16,
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "queue unavailable",
			err:      queue.ErrQueueUnavailable,
			wantCode: http.StatusServiceUnavailable,
			wantErr:  "queue_unavailable",
		},
		{
			name:     "validation from submitter",
			err:      apperrors.ValidationField("photoId", "photoId is required"),
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "untyped failure",
			err:      errors.New("redis: connection reset"),
			wantCode: http.StatusInternalServerError,
			wantErr:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/api/photos/p1/process", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			newTestRouter(sub, tt.maxBody).ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantErr, body["error"])
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestProcessPhoto_ValidationFieldIsReported(t *testing.T) {
	sub := &fakeSubmitter{err: apperrors.ValidationField("photoId", "photoId is required")}
	req := httptest.NewRequest(http.MethodPost, "/api/photos/%20/process", nil)
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "photoId", decodeBody(t, rec)["field"])
}

func TestRunAssessment(t *testing.T) {
	sub := &fakeSubmitter{available: true}
	req := httptest.NewRequest(http.MethodPost, "/api/assessments/a-7/run", nil)
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "43", decodeBody(t, rec)["jobId"])
	assert.Equal(t, "a-7", sub.assessmentID)
}

func TestRunAssessment_QueueUnavailable(t *testing.T) {
	sub := &fakeSubmitter{err: queue.ErrQueueUnavailable}
	req := httptest.NewRequest(http.MethodPost, "/api/assessments/a-7/run", nil)
	rec := httptest.NewRecorder()

	newTestRouter(sub, 0).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQueueStatus(t *testing.T) {
	for _, available := range []bool{true, false} {
		sub := &fakeSubmitter{available: available}
		req := httptest.NewRequest(http.MethodGet, "/api/queue/status", nil)
		rec := httptest.NewRecorder()

		newTestRouter(sub, 0).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, available, decodeBody(t, rec)["available"])
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/photos/p1/process", nil)
	rec := httptest.NewRecorder()

	newTestRouter(&fakeSubmitter{}, 0).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
