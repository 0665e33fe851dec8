package processing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
	"github.com/target/photo-pipeline/internal/observability/tracing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientOptions{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "empty", baseURL: " ", wantErr: true},
		{name: "bad scheme", baseURL: "ftp://processing", wantErr: true},
		{name: "http", baseURL: "http://processing:8081"},
		{name: "https with path", baseURL: "https://processing/api/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(ClientOptions{BaseURL: tt.baseURL})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_GenerateDerivatives(t *testing.T) {
	var got model.DerivativeRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/derivatives", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1Injected: yes", r.Header.Get(requestIDHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := c.GenerateDerivatives(context.Background(), model.DerivativeRequest{
		PhotoID:           "p1",
		RequestID:         "req-1\r\nInjected: yes",
		ProcessMetadata:   true,
		GenerateThumbnail: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", got.PhotoID)
	assert.True(t, got.ProcessMetadata)
	assert.False(t, got.GenerateDisplay)
}

func TestClient_GenerateAuxiliaryAssetsSendsRequestID(t *testing.T) {
	var got model.AuxiliaryAssetRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auxiliary-assets", r.URL.Path)
		assert.Equal(t, "req-7", r.Header.Get(requestIDHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	})

	err := c.GenerateAuxiliaryAssets(context.Background(), model.AuxiliaryAssetRequest{PhotoID: "p1", RequestID: "req-7\n"})

	require.NoError(t, err)
	assert.Equal(t, "p1", got.PhotoID)
}

func TestClient_Analyze(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantNil bool
		wantRaw string
		wantErr bool
	}{
		{name: "result", status: http.StatusOK, body: `{"result":{"labels":["cat"]}}`, wantRaw: `{"labels":["cat"]}`},
		{name: "no content", status: http.StatusNoContent, wantNil: true},
		{name: "empty body", status: http.StatusOK, wantNil: true},
		{name: "null result", status: http.StatusOK, body: `{"result":null}`, wantNil: true},
		{name: "missing result", status: http.StatusOK, body: `{}`, wantNil: true},
		{name: "malformed", status: http.StatusOK, body: `{"result":`, wantErr: true},
		{name: "server error", status: http.StatusBadGateway, body: "upstream", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/analyze", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			res, err := c.Analyze(context.Background(), model.AnalysisRequest{PhotoID: "p1"})

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.JSONEq(t, tt.wantRaw, string(res.Raw))
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{status: http.StatusNotFound, check: apperrors.IsNotFound},
		{status: http.StatusBadRequest, check: apperrors.IsValidation},
		{status: http.StatusTooManyRequests, check: apperrors.IsUnavailable},
		{status: http.StatusServiceUnavailable, check: apperrors.IsUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, "nope")
			})

			err := c.GenerateAuxiliaryAssets(context.Background(), model.AuxiliaryAssetRequest{PhotoID: "p1"})

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error type: %v", err)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_ErrorBodyIsBounded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("x", 3*maxErrorBodyBytes))
	})

	err := c.GenerateAuxiliaryAssets(context.Background(), model.AuxiliaryAssetRequest{PhotoID: "p1"})

	require.Error(t, err)
	assert.Less(t, len(err.Error()), maxErrorBodyBytes+200)
}

func TestClient_RunAssessment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessments/a 1/run", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusAccepted)
	})

	require.NoError(t, c.RunAssessment(context.Background(), "a 1"))
}

func TestClient_PropagatesTraceContext(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	tracer := tracing.NewTracer(tracing.Options{Enabled: true, Provider: provider})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, HTTPClient: srv.Client(), Tracer: tracer})
	require.NoError(t, err)

	ctx, span := tracer.StartSpan(context.Background(), "photo.auxiliary_assets")
	defer span.End()

	require.NoError(t, c.GenerateAuxiliaryAssets(ctx, model.AuxiliaryAssetRequest{PhotoID: "p1"}))
}
