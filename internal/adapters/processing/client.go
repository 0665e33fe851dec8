// Package processing is the HTTP client for the image and AI processing service.
package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/job"
	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
	"github.com/target/photo-pipeline/internal/observability/tracing"
)

const (
	maxErrorBodyBytes  = 4 * 1024    // error snippets kept in returned errors
	maxResultBodyBytes = 1024 * 1024 // analysis results
	requestIDHeader    = "X-Request-ID"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL    string        // Required
	HTTPClient *http.Client  // Optional: defaults to a client with Timeout
	Timeout    time.Duration // Optional: per-request timeout for the default client
	Tracer     *tracing.Tracer
}

// Client calls the processing service. It implements the derivative, analysis,
// auxiliary asset and assessment ports.
type Client struct {
	base   *url.URL
	http   *http.Client
	tracer *tracing.Tracer
}

var (
	_ core.DerivativeGenerator     = (*Client)(nil)
	_ core.AIAnalyzer              = (*Client)(nil)
	_ core.AuxiliaryAssetGenerator = (*Client)(nil)
	_ core.AssessmentRunner        = (*Client)(nil)
)

// NewClient constructs a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("processing base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse processing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("processing base URL must be http or https, got %q", base.Scheme)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	return &Client{base: base, http: hc, tracer: tracer}, nil
}

// GenerateDerivatives implements core.DerivativeGenerator.
func (c *Client) GenerateDerivatives(ctx context.Context, req model.DerivativeRequest) error {
	_, err := c.post(ctx, "/derivatives", req.RequestID, req)
	return err
}

// analyzeResponse is the body of a successful /analyze call.
type analyzeResponse struct {
	Result json.RawMessage `json:"result"`
}

// Analyze implements core.AIAnalyzer. A 204, an empty body or a null result
// is an inconclusive analysis and yields a nil result.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error) {
	body, err := c.post(ctx, "/analyze", req.RequestID, req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	raw := bytes.TrimSpace(resp.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	return &model.AnalysisResult{Raw: resp.Result}, nil
}

// GenerateAuxiliaryAssets implements core.AuxiliaryAssetGenerator.
func (c *Client) GenerateAuxiliaryAssets(ctx context.Context, req model.AuxiliaryAssetRequest) error {
	_, err := c.post(ctx, "/auxiliary-assets", req.RequestID, req)
	return err
}

// RunAssessment implements core.AssessmentRunner.
func (c *Client) RunAssessment(ctx context.Context, assessmentID string) error {
	_, err := c.post(ctx, "/assessments/"+url.PathEscape(assessmentID)+"/run", "", nil)
	return err
}

func (c *Client) post(ctx context.Context, path, requestID string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := job.SanitizeRequestID(requestID); rid != "" {
		req.Header.Set(requestIDHeader, rid)
	}
	for k, v := range c.tracer.Inject(ctx) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}

	limit := int64(maxResultBodyBytes)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		limit = maxErrorBodyBytes
	}
	data, _, readErr := readResponseBody(resp.Body, limit)
	if closeErr := resp.Body.Close(); closeErr != nil && readErr == nil {
		readErr = closeErr
	}
	if readErr != nil {
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	if !ok {
		return nil, statusError(path, resp.StatusCode, data)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return data, nil
}

func statusError(path string, status int, body []byte) error {
	msg := fmt.Sprintf("POST %s: unexpected status %d", path, status)
	if snippet := strings.TrimSpace(string(body)); snippet != "" {
		msg += ": " + snippet
	}
	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.Validation(msg)
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.Unavailable(msg)
	default:
		return errors.New(msg)
	}
}

// readResponseBody reads up to limit bytes and drains the rest.
func readResponseBody(body io.Reader, limit int64) ([]byte, bool, error) {
	if body == nil {
		return nil, false, nil
	}
	data, readErr := io.ReadAll(io.LimitReader(body, limit+1))
	truncated := int64(len(data)) > limit
	if truncated {
		data = data[:limit]
		if _, drainErr := io.Copy(io.Discard, body); drainErr != nil && readErr == nil {
			readErr = drainErr
		}
	}
	return data, truncated, readErr
}
