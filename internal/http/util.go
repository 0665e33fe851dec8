package httpx

import (
	"errors"
	"io"
	"net/http"

	apperrors "github.com/target/photo-pipeline/internal/errors"
)

// RequestIDHeader carries a caller-supplied correlation id.
const RequestIDHeader = "X-Request-ID"

// defaultMaxBodyBytes bounds request bodies when the router is not configured.
const defaultMaxBodyBytes int64 = 64 << 10

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.ValidationField("body", "request body too large")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "read request body")
	}
	return body, nil
}
