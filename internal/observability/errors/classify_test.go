package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/photo-pipeline/internal/errors"
)

type storageFault struct{}

func (storageFault) Error() string { return "fault" }

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "timeout", Classify(fmt.Errorf("ai: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", Classify(context.Canceled))
	assert.Equal(t, "app_unavailable", Classify(fmt.Errorf("enqueue: %w", apperrors.Unavailable("down"))))
	assert.Equal(t, "errors_errorstring", Classify(goerrors.New("plain")))
	assert.Equal(t, "errors_storagefault", Classify(fmt.Errorf("move: %w", storageFault{})))
}
