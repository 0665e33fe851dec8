package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/photo-pipeline/internal/errors"
)

func TestClassifyMoveError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want moveFailure
	}{
		{name: "nil", err: nil, want: moveFailureOther},
		{name: "conflict code", err: apperrors.Conflict("object exists"), want: moveFailureDestinationExists},
		{name: "not found code", err: apperrors.NotFound("no such key"), want: moveFailureSourceMissing},
		{
			name: "wrapped not found code",
			err:  fmt.Errorf("move: %w", apperrors.NotFoundf("object %s", "u1/inprogress/a.jpg")),
			want: moveFailureSourceMissing,
		},
		{
			name: "other code beats message",
			err:  apperrors.Internal("destination already exists"),
			want: moveFailureOther,
		},
		{name: "text already exists", err: errors.New("The resource already exists"), want: moveFailureDestinationExists},
		{name: "text not found", err: errors.New("Object Not Found"), want: moveFailureSourceMissing},
		{name: "unrelated", err: errors.New("connection reset by peer"), want: moveFailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyMoveError(tt.err))
		})
	}
}

func TestMoveFailure_String(t *testing.T) {
	assert.Equal(t, "destination_exists", moveFailureDestinationExists.String())
	assert.Equal(t, "source_missing", moveFailureSourceMissing.String())
	assert.Equal(t, "other", moveFailureOther.String())
}
