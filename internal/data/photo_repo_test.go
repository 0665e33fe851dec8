package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
	"github.com/target/photo-pipeline/internal/testutil"
)

func insertPhoto(t *testing.T, db *sql.DB, userID *string, storagePath *string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO photos (id, user_id, filename, state, storage_path)
		VALUES ($1, $2, 'IMG_0001.heic', 'inprogress', $3)`,
		id, userID, storagePath,
	)
	require.NoError(t, err)
	return id
}

func TestPhotoRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testutil.WithAutoDB(t, func(db *sql.DB) {
		clock := NewFixedTimeProvider(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC))
		repo := NewPhotoRepoWithTimeProvider(db, clock)
		ctx := context.Background()

		owner := "user-1"
		path := "user-1/inprogress/IMG_0001.heic"
		id := insertPhoto(t, db, &owner, &path)

		t.Run("get by id", func(t *testing.T) {
			p, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "user-1", p.UserID)
			assert.Equal(t, model.PhotoStateInProgress, p.State)
			assert.Equal(t, model.TransitionIdle, p.TransitionStatus)
			assert.Equal(t, path, p.Path())

			_, err = repo.GetByID(ctx, uuid.NewString())
			require.ErrorIs(t, err, ErrPhotoNotFound)
		})

		t.Run("owner lookup", func(t *testing.T) {
			got, err := repo.GetOwner(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "user-1", got)

			missing, err := repo.GetOwner(ctx, uuid.NewString())
			require.NoError(t, err)
			assert.Empty(t, missing)

			orphan := insertPhoto(t, db, nil, nil)
			got, err = repo.GetOwner(ctx, orphan)
			require.NoError(t, err)
			assert.Empty(t, got)
		})

		t.Run("transition lifecycle", func(t *testing.T) {
			require.NoError(t, repo.SetTransitionStatus(ctx, id, model.TransitionPendingMove))
			p, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, model.TransitionPendingMove, p.TransitionStatus)

			clock.AddTime(time.Minute)
			require.NoError(t, repo.CompleteTransition(ctx, core.CompleteTransitionParams{
				PhotoID:     id,
				State:       model.PhotoStateFinished,
				StoragePath: "user-1/finished/IMG_0001.heic",
			}))
			p, err = repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, model.PhotoStateFinished, p.State)
			assert.Equal(t, model.TransitionIdle, p.TransitionStatus)
			assert.Equal(t, "user-1/finished/IMG_0001.heic", p.Path())
			assert.True(t, p.UpdatedAt.Equal(clock.Now()))
		})

		t.Run("update state", func(t *testing.T) {
			require.NoError(t, repo.UpdateState(ctx, id, model.PhotoStateError))
			p, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, model.PhotoStateError, p.State)

			err = repo.UpdateState(ctx, id, model.PhotoState("bogus"))
			assert.True(t, apperrors.IsValidation(err))

			err = repo.UpdateState(ctx, uuid.NewString(), model.PhotoStateFinished)
			require.ErrorIs(t, err, ErrPhotoNotFound)
		})

		t.Run("ai retry counter", func(t *testing.T) {
			for want := 1; want <= 3; want++ {
				got, err := repo.IncrementAIRetryCount(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err := repo.IncrementAIRetryCount(ctx, uuid.NewString())
			require.ErrorIs(t, err, ErrPhotoNotFound)
		})
	})
}
