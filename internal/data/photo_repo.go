package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/data/pgxutil"
	"github.com/target/photo-pipeline/internal/domain/model"
	apperrors "github.com/target/photo-pipeline/internal/errors"
)

const photoColumns = `
  id,
  user_id,
  filename,
  state,
  storage_path,
  state_transition_status,
  ai_retry_count,
  created_at,
  updated_at
`

// PhotoRepo provides database operations on photo rows.
type PhotoRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ core.PhotoRepository = (*PhotoRepo)(nil)

// NewPhotoRepo creates a new PhotoRepo with the real time provider.
func NewPhotoRepo(db *sql.DB) *PhotoRepo {
	return &PhotoRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPhotoRepoWithTimeProvider creates a new PhotoRepo with a custom time provider (useful for tests).
func NewPhotoRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PhotoRepo {
	return &PhotoRepo{DB: db, timeProvider: tp}
}

// photoRow mirrors the photos table; user_id is nullable for orphaned uploads.
type photoRow struct {
	ID               string                 `db:"id"`
	UserID           sql.NullString         `db:"user_id"`
	Filename         string                 `db:"filename"`
	State            model.PhotoState       `db:"state"`
	StoragePath      *string                `db:"storage_path"`
	TransitionStatus model.TransitionStatus `db:"state_transition_status"`
	AIRetryCount     int                    `db:"ai_retry_count"`
	CreatedAt        sql.NullTime           `db:"created_at"`
	UpdatedAt        sql.NullTime           `db:"updated_at"`
}

func (r photoRow) toModel() *model.Photo {
	return &model.Photo{
		ID:               r.ID,
		UserID:           r.UserID.String,
		Filename:         r.Filename,
		State:            r.State,
		StoragePath:      r.StoragePath,
		TransitionStatus: r.TransitionStatus,
		AIRetryCount:     r.AIRetryCount,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}
}

// GetByID retrieves a photo by id.
func (r *PhotoRepo) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	if id == "" {
		return nil, ErrPhotoNotFound
	}

	var row photoRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[photoRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("get photo by id: %w", apperrors.MapDBError(err))
	}
	return row.toModel(), nil
}

// GetOwner returns the owning user id of a photo. A missing row or a NULL owner yields "".
func (r *PhotoRepo) GetOwner(ctx context.Context, photoID string) (string, error) {
	if photoID == "" {
		return "", nil
	}

	var owner sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM photos WHERE id = $1`, photoID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get photo owner: %w", apperrors.MapDBError(err))
	}
	return owner.String, nil
}

// SetTransitionStatus writes the storage move breadcrumb.
func (r *PhotoRepo) SetTransitionStatus(ctx context.Context, photoID string, status model.TransitionStatus) error {
	return r.exec(ctx, "set transition status", `
		UPDATE photos
		SET state_transition_status = $1, updated_at = $2
		WHERE id = $3`,
		status, r.timeProvider.Now().UTC(), photoID,
	)
}

// CompleteTransition records a finished storage move: new state, new path, IDLE breadcrumb.
func (r *PhotoRepo) CompleteTransition(ctx context.Context, params core.CompleteTransitionParams) error {
	return r.exec(ctx, "complete transition", `
		UPDATE photos
		SET state = $1,
			storage_path = $2,
			state_transition_status = 'IDLE',
			updated_at = $3
		WHERE id = $4`,
		params.State, params.StoragePath, r.timeProvider.Now().UTC(), params.PhotoID,
	)
}

// UpdateState writes the photo state without touching storage.
func (r *PhotoRepo) UpdateState(ctx context.Context, photoID string, state model.PhotoState) error {
	if !state.Valid() {
		return apperrors.ValidationField("state", fmt.Sprintf("invalid photo state %q", state))
	}
	return r.exec(ctx, "update photo state", `
		UPDATE photos
		SET state = $1, updated_at = $2
		WHERE id = $3`,
		state, r.timeProvider.Now().UTC(), photoID,
	)
}

// IncrementAIRetryCount bumps ai_retry_count and returns the persisted value.
func (r *PhotoRepo) IncrementAIRetryCount(ctx context.Context, photoID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `
		UPDATE photos
		SET ai_retry_count = ai_retry_count + 1, updated_at = $1
		WHERE id = $2
		RETURNING ai_retry_count`,
		r.timeProvider.Now().UTC(), photoID,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPhotoNotFound
		}
		return 0, fmt.Errorf("increment ai retry count: %w", apperrors.MapDBError(err))
	}
	return count, nil
}

func (r *PhotoRepo) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
