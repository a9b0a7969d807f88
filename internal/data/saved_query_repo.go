package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/data/pgxutil"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
)

var _ core.SavedQueryRepository = (*SavedQueryRepo)(nil)

const savedQueryColumns = `id, user_id, name, filter, range_hours, created_at, updated_at`

// SavedQueryRepo persists named run queries. Every statement is scoped to the owning user.
type SavedQueryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSavedQueryRepo creates a SavedQueryRepo with the system clock.
func NewSavedQueryRepo(db *sql.DB) *SavedQueryRepo {
	return &SavedQueryRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewSavedQueryRepoWithTimeProvider creates a SavedQueryRepo with a custom clock (useful for tests).
func NewSavedQueryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SavedQueryRepo {
	return &SavedQueryRepo{DB: db, timeProvider: tp}
}

// Create inserts a saved query. Duplicate names for the same user are a Conflict.
func (r *SavedQueryRepo) Create(ctx context.Context, userID string, req model.CreateSavedQueryRequest) (*model.SavedQuery, error) {
	if userID == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	filter, err := json.Marshal(req.Filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode filter")
	}

	now := r.timeProvider.Now()
	return r.queryOne(ctx, `
		INSERT INTO saved_queries (id, user_id, name, filter, range_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+savedQueryColumns,
		uuid.NewString(), userID, req.Name, filter, req.RangeHours, now,
	)
}

// GetByID returns the user's saved query or NotFound.
func (r *SavedQueryRepo) GetByID(ctx context.Context, userID, id string) (*model.SavedQuery, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, apperrors.NotFound("saved query not found")
	}
	return r.queryOne(ctx, `SELECT `+savedQueryColumns+` FROM saved_queries WHERE user_id = $1 AND id = $2`, userID, id)
}

// List returns the user's saved queries ordered by name.
func (r *SavedQueryRepo) List(ctx context.Context, userID string) ([]*model.SavedQuery, error) {
	var out []*model.SavedQuery
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+savedQueryColumns+` FROM saved_queries WHERE user_id = $1 ORDER BY name`, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.SavedQuery])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	if out == nil {
		out = []*model.SavedQuery{}
	}
	return out, nil
}

// Update applies the non-nil fields of params.Req.
func (r *SavedQueryRepo) Update(ctx context.Context, params core.UpdateSavedQueryParams) (*model.SavedQuery, error) {
	if err := uuid.Validate(params.ID); err != nil {
		return nil, apperrors.NotFound("saved query not found")
	}
	req := params.Req
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var filter []byte
	if req.Filter != nil {
		var err error
		if filter, err = json.Marshal(req.Filter); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode filter")
		}
	}

	return r.queryOne(ctx, `
		UPDATE saved_queries SET
			name = COALESCE($3, name),
			filter = COALESCE($4::jsonb, filter),
			range_hours = COALESCE($5, range_hours),
			updated_at = $6
		WHERE user_id = $1 AND id = $2
		RETURNING `+savedQueryColumns,
		params.UserID, params.ID, req.Name, filter, req.RangeHours, r.timeProvider.Now(),
	)
}

// Delete removes the user's saved query and reports whether it existed.
func (r *SavedQueryRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM saved_queries WHERE user_id = $1 AND id = $2`, userID, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}

func (r *SavedQueryRepo) queryOne(ctx context.Context, query string, args ...any) (*model.SavedQuery, error) {
	var out *model.SavedQuery
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.SavedQuery])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("saved query not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
