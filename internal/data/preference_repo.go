package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/data/pgxutil"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
)

var _ core.PreferenceRepository = (*PreferenceRepo)(nil)

const preferenceColumns = `user_id, theme, time_zone, date_format, run_view, run_columns, updated_at`

// PreferenceRepo persists per-user display preferences.
type PreferenceRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPreferenceRepo creates a PreferenceRepo with the system clock.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewPreferenceRepoWithTimeProvider creates a PreferenceRepo with a custom clock (useful for tests).
func NewPreferenceRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PreferenceRepo {
	return &PreferenceRepo{DB: db, timeProvider: tp}
}

// Get returns the stored preferences or a NotFound error.
func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	if userID == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}

	var out model.Preferences
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+preferenceColumns+` FROM user_preferences WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Preferences])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("preferences not found")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Upsert inserts or replaces the user's preferences.
func (r *PreferenceRepo) Upsert(ctx context.Context, prefs model.Preferences) (*model.Preferences, error) {
	if prefs.UserID == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}
	if prefs.RunColumns == nil {
		prefs.RunColumns = []string{}
	}

	var out model.Preferences
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO user_preferences (user_id, theme, time_zone, date_format, run_view, run_columns, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id) DO UPDATE SET
				theme = EXCLUDED.theme,
				time_zone = EXCLUDED.time_zone,
				date_format = EXCLUDED.date_format,
				run_view = EXCLUDED.run_view,
				run_columns = EXCLUDED.run_columns,
				updated_at = EXCLUDED.updated_at
			RETURNING `+preferenceColumns,
			prefs.UserID,
			string(prefs.Theme),
			prefs.TimeZone,
			string(prefs.DateFormat),
			string(prefs.RunView),
			prefs.RunColumns,
			r.timeProvider.Now(),
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Preferences])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
