package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/runconsole/internal/core"
	"github.com/target/runconsole/internal/domain/model"
	apperrors "github.com/target/runconsole/internal/errors"
)

func TestTokenRoutes(t *testing.T) {
	router, d := newTestRouter(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	owned := []model.Token{{ID: "t1", Description: "laptop", CreationTime: created, Owner: model.TokenOwner{LoginID: "alice"}}}

	t.Run("list", func(t *testing.T) {
		d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").Return(owned, nil)

		rec := do(t, router, &aliceSession, http.MethodGet, "/api/tokens", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string][]model.Token](t, rec)
		assert.Equal(t, owned, body["tokens"])
	})

	t.Run("list empty", func(t *testing.T) {
		d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").Return(nil, nil)

		rec := do(t, router, &aliceSession, http.MethodGet, "/api/tokens", "")
		assert.JSONEq(t, `{"tokens":[]}`, rec.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		d.tokens.EXPECT().CreateToken(gomock.Any(), model.CreateTokenRequest{Description: "ci runner"}).
			Return(model.CreatedToken{Token: model.Token{ID: "t2", Description: "ci runner"}, Secret: "s3cret"}, nil)

		rec := do(t, router, &aliceSession, http.MethodPost, "/api/tokens", `{"description":"  ci runner "}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		got := decodeBody[model.CreatedToken](t, rec)
		assert.Equal(t, "t2", got.ID)
		assert.Equal(t, "s3cret", got.Secret)
	})

	t.Run("create validation", func(t *testing.T) {
		rec := do(t, router, &aliceSession, http.MethodPost, "/api/tokens", `{"description":"   "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[errorBody](t, rec)
		assert.Equal(t, "validation", body.Error)
		assert.Equal(t, "description", body.Field)
	})

	t.Run("create rejects unknown fields", func(t *testing.T) {
		rec := do(t, router, &aliceSession, http.MethodPost, "/api/tokens", `{"description":"x","owner":"bob"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeBody[errorBody](t, rec).Error)
	})

	t.Run("revoke own", func(t *testing.T) {
		d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").Return(owned, nil)
		d.tokens.EXPECT().RevokeToken(gomock.Any(), "t1").Return(nil)

		rec := do(t, router, &aliceSession, http.MethodDelete, "/api/tokens/t1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("revoke someone else's", func(t *testing.T) {
		d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").Return(owned, nil)

		rec := do(t, router, &aliceSession, http.MethodDelete, "/api/tokens/t9", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeBody[errorBody](t, rec).Error)
	})

	t.Run("admin revokes any", func(t *testing.T) {
		d.tokens.EXPECT().RevokeToken(gomock.Any(), "t9").Return(nil)

		rec := do(t, router, &adminSession, http.MethodDelete, "/api/tokens/t9", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestUserRoutes(t *testing.T) {
	router, d := newTestRouter(t)
	bob := model.User{ID: "u1", LoginID: "bob", Role: model.RoleRef{ID: "r1", Name: "tester"}}

	t.Run("non-admin forbidden", func(t *testing.T) {
		for _, target := range []string{"/api/users", "/api/users/u1", "/api/roles"} {
			rec := do(t, router, &aliceSession, http.MethodGet, target, "")
			assert.Equal(t, http.StatusForbidden, rec.Code, target)
		}
	})

	t.Run("list filtered", func(t *testing.T) {
		d.users.EXPECT().ListUsers(gomock.Any(), "bob").Return([]model.User{bob}, nil)

		rec := do(t, router, &adminSession, http.MethodGet, "/api/users?loginId=bob", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []model.User{bob}, decodeBody[map[string][]model.User](t, rec)["users"])
	})

	t.Run("get with tokens", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "u1").Return(bob, nil)
		d.tokens.EXPECT().ListTokens(gomock.Any(), "bob").Return(nil, nil)

		rec := do(t, router, &adminSession, http.MethodGet, "/api/users/u1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		profile := decodeBody[model.UserProfile](t, rec)
		assert.Equal(t, bob, profile.User)
		assert.Equal(t, []model.Token{}, profile.Tokens)
	})

	t.Run("update role", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "u1").Return(bob, nil)
		d.users.EXPECT().ListRoles(gomock.Any()).Return([]model.Role{
			{ID: "r1", Name: "tester", Assignable: true},
			{ID: "r2", Name: "admin", Assignable: true},
		}, nil)
		updated := bob
		updated.Role = model.RoleRef{ID: "r2", Name: "admin"}
		d.users.EXPECT().UpdateUserRole(gomock.Any(), "u1", "r2").Return(updated, nil)

		rec := do(t, router, &adminSession, http.MethodPut, "/api/users/u1/role", `{"role_id":"r2"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "r2", decodeBody[model.User](t, rec).Role.ID)
	})

	t.Run("update role rejects unassignable role", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "u1").Return(bob, nil)
		d.users.EXPECT().ListRoles(gomock.Any()).Return([]model.Role{{ID: "owner", Assignable: false}}, nil)

		rec := do(t, router, &adminSession, http.MethodPut, "/api/users/u1/role", `{"role_id":"owner"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "role_id", decodeBody[errorBody](t, rec).Field)
	})

	t.Run("cannot change own role", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "u0").Return(model.User{ID: "u0", LoginID: adminSession.UserID}, nil)

		rec := do(t, router, &adminSession, http.MethodPut, "/api/users/u0/role", `{"role_id":"r1"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "u1").Return(bob, nil)
		d.users.EXPECT().DeleteUser(gomock.Any(), "u1").Return(nil)

		rec := do(t, router, &adminSession, http.MethodDelete, "/api/users/u1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete unknown", func(t *testing.T) {
		d.users.EXPECT().GetUser(gomock.Any(), "nope").Return(model.User{}, apperrors.NotFound("user not found"))

		rec := do(t, router, &adminSession, http.MethodDelete, "/api/users/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("roles", func(t *testing.T) {
		d.users.EXPECT().ListRoles(gomock.Any()).Return([]model.Role{{ID: "r1", Name: "tester"}}, nil)

		rec := do(t, router, &adminSession, http.MethodGet, "/api/roles", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[map[string][]model.Role](t, rec)["roles"], 1)
	})
}

func TestProfileRoute(t *testing.T) {
	router, d := newTestRouter(t)

	d.users.EXPECT().ListUsers(gomock.Any(), "alice").
		Return([]model.User{{ID: "u7", LoginID: "alice"}}, nil)
	d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").
		Return([]model.Token{{ID: "t1"}}, nil)

	rec := do(t, router, &aliceSession, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[model.UserProfile](t, rec)
	assert.Equal(t, "u7", profile.User.ID)
	assert.Len(t, profile.Tokens, 1)
}

func TestProfileRoute_UpstreamUnavailable(t *testing.T) {
	router, d := newTestRouter(t)

	d.users.EXPECT().ListUsers(gomock.Any(), "alice").Return(nil, apperrors.Unavailable("ecosystem unreachable"))
	d.tokens.EXPECT().ListTokens(gomock.Any(), "alice").Return(nil, nil).AnyTimes()

	rec := do(t, router, &aliceSession, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "unavailable", body.Error)
	assert.Equal(t, "ecosystem unreachable", body.Message)
}

func TestPreferenceRoutes(t *testing.T) {
	router, d := newTestRouter(t)

	t.Run("defaults for guests", func(t *testing.T) {
		d.prefs.EXPECT().Get(gomock.Any(), "visitor").Return(nil, apperrors.NotFound("preferences not found"))

		rec := do(t, router, &guestSession, http.MethodGet, "/api/preferences", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.DefaultPreferences("visitor"), decodeBody[model.Preferences](t, rec))
	})

	t.Run("partial update", func(t *testing.T) {
		d.prefs.EXPECT().Get(gomock.Any(), "alice").Return(nil, apperrors.NotFound("preferences not found"))
		d.prefs.EXPECT().Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p model.Preferences) (*model.Preferences, error) {
				return &p, nil
			})

		rec := do(t, router, &aliceSession, http.MethodPut, "/api/preferences", `{"theme":"dark","time_zone":" Europe/Paris "}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeBody[model.Preferences](t, rec)
		assert.Equal(t, model.ThemeDark, got.Theme)
		assert.Equal(t, "Europe/Paris", got.TimeZone)
		assert.Equal(t, model.RunViewTable, got.RunView)
	})

	t.Run("invalid update", func(t *testing.T) {
		rec := do(t, router, &aliceSession, http.MethodPut, "/api/preferences", `{"run_columns":["bogus"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation", decodeBody[errorBody](t, rec).Error)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := do(t, router, nil, http.MethodGet, "/api/preferences", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSavedQueryRoutes(t *testing.T) {
	router, d := newTestRouter(t)
	nightly := &model.SavedQuery{
		ID:         "q1",
		UserID:     "alice",
		Name:       "nightly",
		Filter:     model.RunSearchFilter{Group: "nightly"},
		RangeHours: 6,
	}

	t.Run("list empty", func(t *testing.T) {
		d.saved.EXPECT().List(gomock.Any(), "alice").Return(nil, nil)

		rec := do(t, router, &aliceSession, http.MethodGet, "/api/saved-queries", "")
		assert.JSONEq(t, `{"saved_queries":[]}`, rec.Body.String())
	})

	t.Run("create normalizes", func(t *testing.T) {
		want := model.CreateSavedQueryRequest{Name: "nightly", Filter: model.RunSearchFilter{Group: "nightly"}, RangeHours: 24}
		d.saved.EXPECT().Create(gomock.Any(), "alice", want).Return(nightly, nil)

		rec := do(t, router, &aliceSession, http.MethodPost, "/api/saved-queries", `{"name":" nightly ","filter":{"group":"nightly "}}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "q1", decodeBody[model.SavedQuery](t, rec).ID)
	})

	t.Run("create duplicate", func(t *testing.T) {
		d.saved.EXPECT().Create(gomock.Any(), "alice", gomock.Any()).
			Return(nil, &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "saved query already exists", Field: "name"})

		rec := do(t, router, &aliceSession, http.MethodPost, "/api/saved-queries", `{"name":"nightly"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "name", decodeBody[errorBody](t, rec).Field)
	})

	t.Run("update", func(t *testing.T) {
		hours := 12
		d.saved.EXPECT().Update(gomock.Any(), core.UpdateSavedQueryParams{
			UserID: "alice",
			ID:     "q1",
			Req:    model.UpdateSavedQueryRequest{RangeHours: &hours},
		}).Return(nightly, nil)

		rec := do(t, router, &aliceSession, http.MethodPut, "/api/saved-queries/q1", `{"range_hours":12}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("update with nothing to change", func(t *testing.T) {
		rec := do(t, router, &aliceSession, http.MethodPut, "/api/saved-queries/q1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		d.saved.EXPECT().Delete(gomock.Any(), "alice", "q404").Return(false, nil)

		rec := do(t, router, &aliceSession, http.MethodDelete, "/api/saved-queries/q404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		d.saved.EXPECT().Delete(gomock.Any(), "alice", "q1").Return(true, nil)

		rec := do(t, router, &aliceSession, http.MethodDelete, "/api/saved-queries/q1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("runs anchored at now", func(t *testing.T) {
		d.saved.EXPECT().GetByID(gomock.Any(), "alice", "q1").Return(nightly, nil)
		var got model.RunPageRequest
		d.searcher.EXPECT().SearchRuns(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req model.RunPageRequest) (model.RunPage, error) {
				got = req
				return model.RunPage{Runs: []model.Run{{RunID: "r1"}}}, nil
			})

		rec := do(t, router, &aliceSession, http.MethodGet, "/api/saved-queries/q1/runs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[model.AggregationResult](t, rec).Runs, 1)
		assert.True(t, d.now.Add(-6*time.Hour).Equal(got.From))
		assert.True(t, d.now.Equal(got.To))
		assert.Equal(t, "nightly", got.Filter.Group)
	})
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, nil, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, router, nil, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHealthRoutes_Readiness(t *testing.T) {
	dbDown := errors.New("connection refused")
	router := NewRouter(RouterServices{
		Auth:   newFakeAuth(),
		Logger: discardLogger(),
		HealthChecks: []HealthCheck{
			{Name: "postgres", Check: func(context.Context) error { return dbDown }},
			{Name: "redis", Check: func(context.Context) error { return nil }},
		},
	})

	rec := do(t, router, nil, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, nil, http.MethodGet, "/healthz?ready=1", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"error","redis":"ok"}}`, rec.Body.String())
}

func TestStatusForCode(t *testing.T) {
	tests := map[apperrors.ErrorCode]int{
		apperrors.ErrCodeValidation:        http.StatusBadRequest,
		apperrors.ErrCodeNotFound:          http.StatusNotFound,
		apperrors.ErrCodeConflict:          http.StatusConflict,
		apperrors.ErrCodeUnauthorized:      http.StatusUnauthorized,
		apperrors.ErrCodeForbidden:         http.StatusForbidden,
		apperrors.ErrCodeUnavailable:       http.StatusBadGateway,
		apperrors.ErrCodeMalformedResponse: http.StatusBadGateway,
		apperrors.ErrCodeTimeout:           http.StatusGatewayTimeout,
		apperrors.ErrCodeCanceled:          499,
		apperrors.ErrCodeInternal:          http.StatusInternalServerError,
		"":                                 http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, statusForCode(code), string(code))
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"plain error is hidden", errors.New("pq: password authentication failed"), 500, "internal", "internal server error"},
		{"internal is hidden", apperrors.Wrap(errors.New("boom"), apperrors.ErrCodeInternal, "decode session"), 500, "internal", "internal server error"},
		{"wrapped app error keeps its message", apperrors.Wrap(errors.New("dial tcp"), apperrors.ErrCodeUnavailable, "ecosystem unreachable"), 502, "unavailable", "ecosystem unreachable"},
		{"validation", apperrors.Validation("name is required"), 400, "validation", "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), discardLogger(), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody[errorBody](t, rec)
			assert.Equal(t, tt.code, body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	big := `{"description":"` + strings.Repeat("a", maxRequestBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tokens", strings.NewReader(big))
	rec := httptest.NewRecorder()

	var dst model.CreateTokenRequest
	assert.False(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeBody[errorBody](t, rec).Error)
}
