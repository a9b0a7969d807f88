package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	"github.com/target/runconsole/internal/mocks"
	"github.com/target/runconsole/internal/service"
)

var (
	aliceSession = domainauth.Session{
		ID:            "sess-alice",
		UserID:        "alice",
		Email:         "alice@example.com",
		Role:          domainauth.RoleUser,
		ExpiresAt:     time.Now().Add(time.Hour),
		UpstreamToken: "alice-upstream",
	}
	adminSession = domainauth.Session{
		ID:        "sess-admin",
		UserID:    "root",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	guestSession = domainauth.Session{
		ID:        "sess-guest",
		UserID:    "visitor",
		Role:      domainauth.RoleGuest,
		ExpiresAt: time.Now().Add(time.Hour),
	}
)

// fakeAuth is a test double for AuthServiceInterface backed by a fixed session set.
type fakeAuth struct {
	sessions   map[string]domainauth.Session
	begin      *service.BeginLoginResult
	completed  *service.CompleteLoginResult
	gotInput   service.CompleteLoginInput
	loggedOut  []string
	failLogout bool
}

func newFakeAuth(sessions ...domainauth.Session) *fakeAuth {
	f := &fakeAuth{sessions: map[string]domainauth.Session{}}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeAuth) BeginLogin(_ context.Context, _ string) (*service.BeginLoginResult, error) {
	if f.begin == nil {
		return nil, errors.New("provider down")
	}
	return f.begin, nil
}

func (f *fakeAuth) CompleteLogin(_ context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	f.gotInput = in
	if f.completed == nil {
		return nil, errors.New("exchange failed")
	}
	return f.completed, nil
}

func (f *fakeAuth) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, service.ErrSessionExpired
	}
	return &s, nil
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	if f.failLogout {
		return errors.New("store down")
	}
	delete(f.sessions, id)
	return nil
}

// testDeps holds the ecosystem and repository mocks behind a test router.
type testDeps struct {
	searcher *mocks.MockRunSearcher
	reader   *mocks.MockRunReader
	tokens   *mocks.MockTokenAPI
	users    *mocks.MockUserAPI
	prefs    *mocks.MockPreferenceRepository
	saved    *mocks.MockSavedQueryRepository
	auth     *fakeAuth
	now      time.Time
}

func newTestRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &testDeps{
		searcher: mocks.NewMockRunSearcher(ctrl),
		reader:   mocks.NewMockRunReader(ctrl),
		tokens:   mocks.NewMockTokenAPI(ctrl),
		users:    mocks.NewMockUserAPI(ctrl),
		prefs:    mocks.NewMockPreferenceRepository(ctrl),
		saved:    mocks.NewMockSavedQueryRepository(ctrl),
		auth:     newFakeAuth(aliceSession, adminSession, guestSession),
		now:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	agg, err := service.NewRunAggregator(service.RunAggregatorOptions{Searcher: d.searcher})
	require.NoError(t, err)
	prefs, err := service.NewPreferenceService(service.PreferenceServiceOptions{Repo: d.prefs})
	require.NoError(t, err)
	saved, err := service.NewSavedQueryService(service.SavedQueryServiceOptions{
		Repo:       d.saved,
		Aggregator: agg,
		Now:        func() time.Time { return d.now },
	})
	require.NoError(t, err)

	h := NewRouter(RouterServices{
		Auth:         d.auth,
		Runs:         service.MustNewRunService(service.RunServiceOptions{Aggregator: agg, Reader: d.reader}),
		Tokens:       service.MustNewTokenService(service.TokenServiceOptions{Tokens: d.tokens}),
		Users:        service.MustNewUserService(service.UserServiceOptions{Users: d.users, Tokens: d.tokens}),
		Preferences:  prefs,
		SavedQueries: saved,
		IdPLogoutURL: "https://idp.example.com/logout",
		Compression:  &CompressionConfig{MinSize: 1024},
		Logger:       discardLogger(),
		Now:          func() time.Time { return d.now },
	})
	return h, d
}

const testCSRFToken = "csrf-test-token"

// do sends a request as the given session. State-changing requests carry a
// matching CSRF cookie and header.
func do(t *testing.T, h http.Handler, session *domainauth.Session, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	}
	if requiresCSRFValidation(method) {
		req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
		req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
