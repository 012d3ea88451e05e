package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	id    uuid.UUID
	ok    bool
	token string
}

func (f fakeSessions) UserID(*http.Request) (uuid.UUID, bool) { return f.id, f.ok }

func (f fakeSessions) SessionCSRFToken(*http.Request) string { return f.token }

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, errors.New("database is down")
	}
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func TestLoadUser(t *testing.T) {
	active := &models.User{Base: models.Base{ID: uuid.New()}, Username: "tank01", Status: models.StatusActive}
	inactive := &models.User{Base: models.Base{ID: uuid.New()}, Username: "gone", Status: models.StatusInactive}
	users := fakeUsers{active.ID: active, inactive.ID: inactive}

	tests := []struct {
		name     string
		sessions fakeSessions
		want     *models.User
	}{
		{"anonymous", fakeSessions{}, nil},
		{"active user", fakeSessions{id: active.ID, ok: true}, active},
		{"inactive user", fakeSessions{id: inactive.ID, ok: true}, nil},
		{"unknown user", fakeSessions{id: uuid.New(), ok: true}, nil},
		{"lookup failure", fakeSessions{id: uuid.Nil, ok: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.User
			handler := LoadUser(tt.sessions, users, util.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = CurrentUser(r.Context())
				okHandler(w, r)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireLogin(t *testing.T) {
	handler := RequireLogin(http.HandlerFunc(okHandler))

	t.Run("anonymous redirects with next", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/new?x=1", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/login", loc.Path)
		assert.Equal(t, "/events/new?x=1", loc.Query().Get("next"))
	})

	t.Run("signed in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/events/new", nil)
		req = req.WithContext(WithUser(req.Context(), &models.User{Base: models.Base{ID: uuid.New()}}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/"},
		{"/profile", "/profile"},
		{"/events/1?tab=roster", "/events/1?tab=roster"},
		{"https://evil.example.com", "/"},
		{"//evil.example.com", "/"},
		{"/\\evil.example.com", "/"},
		{"profile", "/"},
		{"javascript:alert(1)", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNext(tt.next))
		})
	}
}

func TestCSRF(t *testing.T) {
	handler := CSRF(fakeSessions{token: "good-token"})(http.HandlerFunc(okHandler))
	noSession := CSRF(fakeSessions{})(http.HandlerFunc(okHandler))

	post := func(form url.Values, header string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/characters/new", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		return req
	}

	tests := []struct {
		name       string
		handler    http.Handler
		req        *http.Request
		wantStatus int
	}{
		{"get passes", handler, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK},
		{"valid form token", handler, post(url.Values{"csrf_token": {"good-token"}}, ""), http.StatusOK},
		{"valid header token", handler, post(url.Values{}, "good-token"), http.StatusOK},
		{"missing token", handler, post(url.Values{}, ""), http.StatusForbidden},
		{"wrong token", handler, post(url.Values{"csrf_token": {"bad"}}, ""), http.StatusForbidden},
		{"no session", noSession, post(url.Values{"csrf_token": {"good-token"}}, ""), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code, "Body: %s", rec.Body.String())
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, remaining, _ := rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, reset := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), reset)

	ok, _, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window slides")
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	handler := RateLimit(rl)(http.HandlerFunc(okHandler))

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost).Code)
	limited := send(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet).Code, "page loads are not limited")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", ClientIP(req), "forwarding headers are ignored by default")

	var seen string
	chimw.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.7", seen, "RealIP rewrites RemoteAddr behind a trusted proxy")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	user := &models.User{Base: models.Base{ID: uuid.New()}}

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/events"`)
	assert.Contains(t, out, user.ID.String())

	buf.Reset()
	handler = Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out = buf.String()
	assert.Contains(t, out, `"status":200`, "an implicit header logs as 200")
	assert.Contains(t, out, `"size":5`)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	})

	handler := Recovery(logger, fallback)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
	assert.NotContains(t, rec.Body.String(), "boom")
}
