package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/raid-finder/internal/api/handlers"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/testutil"
	"github.com/hugh/raid-finder/internal/web"
	"github.com/hugh/raid-finder/pkg/util"
	"github.com/stretchr/testify/require"
)

// setupTestRouter mounts every page handler behind LoadUser. CSRF and rate
// limiting are covered by the router tests.
func setupTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	t.Helper()
	tc := testutil.NewTestContext(t)

	templates, err := web.LoadTemplates()
	require.NoError(t, err)

	logger := util.DiscardLogger()
	view := handlers.NewView(templates, tc.Sessions, logger)
	authHandler := handlers.NewAuthHandler(view, tc.Auth, tc.Sessions)
	profileHandler := handlers.NewProfileHandler(view, tc.Store)
	charHandler := handlers.NewCharacterHandler(view, tc.Store)
	jobHandler := handlers.NewJobHandler(view, tc.Store)
	eventHandler := handlers.NewEventHandler(view, tc.Store)

	r := chi.NewRouter()
	r.Use(middleware.LoadUser(tc.Sessions, tc.Auth, logger))

	r.Get("/", eventHandler.Index)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)

		r.Get("/logout", authHandler.Logout)
		r.Get("/profile", profileHandler.Show)
		r.Get("/profile/accounts", profileHandler.AccountsPage)
		r.Post("/profile/accounts", profileHandler.SaveAccounts)

		r.Get("/characters", charHandler.List)
		r.Get("/characters/new", charHandler.NewPage)
		r.Post("/characters/new", charHandler.Create)
		r.Get("/characters/{id}", charHandler.Show)
		r.Get("/characters/{id}/edit", charHandler.EditPage)
		r.Post("/characters/{id}/edit", charHandler.Update)
		r.Post("/characters/{id}/retire", charHandler.Retire)
		r.Post("/characters/{id}/unlink", charHandler.Unlink)
		r.Get("/characters/{id}/jobs/new", jobHandler.NewPage)
		r.Post("/characters/{id}/jobs/new", jobHandler.Create)
		r.Post("/characters/{id}/jobs/{jobID}/unlink", jobHandler.Unlink)

		r.Get("/jobs", jobHandler.List)
		r.Get("/jobs/{id}", jobHandler.Show)
		r.Get("/jobs/{id}/edit", jobHandler.EditPage)
		r.Post("/jobs/{id}/edit", jobHandler.Update)
		r.Post("/jobs/{id}/retire", jobHandler.Retire)

		r.Get("/events", eventHandler.List)
		r.Get("/events/new", eventHandler.NewPage)
		r.Post("/events/new", eventHandler.Create)
		r.Get("/events/{id}", eventHandler.Show)
		r.Get("/events/{id}/edit", eventHandler.EditPage)
		r.Post("/events/{id}/edit", eventHandler.Update)
		r.Post("/events/{id}/cancel", eventHandler.Cancel)
		r.Post("/events/{id}/roster", eventHandler.Join)
		r.Get("/events/{id}/roster/{entryID}/edit", eventHandler.EditEntryPage)
		r.Post("/events/{id}/roster/{entryID}/edit", eventHandler.UpdateEntry)
		r.Post("/events/{id}/roster/{entryID}/status", eventHandler.SetStatus)
		r.Post("/events/{id}/roster/{entryID}/withdraw", eventHandler.Withdraw)
	})

	return r, tc
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// post submits a form as the holder of cookie.
func post(router http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	return serve(router, testutil.FormRequest(http.MethodPost, path, form, cookie))
}

func get(router http.Handler, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return serve(router, testutil.FormRequest(http.MethodGet, path, nil, cookie))
}

// latestCookie prefers the cookie a response set over the one sent.
func latestCookie(rr *httptest.ResponseRecorder, sent *http.Cookie) *http.Cookie {
	if c := testutil.SessionCookie(rr); c != nil {
		return c
	}
	return sent
}

// flashes pops the flash messages waiting in the session behind cookie.
func flashes(t *testing.T, tc *testutil.TestSetup, cookie *http.Cookie) []auth.Flash {
	t.Helper()
	req := testutil.FormRequest(http.MethodGet, "/", nil, cookie)
	out, err := tc.Sessions.Flashes(httptest.NewRecorder(), req)
	require.NoError(t, err)
	return out
}

func requireRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rr.Code, "Body: %s", rr.Body.String())
	require.Equal(t, location, rr.Header().Get("Location"))
}
