package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/internal/web"
)

var (
	errNotOwner  = errors.New("not owned by the current user")
	errNotLeader = errors.New("not the event leader")
)

// View renders pages with the layout data every page needs and maps
// handler errors to error pages.
type View struct {
	templates *web.Templates
	sessions  *auth.Sessions
	logger    *slog.Logger
}

func NewView(templates *web.Templates, sessions *auth.Sessions, logger *slog.Logger) *View {
	return &View{templates: templates, sessions: sessions, logger: logger}
}

// Render writes page with status. CurrentUser, Flashes and CSRFToken are
// always set; Errors defaults to an empty set.
func (v *View) Render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	data["CurrentUser"] = middleware.CurrentUser(r.Context())

	flashes, err := v.sessions.Flashes(w, r)
	if err != nil {
		v.logger.Warn("failed to read flashes", "error", err)
	}
	data["Flashes"] = flashes

	token, err := v.sessions.CSRFToken(w, r)
	if err != nil {
		v.logger.Warn("failed to issue csrf token", "error", err)
	}
	data["CSRFToken"] = token

	var buf bytes.Buffer
	if err := v.templates.Render(&buf, page, data); err != nil {
		v.logger.Error("failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Flash queues a message for the next rendered page.
func (v *View) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	if err := v.sessions.AddFlash(w, r, category, message); err != nil {
		v.logger.Warn("failed to save flash", "error", err)
	}
}

// Redirect sends the browser on after a successful POST.
func (v *View) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Error renders the page that matches err.
func (v *View) Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotOwner):
		v.NotFound(w, r)
	case errors.Is(err, errNotLeader):
		v.Forbidden(w, r)
	default:
		v.ServerError(w, r, err)
	}
}

func (v *View) NotFound(w http.ResponseWriter, r *http.Request) {
	v.errorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}

func (v *View) Forbidden(w http.ResponseWriter, r *http.Request) {
	v.errorPage(w, r, http.StatusForbidden, "You are not allowed to do that.")
}

// ServerError logs err and shows a generic failure page.
func (v *View) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	}
	var se *store.StorageError
	if errors.As(err, &se) {
		attrs = append(attrs, "op", se.Op)
	}
	v.logger.Error("request failed", attrs...)
	v.InternalError(w, r)
}

// InternalError shows the failure page without logging. Used after a
// recovered panic, which is logged by the middleware.
func (v *View) InternalError(w http.ResponseWriter, r *http.Request) {
	v.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func (v *View) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	v.Render(w, r, status, "error.html", map[string]interface{}{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// parseForm reports false after answering a malformed body.
func (v *View) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		v.errorPage(w, r, http.StatusBadRequest, "The form could not be read.")
		return false
	}
	return true
}

// formErrors extracts field errors from a validation result.
func formErrors(err error) (forms.Errors, bool) {
	var errs forms.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// idParam parses a URL id. A malformed id is treated as a missing row.
func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, store.ErrNotFound
	}
	return id, nil
}
