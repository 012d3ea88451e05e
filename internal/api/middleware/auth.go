package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

type contextKey string

const UserKey contextKey = "current_user"

// DefaultLanding is where a login without a usable next path ends up.
const DefaultLanding = "/"

// SessionUsers resolves the user id stored in a request's session.
type SessionUsers interface {
	UserID(r *http.Request) (uuid.UUID, bool)
}

// UserLoader loads a user by id.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadUser puts the signed-in user on the request context. An empty
// session, an unknown id or an inactive user leave the request anonymous.
func LoadUser(sessions SessionUsers, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.UserID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), id)
			switch {
			case errors.Is(err, store.ErrNotFound):
			case err != nil:
				logger.Warn("loading session user", "user_id", id, "error", err)
			case user.IsActive():
				r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(UserKey).(*models.User); ok {
		return u
	}
	return nil
}

func GetUserID(ctx context.Context) uuid.UUID {
	if u := CurrentUser(ctx); u != nil {
		return u.ID
	}
	return uuid.Nil
}

// WithUser attaches user to ctx as the signed-in user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// RequireLogin sends anonymous requests to the login page, remembering
// where they were going.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			handleUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}

// SafeNext returns next when it is a local path, DefaultLanding otherwise.
func SafeNext(next string) string {
	if next == "" || next[0] != '/' {
		return DefaultLanding
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return DefaultLanding
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultLanding
	}
	return next
}
