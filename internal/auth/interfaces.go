package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
)

// Identity is anything that can be signed in with a password.
type Identity interface {
	AuthID() uuid.UUID
	AuthHash() string
	IsActive() bool
}

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SessionManager defines the per-request session operations.
type SessionManager interface {
	Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error
	Logout(w http.ResponseWriter, r *http.Request) error
	UserID(r *http.Request) (uuid.UUID, bool)
	AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error)
	CSRFToken(w http.ResponseWriter, r *http.Request) (string, error)
}

// Compile-time interface satisfaction checks
var (
	_ Identity       = (*models.User)(nil)
	_ Authenticator  = (*Service)(nil)
	_ SessionManager = (*Sessions)(nil)
)
