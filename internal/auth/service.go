package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an ACTIVE user. A taken email or username is reported
// as a *store.ConflictError naming the field.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		Status:       models.StatusActive,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		taken, err := tx.EmailTaken(ctx, input.Email)
		if err != nil {
			return err
		}
		if taken {
			return &store.ConflictError{Entity: "user", Field: "email"}
		}

		taken, err = tx.UsernameTaken(ctx, input.Username)
		if err != nil {
			return err
		}
		if taken {
			return &store.ConflictError{Entity: "user", Field: "username"}
		}

		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user for a valid email and password. Unknown
// emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := Verify(user, password); err != nil {
		return nil, err
	}
	return user, nil
}

// Verify checks a password against an identity that is known to exist.
func Verify(id Identity, password string) error {
	if !CheckPassword(password, id.AuthHash()) {
		return ErrInvalidCredentials
	}
	if !id.IsActive() {
		return ErrInactiveUser
	}
	return nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}
