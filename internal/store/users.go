package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.ProfileImage == "" {
		user.ProfileImage = models.DefaultProfileImage
	}
	err := s.conn(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Entity: "user", Field: "email or username"}
	}
	return translate("create user", "user", err)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("get user", "user", err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("get user by email", "user", err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("get user by username", "user", err)
	}
	return &user, nil
}

func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.userFieldTaken(ctx, "email", email)
}

func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.userFieldTaken(ctx, "username", username)
}

func (s *Store) userFieldTaken(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, translate("check "+column, "user", err)
	}
	return count > 0, nil
}

func (s *Store) SetUserStatus(ctx context.Context, id uuid.UUID, status string) error {
	return s.setStatus(ctx, &models.User{}, "user", id, status)
}

// setStatus updates the lifecycle column; Update refreshes updated_date.
func (s *Store) setStatus(ctx context.Context, model interface{}, entity string, id uuid.UUID, status string) error {
	if !models.IsValidStatus(status) {
		return fmt.Errorf("set %s status: unknown status %q", entity, status)
	}
	res := s.conn(ctx).Model(model).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate("set "+entity+" status", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
