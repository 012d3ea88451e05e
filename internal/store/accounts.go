package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
)

// GetUserAccounts returns the user's linked accounts, or an empty unsaved
// row when none exist yet.
func (s *Store) GetUserAccounts(ctx context.Context, userID uuid.UUID) (*models.UserAccounts, error) {
	var accounts []models.UserAccounts
	if err := s.conn(ctx).Where("user_id = ?", userID).Limit(1).Find(&accounts).Error; err != nil {
		return nil, translate("get user accounts", "user accounts", err)
	}
	if len(accounts) == 0 {
		return &models.UserAccounts{UserID: userID}, nil
	}
	return &accounts[0], nil
}

// SaveUserAccounts inserts the user's single accounts row or updates it.
func (s *Store) SaveUserAccounts(ctx context.Context, accounts *models.UserAccounts) error {
	existing, err := s.GetUserAccounts(ctx, accounts.UserID)
	if err != nil {
		return err
	}

	if existing.ID == uuid.Nil {
		if err := s.requireRefs(ctx, "user accounts", ref{"user_id", &models.User{}, accounts.UserID}); err != nil {
			return err
		}
		accounts.ID = uuid.Nil
		return translate("create user accounts", "user accounts", s.conn(ctx).Create(accounts).Error)
	}

	accounts.ID = existing.ID
	accounts.CreatedAt = existing.CreatedAt
	err = s.conn(ctx).Model(existing).Updates(map[string]interface{}{
		"discord_account": accounts.DiscordAccount,
		"youtube_account": accounts.YoutubeAccount,
		"twitch_account":  accounts.TwitchAccount,
	}).Error
	if err != nil {
		return translate("update user accounts", "user accounts", err)
	}
	accounts.UpdatedAt = existing.UpdatedAt
	return nil
}
