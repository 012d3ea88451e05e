package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
)

func (s *Store) CreateCharacter(ctx context.Context, c *models.Character) error {
	if c.Status == "" {
		c.Status = models.StatusActive
	}
	return translate("create character", "character", s.conn(ctx).Create(c).Error)
}

func (s *Store) GetCharacter(ctx context.Context, id uuid.UUID) (*models.Character, error) {
	var c models.Character
	if err := s.conn(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate("get character", "character", err)
	}
	return &c, nil
}

// UpdateCharacter writes the editable columns of c.
func (s *Store) UpdateCharacter(ctx context.Context, c *models.Character) error {
	res := s.conn(ctx).Model(c).Select("name", "race", "profile_url").Updates(models.Character{
		Name:       c.Name,
		Race:       c.Race,
		ProfileURL: c.ProfileURL,
	})
	if res.Error != nil {
		return translate("update character", "character", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetCharacterStatus(ctx context.Context, id uuid.UUID, status string) error {
	return s.setStatus(ctx, &models.Character{}, "character", id, status)
}

// ListCharactersForUser returns the characters linked to a user, newest first.
func (s *Store) ListCharactersForUser(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]models.Character, error) {
	q := s.conn(ctx).
		Joins("JOIN user_characters ON user_characters.character_id = characters.id").
		Where("user_characters.user_id = ?", userID)
	if !includeInactive {
		q = q.Where("characters.status = ?", models.StatusActive)
	}

	var chars []models.Character
	if err := q.Order("characters.created_date DESC").Find(&chars).Error; err != nil {
		return nil, translate("list characters", "character", err)
	}
	return chars, nil
}

func (s *Store) UserOwnsCharacter(ctx context.Context, userID, characterID uuid.UUID) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.UserCharacter{}).
		Where("user_id = ? AND character_id = ?", userID, characterID).
		Count(&count).Error
	if err != nil {
		return false, translate("check character owner", "user character", err)
	}
	return count > 0, nil
}

// LinkUserCharacter attaches a character to a user's profile.
func (s *Store) LinkUserCharacter(ctx context.Context, userID, characterID uuid.UUID) (*models.UserCharacter, error) {
	if err := s.requireRefs(ctx, "user character",
		ref{"user_id", &models.User{}, userID},
		ref{"character_id", &models.Character{}, characterID},
	); err != nil {
		return nil, err
	}

	link := &models.UserCharacter{UserID: userID, CharacterID: characterID}
	if err := s.conn(ctx).Create(link).Error; err != nil {
		return nil, translate("link user character", "user character", err)
	}
	return link, nil
}

func (s *Store) UnlinkUserCharacter(ctx context.Context, userID, characterID uuid.UUID) error {
	res := s.conn(ctx).
		Where("user_id = ? AND character_id = ?", userID, characterID).
		Delete(&models.UserCharacter{})
	if res.Error != nil {
		return translate("unlink user character", "user character", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
