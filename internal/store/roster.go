package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"gorm.io/gorm"
)

// CreateRosterEntry seats a player in an event. Every reference is checked,
// and the character job must belong to the entry's character.
func (s *Store) CreateRosterEntry(ctx context.Context, entry *models.EventRoster) error {
	refs := []ref{
		{"event_id", &models.Event{}, entry.EventID},
		{"user_id", &models.User{}, entry.UserID},
		{"character_id", &models.Character{}, entry.CharacterID},
		{"character_job_id", &models.CharacterJob{}, entry.CharacterJobID},
	}
	if entry.UpdatedBy != nil {
		refs = append(refs, ref{"updated_by", &models.User{}, *entry.UpdatedBy})
	}
	if err := s.requireRefs(ctx, "roster entry", refs...); err != nil {
		return err
	}
	if err := s.checkJobBelongsTo(ctx, entry.CharacterJobID, entry.CharacterID); err != nil {
		return err
	}

	if entry.PlayerStatus == "" {
		entry.PlayerStatus = models.PlayerStatusPending
	}

	err := s.conn(ctx).Omit("Event", "User", "Character", "CharacterJob", "UpdatedByUser").Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Entity: "roster entry", Field: "player"}
	}
	return translate("create roster entry", "roster entry", err)
}

func (s *Store) checkJobBelongsTo(ctx context.Context, characterJobID, characterID uuid.UUID) error {
	var count int64
	err := s.conn(ctx).Model(&models.CharacterJob{}).
		Where("id = ? AND character_id = ?", characterJobID, characterID).
		Count(&count).Error
	if err != nil {
		return &StorageError{Op: "check character job owner", Err: err}
	}
	if count == 0 {
		return &ReferenceError{Entity: "roster entry", Field: "character_job_id"}
	}
	return nil
}

func (s *Store) GetRosterEntry(ctx context.Context, id uuid.UUID) (*models.EventRoster, error) {
	var entry models.EventRoster
	err := s.conn(ctx).
		Preload("User").
		Preload("Character").
		Preload("CharacterJob.Job").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, translate("get roster entry", "roster entry", err)
	}
	return &entry, nil
}

// UpdateRosterEntry writes role, secondary role, comments, player status and
// the acting user.
func (s *Store) UpdateRosterEntry(ctx context.Context, entry *models.EventRoster) error {
	if entry.UpdatedBy != nil {
		if err := s.requireRefs(ctx, "roster entry", ref{"updated_by", &models.User{}, *entry.UpdatedBy}); err != nil {
			return err
		}
	}

	res := s.conn(ctx).Model(&models.EventRoster{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"role":           entry.Role,
		"secondary_role": entry.SecondaryRole,
		"comments":       entry.Comments,
		"player_status":  entry.PlayerStatus,
		"updated_by":     entry.UpdatedBy,
	})
	if res.Error != nil {
		return translate("update roster entry", "roster entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRosterEntry(ctx context.Context, id uuid.UUID) error {
	res := s.conn(ctx).Delete(&models.EventRoster{}, "id = ?", id)
	if res.Error != nil {
		return translate("delete roster entry", "roster entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRoster returns an event's seats in join order with player, character
// and job loaded.
func (s *Store) ListRoster(ctx context.Context, eventID uuid.UUID) ([]models.EventRoster, error) {
	var entries []models.EventRoster
	err := s.conn(ctx).
		Preload("User").
		Preload("Character").
		Preload("CharacterJob.Job").
		Where("event_id = ?", eventID).
		Order("created_date").
		Find(&entries).Error
	if err != nil {
		return nil, translate("list roster", "roster entry", err)
	}
	return entries, nil
}
