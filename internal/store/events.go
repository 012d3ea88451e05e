package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
)

// CreateEvent inserts an event after checking its leader exists.
func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if err := s.requireRefs(ctx, "event", ref{"leader_id", &models.User{}, e.LeaderID}); err != nil {
		return err
	}
	if e.EventStatus == "" {
		e.EventStatus = models.EventStatusOpen
	}
	return translate("create event", "event", s.conn(ctx).Create(e).Error)
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	if err := s.conn(ctx).Preload("Leader").First(&e, "id = ?", id).Error; err != nil {
		return nil, translate("get event", "event", err)
	}
	return &e, nil
}

// UpdateEvent writes the editable columns of e. The leader never changes.
func (s *Store) UpdateEvent(ctx context.Context, e *models.Event) error {
	res := s.conn(ctx).Model(&models.Event{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"start_date":     e.StartDate,
		"start_time":     e.StartTime,
		"start_timezone": e.StartTimezone,
		"language":       e.Language,
		"description":    e.Description,
		"event_status":   e.EventStatus,
		"requirements":   e.Requirements,
	})
	if res.Error != nil {
		return translate("update event", "event", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetEventStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) error {
	res := s.conn(ctx).Model(&models.Event{}).Where("id = ?", id).Update("event_status", status)
	if res.Error != nil {
		return translate("set event status", "event", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns events in start order. An empty status lists all of them.
func (s *Store) ListEvents(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	q := s.conn(ctx).Preload("Leader")
	if status != "" {
		q = q.Where("event_status = ?", status)
	}

	var events []models.Event
	if err := q.Order("start_date, start_time").Find(&events).Error; err != nil {
		return nil, translate("list events", "event", err)
	}
	return events, nil
}

func (s *Store) ListEventsByLeader(ctx context.Context, leaderID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := s.conn(ctx).
		Where("leader_id = ?", leaderID).
		Order("start_date, start_time").
		Find(&events).Error
	if err != nil {
		return nil, translate("list leader events", "event", err)
	}
	return events, nil
}
