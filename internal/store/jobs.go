package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
)

func (s *Store) CreateJob(ctx context.Context, j *models.Job) error {
	if j.Status == "" {
		j.Status = models.StatusActive
	}
	return translate("create job", "job", s.conn(ctx).Create(j).Error)
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	if err := s.conn(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, translate("get job", "job", err)
	}
	return &j, nil
}

// UpdateJob writes the editable columns of j.
func (s *Store) UpdateJob(ctx context.Context, j *models.Job) error {
	res := s.conn(ctx).Model(j).Select("job", "level", "description", "realm").Updates(models.Job{
		Job:         j.Job,
		Level:       j.Level,
		Description: j.Description,
		Realm:       j.Realm,
	})
	if res.Error != nil {
		return translate("update job", "job", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetJobStatus(ctx context.Context, id uuid.UUID, status string) error {
	return s.setStatus(ctx, &models.Job{}, "job", id, status)
}

// LinkCharacterJob attaches a job to a character.
func (s *Store) LinkCharacterJob(ctx context.Context, characterID, jobID uuid.UUID) (*models.CharacterJob, error) {
	if err := s.requireRefs(ctx, "character job",
		ref{"character_id", &models.Character{}, characterID},
		ref{"job_id", &models.Job{}, jobID},
	); err != nil {
		return nil, err
	}

	link := &models.CharacterJob{CharacterID: characterID, JobID: jobID}
	if err := s.conn(ctx).Create(link).Error; err != nil {
		return nil, translate("link character job", "character job", err)
	}
	return link, nil
}

// UnlinkCharacterJob removes the link. A link still used by a roster entry
// yields a ReferenceError.
func (s *Store) UnlinkCharacterJob(ctx context.Context, characterID, jobID uuid.UUID) error {
	link, err := s.findCharacterJob(ctx, characterID, jobID)
	if err != nil {
		return err
	}

	var used int64
	if err := s.conn(ctx).Model(&models.EventRoster{}).Where("character_job_id = ?", link.ID).Count(&used).Error; err != nil {
		return translate("check roster usage", "character job", err)
	}
	if used > 0 {
		return &ReferenceError{Entity: "character job", Field: "event_roster.character_job_id"}
	}

	if err := s.conn(ctx).Delete(link).Error; err != nil {
		return translate("unlink character job", "character job", err)
	}
	return nil
}

func (s *Store) findCharacterJob(ctx context.Context, characterID, jobID uuid.UUID) (*models.CharacterJob, error) {
	var link models.CharacterJob
	err := s.conn(ctx).Where("character_id = ? AND job_id = ?", characterID, jobID).First(&link).Error
	if err != nil {
		return nil, translate("get character job", "character job", err)
	}
	return &link, nil
}

func (s *Store) GetCharacterJob(ctx context.Context, id uuid.UUID) (*models.CharacterJob, error) {
	var link models.CharacterJob
	if err := s.conn(ctx).Preload("Job").Preload("Character").First(&link, "id = ?", id).Error; err != nil {
		return nil, translate("get character job", "character job", err)
	}
	return &link, nil
}

// ListJobsForCharacter returns the character's job links with their jobs.
func (s *Store) ListJobsForCharacter(ctx context.Context, characterID uuid.UUID, includeInactive bool) ([]models.CharacterJob, error) {
	q := s.conn(ctx).
		Preload("Job").
		Joins("JOIN jobs ON jobs.id = character_jobs.job_id").
		Where("character_jobs.character_id = ?", characterID)
	if !includeInactive {
		q = q.Where("jobs.status = ?", models.StatusActive)
	}

	var links []models.CharacterJob
	if err := q.Order("jobs.level DESC, jobs.job").Find(&links).Error; err != nil {
		return nil, translate("list character jobs", "character job", err)
	}
	return links, nil
}

// ListJobsForUser returns every job link across the user's characters.
func (s *Store) ListJobsForUser(ctx context.Context, userID uuid.UUID) ([]models.CharacterJob, error) {
	var links []models.CharacterJob
	err := s.conn(ctx).
		Preload("Job").
		Preload("Character").
		Joins("JOIN jobs ON jobs.id = character_jobs.job_id").
		Joins("JOIN characters ON characters.id = character_jobs.character_id").
		Joins("JOIN user_characters ON user_characters.character_id = character_jobs.character_id").
		Where("user_characters.user_id = ?", userID).
		Order("characters.name, jobs.job").
		Find(&links).Error
	if err != nil {
		return nil, translate("list user jobs", "character job", err)
	}
	return links, nil
}

// UserOwnsJob reports whether the job belongs to one of the user's characters.
func (s *Store) UserOwnsJob(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.CharacterJob{}).
		Joins("JOIN user_characters ON user_characters.character_id = character_jobs.character_id").
		Where("user_characters.user_id = ? AND character_jobs.job_id = ?", userID, jobID).
		Count(&count).Error
	if err != nil {
		return false, translate("check job owner", "character job", err)
	}
	return count > 0, nil
}
