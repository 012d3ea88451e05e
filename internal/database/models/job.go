package models

import "github.com/google/uuid"

const (
	MinJobLevel = 1
	MaxJobLevel = 90
)

type Job struct {
	Base
	Status      string `gorm:"size:10;not null;default:ACTIVE" json:"status"`
	Job         string `gorm:"size:255;not null" json:"job"`
	Level       int    `gorm:"not null" json:"level"`
	Description string `gorm:"type:text" json:"description"`
	Realm       string `gorm:"size:255" json:"realm"`
}

func (Job) TableName() string {
	return "jobs"
}

// CharacterJob links a character to one of its jobs.
type CharacterJob struct {
	Base
	CharacterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_character_job" json:"character_id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_character_job;index" json:"job_id"`

	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character,omitempty"`
	Job       *Job       `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"job,omitempty"`
}

func (CharacterJob) TableName() string {
	return "character_jobs"
}
