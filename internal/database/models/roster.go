package models

import "github.com/google/uuid"

type PlayerStatus string

const (
	PlayerStatusPending   PlayerStatus = "pending"
	PlayerStatusConfirmed PlayerStatus = "confirmed"
	PlayerStatusDeclined  PlayerStatus = "declined"
)

var PlayerStatuses = []PlayerStatus{
	PlayerStatusPending,
	PlayerStatusConfirmed,
	PlayerStatusDeclined,
}

func (s PlayerStatus) Valid() bool {
	for _, v := range PlayerStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Party roles a roster seat can fill.
var Roles = []string{"tank", "healer", "dps"}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// EventRoster is one player's seat in an event.
type EventRoster struct {
	Base
	EventID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_event_player" json:"event_id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_event_player;index" json:"user_id"`
	CharacterID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"character_id"`
	CharacterJobID uuid.UUID    `gorm:"type:uuid;not null;index" json:"character_job_id"`
	Role           string       `gorm:"size:255;not null" json:"role"`
	SecondaryRole  string       `gorm:"size:255" json:"secondary_role"`
	Comments       string       `gorm:"type:text" json:"comments"`
	PlayerStatus   PlayerStatus `gorm:"size:30;not null;default:pending" json:"player_status"`
	UpdatedBy      *uuid.UUID   `gorm:"type:uuid" json:"updated_by,omitempty"`

	Event         *Event        `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User          *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user,omitempty"`
	Character     *Character    `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"character,omitempty"`
	CharacterJob  *CharacterJob `gorm:"foreignKey:CharacterJobID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"character_job,omitempty"`
	UpdatedByUser *User         `gorm:"foreignKey:UpdatedBy;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (EventRoster) TableName() string {
	return "event_roster"
}
