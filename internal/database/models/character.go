package models

import "github.com/google/uuid"

// Playable races.
var Races = []string{
	"Hyur",
	"Elezen",
	"Lalafell",
	"Miqo'te",
	"Roegadyn",
	"Au Ra",
	"Hrothgar",
	"Viera",
}

func IsValidRace(race string) bool {
	for _, r := range Races {
		if r == race {
			return true
		}
	}
	return false
}

type Character struct {
	Base
	Status     string `gorm:"size:10;not null;default:ACTIVE" json:"status"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Race       string `gorm:"size:255;not null" json:"race"`
	ProfileURL string `gorm:"type:text" json:"profile_url"`
}

func (Character) TableName() string {
	return "characters"
}

// UserCharacter links a user to a character they play.
type UserCharacter struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_character" json:"user_id"`
	CharacterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_character;index" json:"character_id"`

	User      *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Character *Character `gorm:"foreignKey:CharacterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"character,omitempty"`
}

func (UserCharacter) TableName() string {
	return "user_characters"
}
