package models

import "github.com/google/uuid"

const DefaultProfileImage = "default_profile.png"

type User struct {
	Base
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Username     string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Status       string `gorm:"size:10;not null;default:ACTIVE" json:"status"`
	ProfileImage string `gorm:"size:255;not null;default:default_profile.png" json:"profile_image"`
}

func (User) TableName() string {
	return "users"
}

// AuthID and AuthHash make User usable wherever an authenticatable
// identity is needed (see auth.Identity).
func (u *User) AuthID() uuid.UUID {
	return u.ID
}

func (u *User) AuthHash() string {
	return u.PasswordHash
}

// IsActive reports whether the user may sign in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserAccounts holds a user's external community accounts. One row per user.
type UserAccounts struct {
	Base
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DiscordAccount string    `gorm:"type:text" json:"discord_account"`
	YoutubeAccount string    `gorm:"type:text" json:"youtube_account"`
	TwitchAccount  string    `gorm:"type:text" json:"twitch_account"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (UserAccounts) TableName() string {
	return "user_game_accounts"
}
