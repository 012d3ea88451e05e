package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusClosed    EventStatus = "closed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

var EventStatuses = []EventStatus{
	EventStatusOpen,
	EventStatusClosed,
	EventStatusCancelled,
	EventStatusCompleted,
}

func (s EventStatus) Valid() bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Event struct {
	Base
	LeaderID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"leader_id"`
	StartDate     datatypes.Date `gorm:"not null" json:"start_date"`
	StartTime     datatypes.Time `gorm:"not null" json:"start_time"`
	StartTimezone string         `gorm:"type:text;not null" json:"start_timezone"`
	Language      string         `gorm:"size:255;not null" json:"language"`
	Description   string         `gorm:"type:text" json:"description"`
	EventStatus   EventStatus    `gorm:"size:30;not null;default:open;index" json:"event_status"`
	Requirements  string         `gorm:"type:text" json:"requirements"`

	Leader *User `gorm:"foreignKey:LeaderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"leader,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// StartsAt combines the date, time of day and timezone into one instant.
// An unknown timezone falls back to UTC.
func (e *Event) StartsAt() time.Time {
	loc, err := time.LoadLocation(e.StartTimezone)
	if err != nil {
		loc = time.UTC
	}
	d := time.Time(e.StartDate)
	secs := int64(e.StartTime) / int64(time.Second)
	return time.Date(d.Year(), d.Month(), d.Day(), int(secs/3600), int(secs/60%60), int(secs%60), 0, loc)
}

// FormatDate renders the start date as YYYY-MM-DD.
func (e *Event) FormatDate() string {
	return time.Time(e.StartDate).Format("2006-01-02")
}

// FormatTime renders the start time as HH:MM.
func (e *Event) FormatTime() string {
	secs := int64(e.StartTime) / int64(time.Second)
	return fmt.Sprintf("%02d:%02d", secs/3600, secs/60%60)
}

// IsOpen reports whether players may still join.
func (e *Event) IsOpen() bool {
	return e.EventStatus == EventStatusOpen
}
