package forms

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/api/validation"
	"github.com/hugh/raid-finder/internal/database/models"
	"gorm.io/datatypes"
)

type EventForm struct {
	StartDate     string
	StartTime     string
	StartTimezone string
	Language      string
	Description   string
	EventStatus   string
	Requirements  string
}

func ParseEvent(form url.Values) EventForm {
	return EventForm{
		StartDate:     text(form, "start_date"),
		StartTime:     text(form, "start_time"),
		StartTimezone: text(form, "start_timezone"),
		Language:      text(form, "language"),
		Description:   text(form, "description"),
		EventStatus:   text(form, "event_status"),
		Requirements:  text(form, "requirements"),
	}
}

func EventFormFrom(e *models.Event) EventForm {
	return EventForm{
		StartDate:     e.FormatDate(),
		StartTime:     e.FormatTime(),
		StartTimezone: e.StartTimezone,
		Language:      e.Language,
		Description:   e.Description,
		EventStatus:   string(e.EventStatus),
		Requirements:  e.Requirements,
	}
}

// Validate returns an event with every form field set. An empty status
// means open.
func (f EventForm) Validate() (models.Event, error) {
	errs := Errors{}

	var date time.Time
	if errs.required("start_date", f.StartDate) {
		d, ok := validation.ParseDate(f.StartDate)
		if !ok {
			errs.Add("start_date", MsgDate)
		}
		date = d
	}

	var hour, minute int
	if errs.required("start_time", f.StartTime) {
		h, m, ok := validation.ParseClock(f.StartTime)
		if !ok {
			errs.Add("start_time", MsgTime)
		}
		hour, minute = h, m
	}

	if errs.required("start_timezone", f.StartTimezone) && !validation.IsValidTimezone(f.StartTimezone) {
		errs.Add("start_timezone", MsgTimezone)
	}
	if errs.required("language", f.Language) {
		errs.maxLen("language", f.Language, 255)
	}

	status := models.EventStatus(f.EventStatus)
	if status == "" {
		status = models.EventStatusOpen
	}
	if !status.Valid() {
		errs.Add("event_status", MsgChoice)
	}

	if err := errs.Err(); err != nil {
		return models.Event{}, err
	}
	return models.Event{
		StartDate:     datatypes.Date(date),
		StartTime:     datatypes.NewTime(hour, minute, 0, 0),
		StartTimezone: f.StartTimezone,
		Language:      f.Language,
		Description:   f.Description,
		EventStatus:   status,
		Requirements:  f.Requirements,
	}, nil
}

// RosterForm covers joining an event and editing a seat. Character fields
// are only read on join.
type RosterForm struct {
	CharacterID    string
	CharacterJobID string
	Role           string
	SecondaryRole  string
	Comments       string
}

func ParseRoster(form url.Values) RosterForm {
	return RosterForm{
		CharacterID:    text(form, "character_id"),
		CharacterJobID: text(form, "character_job_id"),
		Role:           text(form, "role"),
		SecondaryRole:  text(form, "secondary_role"),
		Comments:       text(form, "comments"),
	}
}

func RosterFormFrom(e *models.EventRoster) RosterForm {
	return RosterForm{
		CharacterID:    e.CharacterID.String(),
		CharacterJobID: e.CharacterJobID.String(),
		Role:           e.Role,
		SecondaryRole:  e.SecondaryRole,
		Comments:       e.Comments,
	}
}

// ValidateJoin checks a join request, character and job included.
func (f RosterForm) ValidateJoin() (models.EventRoster, error) {
	errs := Errors{}
	charID := errs.uuidField("character_id", f.CharacterID)
	jobID := errs.uuidField("character_job_id", f.CharacterJobID)
	f.validateSeat(errs)

	if err := errs.Err(); err != nil {
		return models.EventRoster{}, err
	}
	return models.EventRoster{
		CharacterID:    charID,
		CharacterJobID: jobID,
		Role:           f.Role,
		SecondaryRole:  f.SecondaryRole,
		Comments:       f.Comments,
	}, nil
}

// ValidateEdit checks the fields a player may change on their own seat.
func (f RosterForm) ValidateEdit() (models.EventRoster, error) {
	errs := Errors{}
	f.validateSeat(errs)

	if err := errs.Err(); err != nil {
		return models.EventRoster{}, err
	}
	return models.EventRoster{
		Role:          f.Role,
		SecondaryRole: f.SecondaryRole,
		Comments:      f.Comments,
	}, nil
}

func (f RosterForm) validateSeat(errs Errors) {
	if errs.required("role", f.Role) && !models.IsValidRole(f.Role) {
		errs.Add("role", MsgChoice)
	}
	if f.SecondaryRole != "" && !models.IsValidRole(f.SecondaryRole) {
		errs.Add("secondary_role", MsgChoice)
	}
	errs.maxLen("comments", f.Comments, 1000)
}

func (e Errors) uuidField(field, value string) uuid.UUID {
	if !e.required(field, value) {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil || !validation.IsValidUUID(value) {
		e.Add(field, MsgID)
		return uuid.Nil
	}
	return id
}

type RosterStatusForm struct {
	PlayerStatus string
}

func ParseRosterStatus(form url.Values) RosterStatusForm {
	return RosterStatusForm{PlayerStatus: text(form, "player_status")}
}

func (f RosterStatusForm) Validate() (models.PlayerStatus, error) {
	errs := Errors{}
	status := models.PlayerStatus(f.PlayerStatus)
	if errs.required("player_status", f.PlayerStatus) && !status.Valid() {
		errs.Add("player_status", MsgChoice)
	}

	if err := errs.Err(); err != nil {
		return "", err
	}
	return status, nil
}
