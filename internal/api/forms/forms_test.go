package forms

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(Errors)
	require.True(t, ok, "want forms.Errors, got %T", err)
	return errs
}

func TestRegisterForm(t *testing.T) {
	valid := url.Values{
		"username":     {"tank01"},
		"email":        {"t1@example.com"},
		"password":     {"pw"},
		"pass_confirm": {"pw"},
	}

	t.Run("valid", func(t *testing.T) {
		reg, err := ParseRegister(valid).Validate()
		require.NoError(t, err)
		assert.Equal(t, Registration{Username: "tank01", Email: "t1@example.com", Password: "pw"}, reg)
	})

	tests := []struct {
		name      string
		field     string
		value     string
		wantField string
		wantMsg   string
	}{
		{"missing username", "username", "", "username", MsgRequired},
		{"blank username", "username", "   ", "username", MsgRequired},
		{"missing email", "email", "", "email", MsgRequired},
		{"bad email", "email", "not-an-email", "email", MsgEmail},
		{"missing password", "password", "", "password", MsgRequired},
		{"mismatch", "pass_confirm", "pw2", "password", MsgPasswordsMatch},
		{"missing confirm", "pass_confirm", "", "pass_confirm", MsgRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			for k, v := range valid {
				form[k] = v
			}
			form.Set(tt.field, tt.value)

			_, err := ParseRegister(form).Validate()
			errs := requireErrors(t, err)
			assert.Equal(t, tt.wantMsg, errs[tt.wantField])
		})
	}

	t.Run("password too long for bcrypt", func(t *testing.T) {
		long := strings.Repeat("x", 73)
		form := url.Values{"username": {"a"}, "email": {"a@example.com"}, "password": {long}, "pass_confirm": {long}}
		_, err := ParseRegister(form).Validate()
		errs := requireErrors(t, err)
		assert.True(t, errs.Has("password"))
	})

	t.Run("password whitespace is kept", func(t *testing.T) {
		form := url.Values{"username": {"a"}, "email": {"a@example.com"}, "password": {" pw "}, "pass_confirm": {" pw "}}
		reg, err := ParseRegister(form).Validate()
		require.NoError(t, err)
		assert.Equal(t, " pw ", reg.Password)
	})
}

func TestLoginForm(t *testing.T) {
	t.Run("valid ignores other fields", func(t *testing.T) {
		form := url.Values{"email": {"t1@example.com"}, "password": {"pw"}, "username": {"ignored"}}
		got, err := ParseLogin(form).Validate()
		require.NoError(t, err)
		assert.Equal(t, "t1@example.com", got.Email)
		assert.Equal(t, "pw", got.Password)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ParseLogin(url.Values{"email": {"bad"}}).Validate()
		errs := requireErrors(t, err)
		assert.Equal(t, MsgEmail, errs["email"])
		assert.Equal(t, MsgRequired, errs["password"])
	})
}

func TestCharacterForm(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		wantField string
		wantMsg   string
	}{
		{"missing name", url.Values{"race": {"Viera"}}, "name", MsgRequired},
		{"unknown race", url.Values{"name": {"G'raha Tia"}, "race": {"Garlean"}}, "race", MsgChoice},
		{"bad url", url.Values{"name": {"G'raha Tia"}, "race": {"Miqo'te"}, "profile_url": {"ftp://x"}}, "profile_url", MsgURL},
		{"long name", url.Values{"name": {strings.Repeat("n", 256)}, "race": {"Hyur"}}, "name", "Field cannot be longer than 255 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCharacter(tt.form).Validate()
			errs := requireErrors(t, err)
			assert.Equal(t, tt.wantMsg, errs[tt.wantField])
		})
	}

	t.Run("valid", func(t *testing.T) {
		c, err := ParseCharacter(url.Values{"name": {" G'raha Tia "}, "race": {"Miqo'te"}}).Validate()
		require.NoError(t, err)
		assert.Equal(t, "G'raha Tia", c.Name)
		assert.Equal(t, "", c.ProfileURL)
	})

	t.Run("prefill round trips", func(t *testing.T) {
		c := &models.Character{Name: "Urianger", Race: "Elezen", ProfileURL: "https://example.com/u"}
		got, err := CharacterFormFrom(c).Validate()
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)
		assert.Equal(t, c.ProfileURL, got.ProfileURL)
	})
}

func TestJobForm(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantMsg string
	}{
		{"missing", "", MsgRequired},
		{"not a number", "ten", MsgInteger},
		{"too low", "0", "Number must be between 1 and 90."},
		{"too high", "91", "Number must be between 1 and 90."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJob(url.Values{"job": {"Paladin"}, "level": {tt.level}}).Validate()
			errs := requireErrors(t, err)
			assert.Equal(t, tt.wantMsg, errs["level"])
		})
	}

	j, err := ParseJob(url.Values{"job": {"Paladin"}, "level": {"90"}, "realm": {"Gilgamesh"}}).Validate()
	require.NoError(t, err)
	assert.Equal(t, 90, j.Level)
	assert.Equal(t, "Gilgamesh", j.Realm)

	got, err := JobFormFrom(&j).Validate()
	require.NoError(t, err)
	assert.Equal(t, j, got)
}

func TestAccountsForm(t *testing.T) {
	a, err := ParseAccounts(url.Values{"discord_account": {"tank#0001"}}).Validate()
	require.NoError(t, err)
	assert.Equal(t, "tank#0001", a.DiscordAccount)
	assert.Equal(t, "", a.TwitchAccount)

	_, err = ParseAccounts(url.Values{"twitch_account": {strings.Repeat("t", 256)}}).Validate()
	errs := requireErrors(t, err)
	assert.True(t, errs.Has("twitch_account"))
}

func TestEventForm(t *testing.T) {
	valid := url.Values{
		"start_date":     {"2024-06-01"},
		"start_time":     {"20:30"},
		"start_timezone": {"Europe/Paris"},
		"language":       {"English"},
	}

	t.Run("valid defaults to open", func(t *testing.T) {
		e, err := ParseEvent(valid).Validate()
		require.NoError(t, err)
		assert.Equal(t, models.EventStatusOpen, e.EventStatus)
		assert.Equal(t, "2024-06-01", time.Time(e.StartDate).Format("2006-01-02"))

		start := e.StartsAt()
		assert.Equal(t, 20, start.Hour())
		assert.Equal(t, 30, start.Minute())
		assert.Equal(t, "Europe/Paris", start.Location().String())

		form := EventFormFrom(&e)
		assert.Equal(t, "20:30", form.StartTime)
		assert.Equal(t, "2024-06-01", form.StartDate)
	})

	tests := []struct {
		name    string
		field   string
		value   string
		wantMsg string
	}{
		{"bad date", "start_date", "06/01/2024", MsgDate},
		{"bad time", "start_time", "25:00", MsgTime},
		{"bad timezone", "start_timezone", "Nowhere/City", MsgTimezone},
		{"missing language", "language", "", MsgRequired},
		{"bad status", "event_status", "postponed", MsgChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			for k, v := range valid {
				form[k] = v
			}
			form.Set(tt.field, tt.value)

			_, err := ParseEvent(form).Validate()
			errs := requireErrors(t, err)
			assert.Equal(t, tt.wantMsg, errs[tt.field])
		})
	}
}

func TestRosterForm(t *testing.T) {
	charID := "550e8400-e29b-41d4-a716-446655440000"
	jobID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	t.Run("join", func(t *testing.T) {
		e, err := ParseRoster(url.Values{
			"character_id":     {charID},
			"character_job_id": {jobID},
			"role":             {"tank"},
			"secondary_role":   {"dps"},
		}).ValidateJoin()
		require.NoError(t, err)
		assert.Equal(t, charID, e.CharacterID.String())
		assert.Equal(t, "dps", e.SecondaryRole)
	})

	t.Run("join errors", func(t *testing.T) {
		_, err := ParseRoster(url.Values{"character_job_id": {"nope"}, "role": {"bard"}, "secondary_role": {"mage"}}).ValidateJoin()
		errs := requireErrors(t, err)
		assert.Equal(t, MsgRequired, errs["character_id"])
		assert.Equal(t, MsgID, errs["character_job_id"])
		assert.Equal(t, MsgChoice, errs["role"])
		assert.Equal(t, MsgChoice, errs["secondary_role"])
	})

	t.Run("edit ignores character fields", func(t *testing.T) {
		e, err := ParseRoster(url.Values{"role": {"healer"}, "comments": {"late by 5"}}).ValidateEdit()
		require.NoError(t, err)
		assert.Equal(t, "healer", e.Role)
		assert.Equal(t, "late by 5", e.Comments)
	})

	t.Run("status", func(t *testing.T) {
		s, err := ParseRosterStatus(url.Values{"player_status": {"confirmed"}}).Validate()
		require.NoError(t, err)
		assert.Equal(t, models.PlayerStatusConfirmed, s)

		_, err = ParseRosterStatus(url.Values{"player_status": {"maybe"}}).Validate()
		errs := requireErrors(t, err)
		assert.Equal(t, MsgChoice, errs["player_status"])
	})
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.NoError(t, errs.Err())

	errs.Add("b", "second")
	errs.Add("a", "first")
	errs.Add("a", "ignored")
	assert.Equal(t, "first", errs["a"])
	assert.Equal(t, "invalid form: a: first; b: second", errs.Error())
}
