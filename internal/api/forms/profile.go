package forms

import (
	"net/url"
	"strconv"

	"github.com/hugh/raid-finder/internal/api/validation"
	"github.com/hugh/raid-finder/internal/database/models"
)

type CharacterForm struct {
	Name       string
	Race       string
	ProfileURL string
}

func ParseCharacter(form url.Values) CharacterForm {
	return CharacterForm{
		Name:       text(form, "name"),
		Race:       text(form, "race"),
		ProfileURL: text(form, "profile_url"),
	}
}

// CharacterFormFrom prefills the edit form.
func CharacterFormFrom(c *models.Character) CharacterForm {
	return CharacterForm{Name: c.Name, Race: c.Race, ProfileURL: c.ProfileURL}
}

func (f CharacterForm) Validate() (models.Character, error) {
	errs := Errors{}

	if errs.required("name", f.Name) {
		errs.maxLen("name", f.Name, 255)
	}
	if errs.required("race", f.Race) && !models.IsValidRace(f.Race) {
		errs.Add("race", MsgChoice)
	}
	if f.ProfileURL != "" && !validation.IsValidURL(f.ProfileURL) {
		errs.Add("profile_url", MsgURL)
	}

	if err := errs.Err(); err != nil {
		return models.Character{}, err
	}
	return models.Character{Name: f.Name, Race: f.Race, ProfileURL: f.ProfileURL}, nil
}

type JobForm struct {
	Job         string
	Level       string
	Description string
	Realm       string
}

func ParseJob(form url.Values) JobForm {
	return JobForm{
		Job:         text(form, "job"),
		Level:       text(form, "level"),
		Description: text(form, "description"),
		Realm:       text(form, "realm"),
	}
}

func JobFormFrom(j *models.Job) JobForm {
	return JobForm{
		Job:         j.Job,
		Level:       strconv.Itoa(j.Level),
		Description: j.Description,
		Realm:       j.Realm,
	}
}

func (f JobForm) Validate() (models.Job, error) {
	errs := Errors{}

	if errs.required("job", f.Job) {
		errs.maxLen("job", f.Job, 255)
	}

	var level int
	if errs.required("level", f.Level) {
		n, err := strconv.Atoi(f.Level)
		switch {
		case err != nil:
			errs.Add("level", MsgInteger)
		case n < models.MinJobLevel || n > models.MaxJobLevel:
			errs.Add("level", "Number must be between "+strconv.Itoa(models.MinJobLevel)+" and "+strconv.Itoa(models.MaxJobLevel)+".")
		default:
			level = n
		}
	}
	errs.maxLen("realm", f.Realm, 255)

	if err := errs.Err(); err != nil {
		return models.Job{}, err
	}
	return models.Job{Job: f.Job, Level: level, Description: f.Description, Realm: f.Realm}, nil
}

type AccountsForm struct {
	DiscordAccount string
	YoutubeAccount string
	TwitchAccount  string
}

func ParseAccounts(form url.Values) AccountsForm {
	return AccountsForm{
		DiscordAccount: text(form, "discord_account"),
		YoutubeAccount: text(form, "youtube_account"),
		TwitchAccount:  text(form, "twitch_account"),
	}
}

func AccountsFormFrom(a *models.UserAccounts) AccountsForm {
	return AccountsForm{
		DiscordAccount: a.DiscordAccount,
		YoutubeAccount: a.YoutubeAccount,
		TwitchAccount:  a.TwitchAccount,
	}
}

func (f AccountsForm) Validate() (models.UserAccounts, error) {
	errs := Errors{}
	errs.maxLen("discord_account", f.DiscordAccount, 255)
	errs.maxLen("youtube_account", f.YoutubeAccount, 255)
	errs.maxLen("twitch_account", f.TwitchAccount, 255)

	if err := errs.Err(); err != nil {
		return models.UserAccounts{}, err
	}
	return models.UserAccounts{
		DiscordAccount: f.DiscordAccount,
		YoutubeAccount: f.YoutubeAccount,
		TwitchAccount:  f.TwitchAccount,
	}, nil
}
