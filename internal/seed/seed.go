// Package seed fills a database with random but well-formed raid data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
	"gorm.io/datatypes"
)

// Password is shared by every seeded user.
const Password = "password"

const maxRoster = 8

var (
	jobNames = []string{
		"Paladin", "Warrior", "Dark Knight", "Gunbreaker",
		"White Mage", "Scholar", "Astrologian", "Sage",
		"Monk", "Dragoon", "Ninja", "Samurai", "Reaper",
		"Bard", "Machinist", "Dancer",
		"Black Mage", "Summoner", "Red Mage",
	}
	realms    = []string{"Gilgamesh", "Balmung", "Excalibur", "Cerberus", "Tonberry"}
	languages = []string{"English", "Japanese", "German", "French"}
	timezones = []string{"UTC", "America/New_York", "Europe/London", "Asia/Tokyo"}
)

type Options struct {
	Users int

	// Seed makes a run reproducible; zero picks a random seed.
	Seed int64
}

// Result counts what a run created.
type Result struct {
	Users         int
	Characters    int
	Jobs          int
	RosterEntries int
	Event         *models.Event
}

type Seeder struct {
	store  *store.Store
	logger *slog.Logger
}

func New(st *store.Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: st, logger: logger}
}

type seededCharacter struct {
	char *models.Character
	jobs []*models.CharacterJob
}

// Run creates opts.Users users with one to three characters each and one to
// three jobs per character, then an open event led by the first user with a
// roster drawn from the others. Everything is written in one transaction.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 1 {
		return nil, fmt.Errorf("seed: need at least one user, got %d", opts.Users)
	}

	f := gofakeit.New(opts.Seed)
	hash, err := auth.HashPassword(Password)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		users := make([]*models.User, 0, opts.Users)
		owned := make(map[int][]seededCharacter, opts.Users)

		for i := 0; i < opts.Users; i++ {
			user, err := s.createUser(ctx, tx, f, hash, i)
			if err != nil {
				return err
			}
			users = append(users, user)

			for c := f.Number(1, 3); c > 0; c-- {
				sc, err := s.createCharacter(ctx, tx, f, user)
				if err != nil {
					return err
				}
				owned[i] = append(owned[i], sc)
				res.Characters++
				res.Jobs += len(sc.jobs)
			}
		}
		res.Users = len(users)

		event, err := s.createEvent(ctx, tx, f, users[0])
		if err != nil {
			return err
		}
		res.Event = event

		for i := 1; i < len(users) && res.RosterEntries < maxRoster; i++ {
			sc := owned[i][f.Number(0, len(owned[i])-1)]
			entry := &models.EventRoster{
				EventID:        event.ID,
				UserID:         users[i].ID,
				CharacterID:    sc.char.ID,
				CharacterJobID: sc.jobs[f.Number(0, len(sc.jobs)-1)].ID,
				Role:           f.RandomString(models.Roles),
				Comments:       f.Sentence(6),
				PlayerStatus:   models.PlayerStatusPending,
				UpdatedBy:      &users[i].ID,
			}
			if err := tx.CreateRosterEntry(ctx, entry); err != nil {
				return fmt.Errorf("seeding roster: %w", err)
			}
			res.RosterEntries++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("seeded database",
		"users", res.Users,
		"characters", res.Characters,
		"jobs", res.Jobs,
		"roster", res.RosterEntries,
		"event_id", res.Event.ID,
	)
	return res, nil
}

// createUser suffixes the index so generated names never collide.
func (s *Seeder) createUser(ctx context.Context, tx *store.Store, f *gofakeit.Faker, hash string, i int) (*models.User, error) {
	username := fmt.Sprintf("%s%d", strings.ToLower(f.Username()), i)
	user := &models.User{
		Email:        fmt.Sprintf("%s@%s", username, f.DomainName()),
		Username:     username,
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("seeding user %s: %w", username, err)
	}
	return user, nil
}

func (s *Seeder) createCharacter(ctx context.Context, tx *store.Store, f *gofakeit.Faker, user *models.User) (seededCharacter, error) {
	char := &models.Character{
		Name:   f.FirstName() + " " + f.LastName(),
		Race:   f.RandomString(models.Races),
		Status: models.StatusActive,
	}
	if err := tx.CreateCharacter(ctx, char); err != nil {
		return seededCharacter{}, fmt.Errorf("seeding character: %w", err)
	}
	if _, err := tx.LinkUserCharacter(ctx, user.ID, char.ID); err != nil {
		return seededCharacter{}, fmt.Errorf("linking character: %w", err)
	}

	sc := seededCharacter{char: char}
	names := append([]string(nil), jobNames...)
	f.ShuffleStrings(names)
	for _, name := range names[:f.Number(1, 3)] {
		job := &models.Job{
			Job:         name,
			Level:       f.Number(models.MinJobLevel, models.MaxJobLevel),
			Realm:       f.RandomString(realms),
			Description: f.Sentence(5),
			Status:      models.StatusActive,
		}
		if err := tx.CreateJob(ctx, job); err != nil {
			return seededCharacter{}, fmt.Errorf("seeding job: %w", err)
		}
		link, err := tx.LinkCharacterJob(ctx, char.ID, job.ID)
		if err != nil {
			return seededCharacter{}, fmt.Errorf("linking job: %w", err)
		}
		sc.jobs = append(sc.jobs, link)
	}
	return sc, nil
}

func (s *Seeder) createEvent(ctx context.Context, tx *store.Store, f *gofakeit.Faker, leader *models.User) (*models.Event, error) {
	day := time.Now().UTC().AddDate(0, 0, f.Number(1, 30))
	event := &models.Event{
		LeaderID:      leader.ID,
		StartDate:     datatypes.Date(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)),
		StartTime:     datatypes.NewTime(f.Number(17, 22), f.RandomInt([]int{0, 15, 30, 45}), 0, 0),
		StartTimezone: f.RandomString(timezones),
		Language:      f.RandomString(languages),
		Description:   f.Sentence(10),
		Requirements:  f.Sentence(4),
		EventStatus:   models.EventStatusOpen,
	}
	if err := tx.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("seeding event: %w", err)
	}
	return event, nil
}
