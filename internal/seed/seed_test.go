package seed_test

import (
	"testing"

	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/seed"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/internal/testutil"
	"github.com/hugh/raid-finder/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := testutil.TestContext(t)
	st := store.New(db)

	res, err := seed.New(st, util.DiscardLogger()).Run(ctx, seed.Options{Users: 5, Seed: 42})
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	assert.Len(t, users, 5)
	assert.Equal(t, 5, res.Users)

	characters := 0
	jobs := 0
	for _, u := range users {
		assert.Equal(t, models.StatusActive, u.Status)
		assert.True(t, auth.CheckPassword(seed.Password, u.PasswordHash))

		chars, err := st.ListCharactersForUser(ctx, u.ID, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(chars), 1)
		assert.LessOrEqual(t, len(chars), 3)
		characters += len(chars)

		for _, c := range chars {
			links, err := st.ListJobsForCharacter(ctx, c.ID, false)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(links), 1)
			assert.LessOrEqual(t, len(links), 3)
			jobs += len(links)
		}
	}
	assert.Equal(t, res.Characters, characters)
	assert.Equal(t, res.Jobs, jobs)

	t.Run("event and roster", func(t *testing.T) {
		require.NotNil(t, res.Event)
		event, err := st.GetEvent(ctx, res.Event.ID)
		require.NoError(t, err)
		assert.True(t, event.IsOpen())

		roster, err := st.ListRoster(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, roster, 4)
		assert.Equal(t, res.RosterEntries, len(roster))

		for _, entry := range roster {
			assert.NotEqual(t, event.LeaderID, entry.UserID)
			assert.True(t, models.IsValidRole(entry.Role))

			owns, err := st.UserOwnsCharacter(ctx, entry.UserID, entry.CharacterID)
			require.NoError(t, err)
			assert.True(t, owns)
		}
	})
}

func TestSeeder_SingleUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	res, err := seed.New(store.New(db), util.DiscardLogger()).Run(testutil.TestContext(t), seed.Options{Users: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Users)
	assert.Zero(t, res.RosterEntries)
}

func TestSeeder_NoUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	_, err := seed.New(store.New(db), util.DiscardLogger()).Run(testutil.TestContext(t), seed.Options{Users: 0})
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
