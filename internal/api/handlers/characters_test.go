package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterHandler_Create(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	t.Run("creates and links", func(t *testing.T) {
		rr := post(router, "/characters/new", url.Values{
			"name":        {"Thancred Waters"},
			"race":        {"Hyur"},
			"profile_url": {"https://na.finalfantasyxiv.com/lodestone/character/1/"},
		}, tc.Cookie)

		require.Equal(t, http.StatusSeeOther, rr.Code, "Body: %s", rr.Body.String())
		location := rr.Header().Get("Location")
		require.True(t, strings.HasPrefix(location, "/characters/"))

		id := uuid.MustParse(strings.TrimPrefix(location, "/characters/"))
		owns, err := tc.Store.UserOwnsCharacter(ctx, tc.User.ID, id)
		require.NoError(t, err)
		assert.True(t, owns)

		char, err := tc.Store.GetCharacter(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Thancred Waters", char.Name)
		assert.Equal(t, models.StatusActive, char.Status)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			form url.Values
			want string
		}{
			{"missing name", url.Values{"race": {"Hyur"}}, "This field is required."},
			{"unknown race", url.Values{"name": {"Zenos"}, "race": {"Garlean"}}, "Not a valid choice."},
			{"bad url", url.Values{"name": {"Zenos"}, "race": {"Hyur"}, "profile_url": {"ftp://x"}}, "Invalid URL."},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := post(router, "/characters/new", tt.form, tc.Cookie)

				assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
				assert.Contains(t, rr.Body.String(), tt.want)
			})
		}

		chars, err := tc.Store.ListCharactersForUser(ctx, tc.User.ID, true)
		require.NoError(t, err)
		assert.Len(t, chars, 1)
	})
}

func TestCharacterHandler_Ownership(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()

	other := testutil.CreateTestUser(t, tc.Store, "other")
	theirs := testutil.CreateTestCharacter(t, tc.Store, other, "Estinien")
	mine := testutil.CreateTestCharacter(t, tc.Store, tc.User, "Alphinaud")
	testutil.CreateTestJob(t, tc.Store, mine, "Sage", 90)

	t.Run("owner sees detail and jobs", func(t *testing.T) {
		rr := get(router, "/characters/"+mine.ID.String(), tc.Cookie)

		assert.Equal(t, http.StatusOK, rr.Code, "Body: %s", rr.Body.String())
		assert.Contains(t, rr.Body.String(), "Alphinaud")
		assert.Contains(t, rr.Body.String(), "Sage")
	})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"show", http.MethodGet, "/characters/" + theirs.ID.String()},
		{"edit page", http.MethodGet, "/characters/" + theirs.ID.String() + "/edit"},
		{"update", http.MethodPost, "/characters/" + theirs.ID.String() + "/edit"},
		{"retire", http.MethodPost, "/characters/" + theirs.ID.String() + "/retire"},
		{"unlink", http.MethodPost, "/characters/" + theirs.ID.String() + "/unlink"},
		{"new job", http.MethodGet, "/characters/" + theirs.ID.String() + "/jobs/new"},
		{"malformed id", http.MethodGet, "/characters/not-a-uuid"},
		{"missing", http.MethodGet, "/characters/" + uuid.New().String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"name": {"Stolen"}, "race": {"Elezen"}}
			rr := serve(router, testutil.FormRequest(tt.method, tt.path, form, tc.Cookie))

			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}

	char, err := tc.Store.GetCharacter(testutil.TestContext(t), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Estinien", char.Name)
	assert.Equal(t, models.StatusActive, char.Status)
}

func TestCharacterHandler_Update(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	char := testutil.CreateTestCharacter(t, tc.Store, tc.User, "Alisaie")
	path := "/characters/" + char.ID.String()

	rr := get(router, path+"/edit", tc.Cookie)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="Alisaie"`)

	rr = post(router, path+"/edit", url.Values{"name": {"Alisaie Leveilleur"}, "race": {"Elezen"}}, tc.Cookie)
	requireRedirect(t, rr, path)

	got, err := tc.Store.GetCharacter(ctx, char.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alisaie Leveilleur", got.Name)
	assert.Equal(t, "Elezen", got.Race)
	assert.Equal(t, char.CreatedAt.Unix(), got.CreatedAt.Unix())

	rr = post(router, path+"/edit", url.Values{"name": {""}, "race": {"Elezen"}}, tc.Cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCharacterHandler_RetireAndUnlink(t *testing.T) {
	router, tc := setupTestRouter(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	retired := testutil.CreateTestCharacter(t, tc.Store, tc.User, "Urianger")
	rr := post(router, "/characters/"+retired.ID.String()+"/retire", nil, tc.Cookie)
	requireRedirect(t, rr, "/characters")

	got, err := tc.Store.GetCharacter(ctx, retired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, got.Status)

	rr = get(router, "/characters", tc.Cookie)
	assert.Contains(t, rr.Body.String(), "INACTIVE")

	removed := testutil.CreateTestCharacter(t, tc.Store, tc.User, "Minfilia")
	rr = post(router, "/characters/"+removed.ID.String()+"/unlink", nil, tc.Cookie)
	requireRedirect(t, rr, "/characters")

	owns, err := tc.Store.UserOwnsCharacter(ctx, tc.User.ID, removed.ID)
	require.NoError(t, err)
	assert.False(t, owns)

	_, err = tc.Store.GetCharacter(ctx, removed.ID)
	assert.NoError(t, err, "unlinking keeps the character row")
}
