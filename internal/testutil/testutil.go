package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
	"github.com/hugh/raid-finder/pkg/crypto"
	"github.com/hugh/raid-finder/pkg/session"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	SessionName  = "raidfinder_session"
	TestPassword = "testpassword123"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// One connection keeps every query on the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := database.Close(db); err != nil {
		t.Logf("warning: failed to close test database: %v", err)
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewSessionStore returns a cookie session store with fixed test keys.
func NewSessionStore() *session.Store {
	hashKey, blockKey := crypto.SessionKeys("test-secret-key-for-testing")
	return session.NewCookieStore(SessionName, session.Options{MaxAge: 3600}, hashKey, blockKey)
}

// CreateTestUser creates an active user with TestPassword.
func CreateTestUser(t *testing.T, st *store.Store, username string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        username + "-" + uuid.New().String()[:8] + "@example.com",
		Username:     username + "-" + uuid.New().String()[:8],
		PasswordHash: hash,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestCharacter creates a character linked to user.
func CreateTestCharacter(t *testing.T, st *store.Store, user *models.User, name string) *models.Character {
	t.Helper()

	ctx := context.Background()
	char := &models.Character{Name: name, Race: "Miqo'te"}
	if err := st.CreateCharacter(ctx, char); err != nil {
		t.Fatalf("failed to create test character: %v", err)
	}
	if _, err := st.LinkUserCharacter(ctx, user.ID, char.ID); err != nil {
		t.Fatalf("failed to link test character: %v", err)
	}

	return char
}

// CreateTestJob creates a job linked to char.
func CreateTestJob(t *testing.T, st *store.Store, char *models.Character, job string, level int) (*models.Job, *models.CharacterJob) {
	t.Helper()

	ctx := context.Background()
	j := &models.Job{Job: job, Level: level, Realm: "Gilgamesh"}
	if err := st.CreateJob(ctx, j); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	link, err := st.LinkCharacterJob(ctx, char.ID, j.ID)
	if err != nil {
		t.Fatalf("failed to link test job: %v", err)
	}

	return j, link
}

// CreateTestEvent creates an open event led by leader a week from now.
func CreateTestEvent(t *testing.T, st *store.Store, leader *models.User) *models.Event {
	t.Helper()

	start := time.Now().UTC().AddDate(0, 0, 7)
	event := &models.Event{
		LeaderID:      leader.ID,
		StartDate:     datatypes.Date(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)),
		StartTime:     datatypes.NewTime(20, 0, 0, 0),
		StartTimezone: "UTC",
		Language:      "English",
		Description:   "Savage clear party",
		EventStatus:   models.EventStatusOpen,
	}
	if err := st.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}

	return event
}

// FormRequest builds a urlencoded form request carrying the given cookies.
func FormRequest(method, path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	return req
}

// SessionCookie returns the last session cookie the response set, or nil.
func SessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionName {
			found = c
		}
	}
	return found
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB       *gorm.DB
	Store    *store.Store
	Auth     *auth.Service
	Sessions *auth.Sessions
	User     *models.User
	Cookie   *http.Cookie
}

// NewTestContext creates a test setup with DB, services and a signed-in user.
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	st := store.New(db)
	ts := &TestSetup{
		DB:       db,
		Store:    st,
		Auth:     auth.NewService(st),
		Sessions: auth.NewSessions(NewSessionStore()),
	}
	ts.User = CreateTestUser(t, st, "tester")
	ts.Cookie = ts.Login(t, ts.User)

	return ts
}

// Login returns a session cookie signed in as user.
func (ts *TestSetup) Login(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	if err := ts.Sessions.Login(rr, req, user.ID); err != nil {
		t.Fatalf("failed to log in: %v", err)
	}

	cookie := SessionCookie(rr)
	if cookie == nil {
		t.Fatal("login did not set a session cookie")
	}
	return cookie
}

// CSRFToken returns the token stored in the session behind cookie.
func (ts *TestSetup) CSRFToken(cookie *http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	return ts.Sessions.SessionCSRFToken(req)
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		_ = database.Close(ts.DB)
	}
}
