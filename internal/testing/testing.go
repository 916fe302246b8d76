// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/rosterx/internal/models"
	"github.com/desertthunder/rosterx/internal/repositories"
	"github.com/desertthunder/rosterx/internal/shared"
)

// MustOpenDB opens an in-memory SQLite database with all migrations applied and closes it on cleanup.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// MustCreateUser inserts a user with the given email.
func MustCreateUser(t *testing.T, db *sql.DB, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(0, email, name)
	if err := repositories.NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// MustCreateRoster inserts a roster member on teamID, applying opts before the insert.
func MustCreateRoster(t *testing.T, db *sql.DB, teamID, ownerID, name string, opts ...func(*models.Roster)) *models.Roster {
	t.Helper()
	member := models.NewRoster(0, teamID, ownerID, name)
	for _, opt := range opts {
		opt(member)
	}
	if err := repositories.NewRosterRepository(db).Create(member); err != nil {
		t.Fatalf("failed to create roster %s: %v", name, err)
	}
	return member
}

// TestConfig returns the embedded default configuration pointed at an in-memory database.
func TestConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	cfg.Database.Path = ":memory:"
	return cfg
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// Clock is a settable time source for services that accept a now func.
type Clock struct {
	T time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{T: t} }

func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
