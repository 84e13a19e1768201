package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/user"
	"github.com/sagedu/sage/storage/database"
)

func init() {
	user.SetHashCost(bcrypt.MinCost)
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// Config returns a test configuration pointing at a fresh database file.
func Config(t *testing.T) *core.Config {
	conf := new(core.Config)
	conf.AppName = "SAGE"
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")
	conf.Database.BusyTimeout = time.Second
	conf.Password.Cost = bcrypt.MinCost
	conf.Password.MinLength = 6
	conf.Export.Dir = t.TempDir()
	conf.Export.Format = "csv"
	return conf
}

// PrepareDB opens and migrates a fresh database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return PrepareDBWithConfig(t, Config(t))
}

func PrepareDBWithConfig(t *testing.T, conf *core.Config) *sqlx.DB {
	t.Helper()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string) user.User {
	t.Helper()
	usr := user.User{Name: name, Email: email}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func insert(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId() failed: %v", err)
	}
	return id
}

func CreateClass(t *testing.T, db *sqlx.DB, name string) int64 {
	return insert(t, db, "INSERT INTO classes (name) VALUES (?)", name)
}

func CreateStudent(t *testing.T, db *sqlx.DB, name string, classID int64) int64 {
	return insert(t, db, "INSERT INTO students (name, class_id) VALUES (?, ?)", name, classID)
}

// CreateLesson inserts a lesson and marks the given students, present[i] for students[i].
func CreateLesson(t *testing.T, db *sqlx.DB, classID int64, date, topic string, students []int64, present []bool) int64 {
	id := insert(t, db, "INSERT INTO lessons (class_id, date, topic) VALUES (?, ?, ?)", classID, date, topic)
	for i, st := range students {
		insert(t, db, "INSERT INTO attendance (lesson_id, student_id, present) VALUES (?, ?, ?)", id, st, present[i])
	}
	return id
}

func Count(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.Get(&n, query, args...); err != nil {
		t.Fatalf("%s failed: %v", query, err)
	}
	return n
}
