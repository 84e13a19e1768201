package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/fs"
)

const (
	driverName     = "sqlite3"
	migrationsDir  = "migrations"
	defaultTimeout = 5000 // ms
)

// mockable
var gooseRunFunc = goose.Run

func init() {
	goose.SetBaseFS(appfs.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(driverName); err != nil {
		panic(err)
	}
}

func dsn(conf *core.Config) string {
	timeout := conf.Database.BusyTimeout.Milliseconds()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	q := make(url.Values)
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", fmt.Sprint(timeout))
	path := (&url.URL{Path: conf.Database.Path}).EscapedPath()
	return "file:" + path + "?" + q.Encode()
}

// Open connects to the database file at conf.Database.Path, creating it if needed.
// An unusable file is reported as a core.ErrConnection DBError.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn(conf))
	if err != nil {
		return nil, &core.DBError{Kind: core.ErrConnection, Err: err}
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, &core.DBError{Kind: core.ErrConnection, Err: err}
	}
	return db, nil
}

// Migrate creates every table that does not exist yet. Existing data is kept.
func Migrate(db *sqlx.DB) error {
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		return MapError(err, "migrating database")
	}
	return nil
}

// RunMigration runs a goose command (up, down, status, ...) against db and prints its report to out.
func RunMigration(db *sqlx.DB, out io.Writer, command string, args ...string) error {
	goose.SetLogger(log.New(out, "", 0))
	defer goose.SetLogger(goose.NopLogger())
	return gooseRunFunc(command, db.DB, migrationsDir, args...)
}

// MapError ties driver errors to the core error kinds. Other errors are wrapped with msg.
func MapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.WithStack(core.ErrNotFound)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return &core.DBError{Kind: core.ErrDuplicateKey, Err: err}
		case sqliteErr.Code == sqlite3.ErrBusy,
			sqliteErr.Code == sqlite3.ErrLocked,
			sqliteErr.Code == sqlite3.ErrCantOpen,
			sqliteErr.Code == sqlite3.ErrNotADB,
			sqliteErr.Code == sqlite3.ErrIoErr,
			sqliteErr.Code == sqlite3.ErrReadonly:
			return &core.DBError{Kind: core.ErrConnection, Err: err}
		}
	}
	return errors.Wrap(err, msg)
}
