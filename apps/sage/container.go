package main

import (
	"io"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/attendance"
	"github.com/sagedu/sage/core/report"
	"github.com/sagedu/sage/core/school"
	"github.com/sagedu/sage/core/user"
	logsvc "github.com/sagedu/sage/services/logger"
	"github.com/sagedu/sage/storage/database"
	sqlxrepos "github.com/sagedu/sage/storage/database/sqlx"
)

type stdio struct {
	dig.Out

	Stdin  io.Reader `name:"stdin"`
	Stdout io.Writer `name:"stdout"`
}

func newStdio() stdio {
	return stdio{Stdin: os.Stdin, Stdout: os.Stdout}
}

func newLogger(conf *core.Config) (*logsvc.RollbarLogger, core.Logger) {
	std := log.New(os.Stderr, "SAGE : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(std, conf)
	return logger, logger
}

// newDB opens the database file and creates its tables when missing.
func newDB(conf *core.Config) (*sqlx.DB, core.DB, core.DBExecutor, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return db, db, db, nil
}

// applyConfig sets the package level settings that depend on the configuration.
func applyConfig(conf *core.Config) {
	user.SetHashCost(conf.Password.Cost)
	user.SetPasswordMinLength(conf.Password.MinLength)
	user.SetStrictPasswords(conf.Password.Strict)
}

// newContainer returns a dig.Container providing every dependency of the CLI.
func newContainer(newConfig func() *core.Config) (*dig.Container, error) {
	c := dig.New()

	providers := []struct {
		constructor interface{}
		opts        []dig.ProvideOption
	}{
		{constructor: newConfig},
		{constructor: newStdio},
		{constructor: newLogger},
		{constructor: newDB},
		{constructor: sqlxrepos.NewUserRepository, opts: []dig.ProvideOption{dig.As(new(user.Repository))}},
		{constructor: sqlxrepos.NewSchoolRepository, opts: []dig.ProvideOption{dig.As(new(school.Repository))}},
		{constructor: sqlxrepos.NewAttendanceRepository, opts: []dig.ProvideOption{dig.As(new(attendance.Repository))}},
		{constructor: sqlxrepos.NewReportRepository, opts: []dig.ProvideOption{dig.As(new(report.Repository))}},
		{constructor: user.NewService},
		{constructor: school.NewService},
		{constructor: attendance.NewService},
		{constructor: report.NewService},
		{constructor: newCommandLine},
	}
	for _, p := range providers {
		if err := c.Provide(p.constructor, p.opts...); err != nil {
			return nil, errors.Wrap(err, "failed to provide dependency")
		}
	}
	return c, nil
}
