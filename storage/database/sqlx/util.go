package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/storage/database"
)

func getContext(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, exec, dest, query, args...)
}

func selectContext(ctx context.Context, exec core.DBExecutor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, exec, dest, query, args...)
}

// trapNoRowsErr maps sqlite "no rows" err to notFound
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return database.MapError(err, msg)
}

// checkAffected reports notFound when a write touched no row.
func checkAffected(res sql.Result, err, notFound error, msg string) error {
	if err != nil {
		return database.MapError(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func lastInsertID(res sql.Result, err error, msg string) (int64, error) {
	if err != nil {
		return 0, database.MapError(err, msg)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, msg)
	}
	return id, nil
}
