package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
	"github.com/sagedu/sage/core/user"
	"github.com/sagedu/sage/storage/database"
)

type userRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

func (repo userRepository) unboil(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
	}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		usr.Name, usr.Email, usr.PasswordHash)
	if err != nil {
		err = database.MapError(err, "inserting user")
		if errors.Is(err, core.ErrDuplicateKey) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, err
	}
	if usr.ID, err = res.LastInsertId(); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var row userRow
	err := getContext(ctx, core.GetExec(repo.exec, exec), &row,
		"SELECT id, name, email, password_hash FROM users WHERE email = ?", email)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user by email")
	}
	return repo.unboil(row), nil
}

func (repo userRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string, exec ...core.DBExecutor) error {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return checkAffected(res, err, user.ErrNotFound, "updating password")
}
