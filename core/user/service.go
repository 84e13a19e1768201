package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sagedu/sage/core"
)

var (
	// errors
	ErrNotFound           = errors.Wrap(core.ErrNotFound, "user")
	ErrInvalidCredentials = errors.New("email or password incorrect")
	ErrEmailExists        = &core.DBError{Kind: core.ErrDuplicateKey, Field: "email", Msg: "a user with this email already exists"}
)

type (
	Repository interface {
		// CreateUser inserts usr and returns it with its new ID.
		// A taken email is reported as ErrEmailExists.
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		UpdatePasswordHash(ctx context.Context, id int64, hash string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Register validates nu and creates the new User.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := core.Validate.Struct(nu); err != nil {
		return User{}, err
	}

	usr := User{Name: nu.Name, Email: nu.Email}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.logger.Info("user registered", usr)
	return usr, nil
}

// Authenticate returns the User matching the given Credentials.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	creds.Clean()
	if err := core.Validate.Struct(creds); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !usr.CheckPassword(creds.Password) {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// ChangePassword replaces the password of the User identified by cp.Email.
func (svc *Service) ChangePassword(ctx context.Context, cp ChangePassword) error {
	cp.Email = core.CleanString(cp.Email, true /* lower */)
	if err := core.Validate.Struct(cp); err != nil {
		return err
	}

	usr, err := svc.Authenticate(ctx, Credentials{Email: cp.Email, Password: cp.CurrentPassword})
	if err != nil {
		return err
	}
	if err := usr.SetPassword(cp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err := svc.repo.UpdatePasswordHash(ctx, usr.ID, usr.PasswordHash); err != nil {
		return err
	}
	svc.logger.Info("password changed", usr)
	return nil
}
