package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrConnection   = errors.New("database unavailable")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrEmptyDataset = errors.New("no data to export")
)

// DBError ties a driver error to one of ErrConnection, ErrDuplicateKey or ErrNotFound.
type DBError struct {
	Kind  error
	Field string // offending column, if known
	Msg   string // user facing message, if any
	Err   error
}

func (err *DBError) Error() string {
	if err.Msg != "" {
		return err.Msg
	}
	if err.Err == nil {
		return err.Kind.Error()
	}
	return err.Kind.Error() + ": " + err.Err.Error()
}

func (err *DBError) Is(target error) bool { return target == err.Kind }
func (err *DBError) Unwrap() error        { return err.Err }

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation failed"
	}
	return err.Err.Error()
}

type FailureKind int

const (
	UnexpectedFailure FailureKind = iota
	ConnectionFailure
	DuplicateKey
	ValidationFailure
	EmptyDataset
	NotFound
)

func (k FailureKind) String() string {
	switch k {
	case ConnectionFailure:
		return "connection failure"
	case DuplicateKey:
		return "duplicate key"
	case ValidationFailure:
		return "validation failure"
	case EmptyDataset:
		return "empty dataset"
	case NotFound:
		return "not found"
	default:
		return "unexpected failure"
	}
}

// Classify maps any error returned by the core services to its FailureKind.
func Classify(err error) FailureKind {
	var (
		vErr  *ValidationError
		vErrs validator.ValidationErrors
	)
	switch {
	case err == nil:
		return UnexpectedFailure
	case errors.As(err, &vErr), errors.As(err, &vErrs):
		return ValidationFailure
	case errors.Is(err, ErrConnection):
		return ConnectionFailure
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateKey
	case errors.Is(err, ErrEmptyDataset):
		return EmptyDataset
	case errors.Is(err, ErrNotFound):
		return NotFound
	default:
		return UnexpectedFailure
	}
}
