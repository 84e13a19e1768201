package core

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}
	vErrs := Validate.Struct(payload{})

	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "nil", err: nil, want: UnexpectedFailure},
		{name: "plain", err: errors.New("boom"), want: UnexpectedFailure},
		{name: "connection", err: &DBError{Kind: ErrConnection, Err: errors.New("database is locked")}, want: ConnectionFailure},
		{name: "wrapped connection", err: errors.Wrap(&DBError{Kind: ErrConnection}, "opening"), want: ConnectionFailure},
		{name: "duplicate", err: &DBError{Kind: ErrDuplicateKey, Field: "email"}, want: DuplicateKey},
		{name: "std wrapped duplicate", err: fmt.Errorf("inserting: %w", &DBError{Kind: ErrDuplicateKey}), want: DuplicateKey},
		{name: "not found", err: errors.WithStack(ErrNotFound), want: NotFound},
		{name: "empty dataset", err: ErrEmptyDataset, want: EmptyDataset},
		{name: "validation error", err: NewValidationError(nil, FieldError{Field: "name", Error: "required"}), want: ValidationFailure},
		{name: "validator errors", err: vErrs, want: ValidationFailure},
		{name: "wrapped validator errors", err: errors.Wrap(vErrs, "validating"), want: ValidationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDBError_Error(t *testing.T) {
	assert.Equal(t, "duplicate key", (&DBError{Kind: ErrDuplicateKey}).Error())
	assert.Equal(t, "duplicate key: UNIQUE constraint failed: users.email",
		(&DBError{Kind: ErrDuplicateKey, Err: errors.New("UNIQUE constraint failed: users.email")}).Error())
	assert.Equal(t, "a user with this email already exists",
		(&DBError{Kind: ErrDuplicateKey, Msg: "a user with this email already exists"}).Error())
}

func TestTranslateValidationErrors(t *testing.T) {
	type payload struct {
		Name  string `json:"name" validate:"notblank"`
		Email string `json:"email" validate:"required,email"`
	}
	err := Validate.Struct(payload{Name: "  ", Email: "nope"})

	flds := TranslateValidationErrors(err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Error: "this field cannot be blank"},
		{Field: "email", Error: "email must be a valid email address"},
	}, flds)

	flds = TranslateValidationErrors(NewValidationError(errors.New("passwords do not match")))
	assert.Equal(t, []FieldError{{Error: "passwords do not match"}}, flds)

	assert.Nil(t, TranslateValidationErrors(errors.New("boom")))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Ana Souza", CleanString("  Ana Souza \n"))
	assert.Equal(t, "ana@escola.com", CleanString(" Ana@Escola.com ", true))
}
