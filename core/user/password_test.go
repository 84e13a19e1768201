package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagedu/sage/core"
)

// validateTags returns the failed validation tags of s, in field order.
func validateTags(s interface{}) []string {
	var tags []string
	if vErrs, ok := core.Validate.Struct(s).(validator.ValidationErrors); ok {
		for _, fe := range vErrs {
			tags = append(tags, fe.Tag())
		}
	}
	return tags
}

func TestHashPassword(t *testing.T) {
	SetHashCost(bcrypt.MinCost)

	pwds := []string{"segredo1", "a", "çãõ é ü", "with space and 123"}
	for _, pwd := range pwds {
		t.Run(pwd, func(t *testing.T) {
			hash, err := HashPassword(pwd)
			if err != nil {
				t.Fatalf("HashPassword() error = %v", err)
			}
			if hash == pwd {
				t.Fatal("HashPassword() returned the plain password")
			}
			if !VerifyPassword(pwd, hash) {
				t.Error("VerifyPassword(pwd) = false, want true")
			}
			if VerifyPassword(pwd+"x", hash) {
				t.Error("VerifyPassword(wrong) = true, want false")
			}
		})
	}

	h1, _ := HashPassword("segredo1")
	h2, _ := HashPassword("segredo1")
	if h1 == h2 {
		t.Error("hashes are not salted")
	}
}

func TestVerifyPassword_malformedHash(t *testing.T) {
	for _, hash := range []string{"", "not a hash", "$2a$04$short"} {
		if VerifyPassword("segredo1", hash) {
			t.Errorf("VerifyPassword(%q) = true, want false", hash)
		}
	}
}

func TestNewUser_validation(t *testing.T) {
	SetHashCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		nu       NewUser
		wantTags []string
	}{
		{name: "valid", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "q1w2e3r4", PasswordConfirm: "q1w2e3r4"}},
		{name: "empty", nu: NewUser{}, wantTags: []string{"notblank", "required", "required", "required"}},
		{name: "bad email", nu: NewUser{Name: "Ana", Email: "ana", Password: "q1w2e3r4", PasswordConfirm: "q1w2e3r4"}, wantTags: []string{"email"}},
		{name: "short password", nu: NewUser{Name: "Ana", Email: "ana@escola.br", Password: "abc", PasswordConfirm: "abc"}, wantTags: []string{pwdMinLenTag}},
		{name: "mismatch", nu: NewUser{Name: "Ana", Email: "ana@escola.br", Password: "q1w2e3r4", PasswordConfirm: "q1w2e3r5"}, wantTags: []string{"eqfield"}},
		{name: "whitespace", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "minha senha", PasswordConfirm: "minha senha"}},
		{name: "similar to name", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "anasouza1", PasswordConfirm: "anasouza1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.nu.Clean()
			err := validateTags(tt.nu)
			if len(err) != len(tt.wantTags) {
				t.Fatalf("validation tags = %v, want %v", err, tt.wantTags)
			}
			for i := range err {
				if err[i] != tt.wantTags[i] {
					t.Errorf("validation tags = %v, want %v", err, tt.wantTags)
				}
			}
		})
	}
}

func TestNewUser_strictValidation(t *testing.T) {
	SetStrictPasswords(true)
	t.Cleanup(func() { SetStrictPasswords(false) })

	tests := []struct {
		name     string
		nu       NewUser
		wantTags []string
	}{
		{name: "valid", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "q1w2e3r4", PasswordConfirm: "q1w2e3r4"}},
		{name: "short password", nu: NewUser{Name: "Ana", Email: "ana@escola.br", Password: "abc", PasswordConfirm: "abc"}, wantTags: []string{pwdMinLenTag}},
		{name: "whitespace", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "minha senha", PasswordConfirm: "minha senha"}, wantTags: []string{pwdNoSpaceTag}},
		{name: "similar to name", nu: NewUser{Name: "Ana Souza", Email: "ana@escola.br", Password: "anasouza1", PasswordConfirm: "anasouza1"}, wantTags: []string{pwdAttrSimTag}},
		{name: "similar to email", nu: NewUser{Name: "Ana", Email: "anasouza@escola.br", Password: "anasouza@escola", PasswordConfirm: "anasouza@escola"}, wantTags: []string{pwdAttrSimTag}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.nu.Clean()
			tags := validateTags(tt.nu)
			if len(tags) != len(tt.wantTags) {
				t.Fatalf("validation tags = %v, want %v", tags, tt.wantTags)
			}
			for i := range tags {
				if tags[i] != tt.wantTags[i] {
					t.Errorf("validation tags = %v, want %v", tags, tt.wantTags)
				}
			}
		})
	}
}
