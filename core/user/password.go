package user

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt cost used by HashPassword. Tests lower it to bcrypt.MinCost.
var hashCost = bcrypt.DefaultCost

// SetHashCost changes the bcrypt cost; out of range values fall back to bcrypt.DefaultCost.
func SetHashCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashCost = cost
}

// HashPassword returns a salted bcrypt hash of pwd.
func HashPassword(pwd string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether pwd matches hash. A malformed hash never matches.
func VerifyPassword(pwd, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil
}
