package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword fails with bcrypt.ErrPasswordTooLong past 72 bytes instead of
// truncating.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
