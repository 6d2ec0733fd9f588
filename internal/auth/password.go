package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor for password hashing.
const BcryptCost = 12

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 6

// HashPassword derives a salted bcrypt hash from a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
