package utils

import "golang.org/x/crypto/bcrypt"

// hashCost matches the work factor the platform has always used.
const hashCost = 10

// HashSecret returns the bcrypt hash of a plaintext password.
func HashSecret(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckSecret compares a bcrypt hash with its possible plaintext equivalent.
func CheckSecret(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
