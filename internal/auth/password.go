package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost mirrors the historical salt rounds used for existing digests.
const bcryptCost = 10

// HashPassword produces a one-way digest of the plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// The comparison is constant-time via bcrypt's comparator.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
