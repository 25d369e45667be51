package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/commercia/commercia-backend/internal/apperrors"
)

// bcryptCost matches the salt rounds used when the user base was created.
const bcryptCost = 10

// HashPassword hashes a password with bcrypt. The salt is embedded in the
// returned digest.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a stored digest. A mismatch is
// (false, nil); an error is returned only when the digest itself is
// malformed, which should never happen for hashes we produced.
func VerifyPassword(password, hashedPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, apperrors.Hash("malformed password hash: " + err.Error())
}
