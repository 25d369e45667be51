package services

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// VerificationCodeTTL is how long an emailed verification code stays valid.
const VerificationCodeTTL = time.Hour

var codeRange = big.NewInt(90000000)

// GenerateVerificationCode returns an 8-digit numeric code uniformly
// distributed over [10000000, 99999999] and its expiry timestamp. Codes
// are not unique across users; email plus code forms the lookup key.
func GenerateVerificationCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", time.Time{}, err
	}
	code := strconv.FormatInt(n.Int64()+10000000, 10)
	return code, time.Now().Add(VerificationCodeTTL), nil
}
