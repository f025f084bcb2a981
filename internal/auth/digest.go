package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Digest returns a deterministic SHA-256 digest of the plaintext,
// base64-encoded. No salt: identical inputs always produce identical
// digests. Used for OTP codes at rest and for verifying legacy password
// hashes; new passwords go through HashPassword instead.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyDigest recomputes Digest(plaintext) and compares it against the
// stored digest in constant time.
func VerifyDigest(plaintext, digest string) bool {
	computed := Digest(plaintext)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// otpRange is the span of valid codes: 100000..999999 inclusive.
const (
	otpMin   = 100000
	otpRange = 900000
)

// GenerateOTP returns a uniformly random 6-digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
