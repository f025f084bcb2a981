// Package auth provides token signing, credential hashing, and request
// identity plumbing.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing secret length in bytes. A short
// secret weakens the HMAC; refuse to start with one.
const MinSecretLen = 32

var (
	// ErrInvalidToken is returned for every verification failure: bad
	// structure, bad encoding, bad signature, or malformed claims. Callers
	// must not learn which.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakSecret indicates the signing secret is missing or too short.
	ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
)

// Claims are the identity facts embedded in a token.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
}

// tokenClaims is the internal claims type used for JWT round-trips.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens. Tokens are HS256 JWTs: two
// base64url segments (header, claims) plus an HMAC-SHA256 tag, joined by
// dots. Tokens carry no expiry; validity is purely signature-based.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec. Returns ErrWeakSecret for an absent or short
// secret; treat that as fatal at startup.
func NewCodec(secret string) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Sign produces a signed token for the given claims. Deterministic:
// identical claims always yield an identical token.
func (c *Codec) Sign(claims Claims) (string, error) {
	tc := tokenClaims{
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: claims.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and returns its claims. All failure
// classes collapse into ErrInvalidToken; Verify never panics and never
// reports why a token was rejected.
func (c *Codec) Verify(token string) (Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID: tc.Subject,
		Email:  tc.Email,
	}, nil
}
