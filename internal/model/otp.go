// Package model defines domain entities for the application.
package model

import "time"

// OTPTTL is how long an issued code stays verifiable.
const OTPTTL = 10 * time.Minute

// OTPCooldown is the minimum interval between two code requests for the
// same email.
const OTPCooldown = 60 * time.Second

// OTPCode is a single-use login code. The plaintext code is never stored,
// only its digest. A code is verifiable only while unused and unexpired;
// both states are terminal.
type OTPCode struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"` // Never serialize
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the code is past its verification window.
func (c *OTPCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
