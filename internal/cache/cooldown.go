package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// otpCooldownPrefix is the Redis key prefix for OTP request cooldowns.
const otpCooldownPrefix = "otp:cooldown:"

// ClaimOTPCooldown atomically claims the cooldown slot for an email.
// Returns false when a code was already issued within the window, in which
// case the caller must reject the request as rate limited. Uses SET NX so
// two concurrent requests for the same email cannot both claim the slot.
func (c *Cache) ClaimOTPCooldown(ctx context.Context, email string, window time.Duration) (bool, error) {
	key := otpCooldownPrefix + hashEmail(email)

	ok, err := c.client.SetNX(ctx, key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("claim otp cooldown: %w", err)
	}
	return ok, nil
}

// ClearOTPCooldown releases the cooldown slot. Test and admin use only.
func (c *Cache) ClearOTPCooldown(ctx context.Context, email string) error {
	return c.client.Del(ctx, otpCooldownPrefix+hashEmail(email)).Err()
}

// hashEmail creates a truncated SHA256 hash of an email address so raw
// addresses never appear in Redis keys.
func hashEmail(email string) string {
	hash := sha256.Sum256([]byte(email))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
