package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agenthub/agenthub/internal/model"
)

// ErrOTPCodeNotFound indicates no matching unused, unexpired code exists.
var ErrOTPCodeNotFound = errors.New("otp code not found")

// CreateOTPCode inserts a freshly issued code.
func (r *Repository) CreateOTPCode(ctx context.Context, code *model.OTPCode) error {
	query := `
		INSERT INTO otp_codes (id, email, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		code.ID,
		code.Email,
		code.CodeHash,
		code.ExpiresAt,
		code.Used,
		code.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create otp code: %w", err)
	}

	return nil
}

// FindValidOTPCode returns the newest unused, unexpired code matching the
// email and code digest.
func (r *Repository) FindValidOTPCode(ctx context.Context, email, codeHash string, now time.Time) (*model.OTPCode, error) {
	query := `
		SELECT id, email, code_hash, expires_at, used, created_at
		FROM otp_codes
		WHERE email = $1 AND code_hash = $2 AND used = false AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code model.OTPCode
	err := r.pool.QueryRow(ctx, query, email, codeHash, now).Scan(
		&code.ID,
		&code.Email,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.Used,
		&code.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPCodeNotFound
		}
		return nil, fmt.Errorf("failed to find otp code: %w", err)
	}

	return &code, nil
}

// ConsumeOTPCode marks a code used, but only if it is currently unused.
// The conditional update closes the race where two concurrent verify
// attempts could both succeed on the same code. Returns ErrOTPCodeNotFound
// when the code was already consumed.
func (r *Repository) ConsumeOTPCode(ctx context.Context, id string) error {
	query := `
		UPDATE otp_codes
		SET used = true
		WHERE id = $1 AND used = false
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to consume otp code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOTPCodeNotFound
	}

	return nil
}

// DeleteExpiredOTPCodes clears codes past their window. Housekeeping only;
// expired codes are already unverifiable.
func (r *Repository) DeleteExpiredOTPCodes(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM otp_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otp codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
