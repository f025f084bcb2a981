package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/agenthub/agenthub/internal/auth"
	"github.com/agenthub/agenthub/internal/cache"
	"github.com/agenthub/agenthub/internal/metrics"
	"github.com/agenthub/agenthub/internal/model"
	"github.com/agenthub/agenthub/internal/oauth"
	"github.com/agenthub/agenthub/internal/repository"
)

// IdentityStore is the subset of the repository the auth flows need.
type IdentityStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	CreateOTPCode(ctx context.Context, code *model.OTPCode) error
	FindValidOTPCode(ctx context.Context, email, codeHash string, now time.Time) (*model.OTPCode, error)
	ConsumeOTPCode(ctx context.Context, id string) error
}

// CooldownStore gates OTP issuance frequency.
type CooldownStore interface {
	ClaimOTPCooldown(ctx context.Context, email string, window time.Duration) (bool, error)
}

// DeliveryQueue accepts fire-and-forget OTP delivery jobs.
type DeliveryQueue interface {
	EnqueueDelivery(ctx context.Context, job cache.DeliveryJob) error
}

// LoginResult is the outcome of any successful login flow.
type LoginResult struct {
	Token string
	User  *model.User
}

// AuthService orchestrates the three login flows. Every flow ends in the
// same postcondition: a user row exists and a signed token is returned.
type AuthService struct {
	store    IdentityStore
	cooldown CooldownStore
	queue    DeliveryQueue
	provider oauth.Provider
	codec    *auth.Codec
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(
	store IdentityStore,
	cooldown CooldownStore,
	queue DeliveryQueue,
	provider oauth.Provider,
	codec *auth.Codec,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:    store,
		cooldown: cooldown,
		queue:    queue,
		provider: provider,
		codec:    codec,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
	}
}

// LoginWithOAuth exchanges an authorization code with the identity
// provider, finds or creates the matching user, and signs a token.
// Retrying after a partial failure is idempotent: a second exchange for
// the same email finds the already-created user.
func (s *AuthService) LoginWithOAuth(ctx context.Context, code, redirectURI string) (*LoginResult, error) {
	start := s.now()
	defer func() { s.metrics.ObserveLoginDuration(time.Since(start)) }()

	profile, err := s.provider.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		s.metrics.IncLogin("oauth", "failure")
		s.logger.Warn("oauth exchange failed", slog.String("error", err.Error()))
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetOrCreateUser(ctx, &model.User{
		ID:         ulid.Make().String(),
		Email:      profile.Email,
		Name:       profile.Name,
		PictureURL: profile.Picture,
	})
	if err != nil {
		s.metrics.IncLogin("oauth", "failure")
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	return s.issueToken(user, "oauth")
}

// LoginWithPassword verifies an email/password pair. Unknown email, no
// password set, and wrong password all fail identically.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	start := s.now()
	defer func() { s.metrics.ObserveLoginDuration(time.Since(start)) }()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin("password", "failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !user.HasPassword() {
		s.metrics.IncLogin("password", "failure")
		return nil, ErrInvalidCredentials
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin("password", "failure")
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user, "password")
}

// Register creates an account with a password credential and signs a
// token for it.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*LoginResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueToken(user, "password")
}

// RequestOTP issues a one-time code for the email unless one was issued
// within the cooldown window. Delivery is queued fire-and-forget; a
// delivery failure never reaches the caller.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	ok, err := s.cooldown.ClaimOTPCooldown(ctx, email, model.OTPCooldown)
	if err != nil {
		return fmt.Errorf("claim cooldown: %w", err)
	}
	if !ok {
		s.metrics.IncOTPRateLimited()
		return ErrRateLimited
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := s.now()
	record := &model.OTPCode{
		ID:        ulid.Make().String(),
		Email:     email,
		CodeHash:  auth.Digest(code),
		ExpiresAt: now.Add(model.OTPTTL),
		Used:      false,
		CreatedAt: now,
	}

	if err := s.store.CreateOTPCode(ctx, record); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	s.metrics.IncOTPIssued()

	if err := s.queue.EnqueueDelivery(ctx, cache.DeliveryJob{Email: email, Code: code}); err != nil {
		// Fire-and-forget: the code is issued either way.
		s.logger.Error("enqueue otp delivery failed", slog.String("error", err.Error()))
	}

	return nil
}

// VerifyOTP consumes a one-time code and logs the email in. A code can
// succeed at most once: consumption is a conditional update, so of two
// concurrent verifications one loses and fails like any stale code.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	start := s.now()
	defer func() { s.metrics.ObserveLoginDuration(time.Since(start)) }()

	record, err := s.store.FindValidOTPCode(ctx, email, auth.Digest(code), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrOTPCodeNotFound) {
			s.metrics.IncLogin("otp", "failure")
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("look up code: %w", err)
	}

	if err := s.store.ConsumeOTPCode(ctx, record.ID); err != nil {
		if errors.Is(err, repository.ErrOTPCodeNotFound) {
			// Lost the race to a concurrent verification.
			s.metrics.IncLogin("otp", "failure")
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("consume code: %w", err)
	}

	user, err := s.store.GetOrCreateUser(ctx, &model.User{
		ID:    ulid.Make().String(),
		Email: email,
	})
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	return s.issueToken(user, "otp")
}

func (s *AuthService) issueToken(user *model.User, flow string) (*LoginResult, error) {
	token, err := s.codec.Sign(auth.Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		s.metrics.IncLogin(flow, "failure")
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.metrics.IncLogin(flow, "success")
	s.logger.Info("login",
		slog.String("flow", flow),
		slog.String("user_id", user.ID),
	)

	return &LoginResult{Token: token, User: user}, nil
}
