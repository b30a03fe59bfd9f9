package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/veloretail/bulkcart-backend/pkg/config"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/security"
)

// OTPService issues and verifies one-time codes bound to a destination
// (email or phone). Codes live in redis under a TTL; repeated bad guesses
// burn the code.
type OTPService interface {
	Send(ctx context.Context, destination string) error
	Verify(ctx context.Context, destination, code string) error
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	OTPKey(destination string) string
	OTPAttemptsKey(destination string) string
}

type otpService struct {
	store   otpStore
	logg    *logger.Logger
	cfg     config.OTPConfig
	limits  config.AuthRateLimitConfig
	devEcho bool
}

// OTPServiceParams bundles the dependencies for the OTP service.
type OTPServiceParams struct {
	Store      otpStore
	Logger     *logger.Logger
	OTPConfig  config.OTPConfig
	RateLimits config.AuthRateLimitConfig
	// DevEcho logs issued codes instead of delivering them. Dev only.
	DevEcho bool
}

// NewOTPService constructs the OTP service.
func NewOTPService(params OTPServiceParams) (OTPService, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &otpService{
		store:   params.Store,
		logg:    params.Logger,
		cfg:     params.OTPConfig,
		limits:  params.RateLimits,
		devEcho: params.DevEcho,
	}, nil
}

// Send issues a fresh code for the destination, replacing any pending one.
func (s *otpService) Send(ctx context.Context, destination string) error {
	dest := normalizeDestination(destination)
	if dest == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "destination is required")
	}

	allowed, _, err := s.store.FixedWindowAllow(ctx, "otp:"+dest, int64(s.limits.OTPLimit), s.limits.OTPWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "otp rate limit")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many codes requested")
	}

	code, err := security.GenerateOTPCode(s.cfg.Length)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate code")
	}
	if err := s.store.Set(ctx, s.store.OTPKey(dest), code, s.cfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store code")
	}
	// fresh code, fresh attempt budget
	if err := s.store.Del(ctx, s.store.OTPAttemptsKey(dest)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset attempts")
	}

	if s.devEcho {
		s.logg.Info(s.logg.WithField(ctx, "destination", dest), "issued one-time code "+code)
	}
	return nil
}

// Verify checks the code; success consumes it.
func (s *otpService) Verify(ctx context.Context, destination, code string) error {
	dest := normalizeDestination(destination)
	if dest == "" || strings.TrimSpace(code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "destination and code are required")
	}

	attempts, err := s.store.IncrWithTTL(ctx, s.store.OTPAttemptsKey(dest), s.cfg.TTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count attempt")
	}
	if attempts > int64(s.cfg.MaxAttempts) {
		// burn the code; the caller must request a new one
		if err := s.store.Del(ctx, s.store.OTPKey(dest)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "burn code")
		}
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many verification attempts")
	}

	stored, err := s.store.Get(ctx, s.store.OTPKey(dest))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired or not issued")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.store.Del(ctx, s.store.OTPKey(dest), s.store.OTPAttemptsKey(dest)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume code")
	}
	return nil
}

func normalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}
