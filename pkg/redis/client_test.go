package redis

import (
	"testing"
	"time"

	"github.com/veloretail/bulkcart-backend/pkg/config"
)

func TestBuildKeyNamespacing(t *testing.T) {
	t.Parallel()

	c := &Client{}
	if got := c.SessionKey("abc"); got != "bc:session:abc" {
		t.Fatalf("unexpected session key: %s", got)
	}
	if got := c.OTPKey("user@example.com"); got != "bc:otp:user@example.com" {
		t.Fatalf("unexpected otp key: %s", got)
	}
	if got := c.OTPAttemptsKey("user@example.com"); got != "bc:otp:user@example.com:attempts" {
		t.Fatalf("unexpected otp attempts key: %s", got)
	}
	if got := c.RateLimitKey("login:ip:10.0.0.1"); got != "bc:rate_limit:login:ip:10.0.0.1" {
		t.Fatalf("unexpected rate limit key: %s", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address set")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:      "localhost:6379",
		PoolSize:     5,
		MinIdleConns: 1,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@example.com:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "example.com:6380" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
