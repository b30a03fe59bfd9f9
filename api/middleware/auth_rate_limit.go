package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/veloretail/bulkcart-backend/api/responses"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/redis"
)

const rateLimitBodyLimit = 1 << 20

// AuthRateLimitPolicy caps attempts against a credential endpoint per IP and
// per submitted email within a fixed window.
type AuthRateLimitPolicy struct {
	Scope      string
	Window     time.Duration
	IPLimit    int64
	EmailLimit int64
}

// AuthRateLimit enforces the policy before the handler runs. The request body
// is restored so the downstream decoder can still read it.
func AuthRateLimit(rdb *redis.Client, policy AuthRateLimitPolicy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			ip := clientIP(r)
			if ip != "" && policy.IPLimit > 0 {
				key := rdb.RateLimitKey(policy.Scope + ":ip:" + ip)
				count, err := rdb.IncrWithTTL(ctx, key, policy.Window)
				if err != nil {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "scope", policy.Scope), "rate_limit.counter_unavailable")
					}
				} else if count > policy.IPLimit {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			if policy.EmailLimit > 0 {
				email, body := peekEmail(r)
				if body != nil {
					r.Body = io.NopCloser(bytes.NewReader(body))
				}
				if email != "" {
					sum := sha256.Sum256([]byte(strings.ToLower(email)))
					key := rdb.RateLimitKey(policy.Scope + ":email:" + hex.EncodeToString(sum[:]))
					count, err := rdb.IncrWithTTL(ctx, key, policy.Window)
					if err != nil {
						if logg != nil {
							logg.Warn(logg.WithField(ctx, "scope", policy.Scope), "rate_limit.counter_unavailable")
						}
					} else if count > policy.EmailLimit {
						responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// peekEmail reads the body to extract the email field, returning the raw
// bytes so the caller can restore them.
func peekEmail(r *http.Request) (string, []byte) {
	if r.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, rateLimitBodyLimit))
	_ = r.Body.Close()
	if err != nil {
		return "", body
	}
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", body
	}
	return strings.TrimSpace(probe.Email), body
}
