package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/classwish/classwish-backend/api/responses"
	pkgerrors "github.com/classwish/classwish-backend/pkg/errors"
	"github.com/classwish/classwish-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy defines the throttling parameters for a traffic surface.
// A policy with no window or no positive limit disables the middleware.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

type authLimiter struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

// AuthRateLimit throttles auth endpoints on two counters, one per client IP
// and one per submitted email. Emails are hashed before they become Redis
// keys or log fields.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		lim := &authLimiter{policy: policy, store: store, logg: logg}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if done := lim.check(ctx, w, "ip", clientIP(r), policy.ipLimit); done {
					return
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					if done := lim.check(ctx, w, "email", hashValue(email), policy.emailLimit); done {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check increments the counter for one dimension and writes the response when
// the request must not proceed. It reports whether the request was handled.
func (l *authLimiter) check(ctx context.Context, w http.ResponseWriter, scope, subject string, limit int) bool {
	if subject == "" {
		return false
	}

	key := fmt.Sprintf("rl:%s:%s:%s", scope, l.policy.name, subject)
	count, err := l.store.IncrWithTTL(ctx, key, l.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if l.logg != nil {
		logCtx := l.logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"subject":        subject,
			"policy":         l.policy.name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(l.policy.window.Seconds()),
		})
		l.logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
