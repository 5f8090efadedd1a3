package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/kitchenline-backend/api/responses"
	"github.com/angelmondragon/kitchenline-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy is a fixed-window budget for one traffic dimension.
type RateLimitPolicy struct {
	name     string
	window   time.Duration
	limit    int
	failOpen bool
}

// IPRateLimitPolicy budgets requests per client address.
func IPRateLimitPolicy(cfg config.RateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{name: "ip", window: cfg.Window, limit: cfg.IPLimit, failOpen: cfg.FailOpen}
}

// UserRateLimitPolicy budgets requests per authenticated user.
func UserRateLimitPolicy(cfg config.RateLimitConfig) RateLimitPolicy {
	return RateLimitPolicy{name: "user", window: cfg.Window, limit: cfg.UserLimit, failOpen: cfg.FailOpen}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

// RateLimit counts requests per client IP under the policy.
func RateLimit(policy RateLimitPolicy, store rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return rateLimit(policy, store, logg, clientIP)
}

// UserRateLimit counts requests per authenticated user. It must run after Auth.
func UserRateLimit(policy RateLimitPolicy, store rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return rateLimit(policy, store, logg, func(r *http.Request) string {
		return UserIDFromContext(r.Context())
	})
}

func rateLimit(policy RateLimitPolicy, store rateLimiter, logg *logger.Logger, subject func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := subject(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(ctx, policy.name+":"+id, int64(policy.limit), policy.window)
			if err != nil {
				if policy.failOpen {
					if logg != nil {
						logg.Warn(logg.WithField(ctx, "policy", policy.name), "rate_limit.store_unavailable")
					}
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"policy":         policy.name,
						"subject":        id,
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
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
