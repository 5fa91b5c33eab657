package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"kungfu-delivery/internal/auth"
	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	msgTokenMissing = "认证失败，没有提供 token"
	msgTokenFormat  = `Token 格式不正确，应为 "Bearer [token]"`
	msgTokenInvalid = "Token 无效"
	msgNoPermission = "没有权限"
	msgRateLimited  = "请求过于频繁，请稍后再试"
)

const requestIDHeader = "X-Request-ID"

type TokenParser interface {
	Parse(token string) (*domain.Principal, error)
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller attached by the auth middleware.
func PrincipalFrom(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*domain.Principal)
	return p, ok && p != nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags every request with an id and a child logger, then logs
// the outcome with a level chosen from the status code.
func RequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			l := base.With().Str("request_id", requestID).Logger()
			ctx := logger.With(r.Context(), l)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			var event *zerolog.Event
			switch {
			case rec.status >= http.StatusInternalServerError:
				event = l.Error()
			case rec.status >= http.StatusBadRequest:
				event = l.Warn()
			default:
				event = l.Info()
			}
			event.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Msg("request")
		})
	}
}

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.From(r.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				writeFail(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticate parses the bearer token with parser and, when requireAdmin is
// set, rejects principals without the admin role.
func authenticate(parser TokenParser, requireAdmin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				writeFail(w, http.StatusUnauthorized, msgTokenMissing)
				return
			case err != nil:
				writeFail(w, http.StatusUnauthorized, msgTokenFormat)
				return
			}

			principal, err := parser.Parse(token)
			if err != nil {
				writeFail(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}
			if requireAdmin && principal.Role != domain.RoleAdmin {
				writeFail(w, http.StatusForbidden, msgNoPermission)
				return
			}

			l := logger.From(r.Context()).With().Int("user_id", principal.UserID).Logger()
			ctx := logger.With(withPrincipal(r.Context(), principal), l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// limiterIdleTTL is how long a key may stay unused before its bucket is dropped.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key. Buckets idle for longer than
// idleTTL are swept on a later Allow, at most once per idleTTL.
type KeyedLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewKeyedLimiter(limit rate.Limit, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:  map[string]*limiterEntry{},
		limit:     limit,
		burst:     burst,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// PerMinute allows n requests a minute with a burst of n.
func PerMinute(n int) *KeyedLimiter {
	if n <= 0 {
		return nil
	}
	return NewKeyedLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

// sweep must be called with mu held.
func (l *KeyedLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// byPrincipal keys on the authenticated user and falls back to the client IP.
func byPrincipal(r *http.Request) string {
	if p, ok := PrincipalFrom(r.Context()); ok {
		return "user:" + strconv.Itoa(p.UserID)
	}
	return byClientIP(r)
}

func byClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

func rateLimit(l *KeyedLimiter, key func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(key(r)) {
				writeFail(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
