package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/quotecert/pkg/logger"
	"github.com/wonny/quotecert/pkg/redis"
)

// Limiter decides whether one client may make another request
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

// RedisLimiter shares the public verification budget across instances
type RedisLimiter struct {
	limiter *redis.RateLimiter
	cfg     redis.RateLimitConfig
}

// NewRedisLimiter creates a sliding-window limiter backed by Redis
func NewRedisLimiter(limiter *redis.RateLimiter, perMinute int) *RedisLimiter {
	cfg := redis.PublicVerifyRateLimit
	if perMinute > 0 {
		cfg.Limit = perMinute
	}
	return &RedisLimiter{limiter: limiter, cfg: cfg}
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (bool, error) {
	allowed, _, err := l.limiter.Allow(ctx, l.cfg.ForClient(clientID))
	return allowed, err
}

// LocalLimiter is a per-process token bucket per client
type LocalLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*localClient
	ttl     time.Duration
	now     func() time.Time
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows perMinute requests per client, refilled evenly
func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute <= 0 {
		perMinute = redis.PublicVerifyRateLimit.Limit
	}
	return &LocalLimiter{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		clients: make(map[string]*localClient),
		ttl:     10 * time.Minute,
		now:     time.Now,
	}
}

// Allow implements Limiter
func (l *LocalLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[clientID]
	if !ok {
		l.prune(now)
		c = &localClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientID] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1), nil
}

// prune drops idle clients. Caller holds mu.
func (l *LocalLimiter) prune(now time.Time) {
	for id, c := range l.clients {
		if now.Sub(c.lastSeen) > l.ttl {
			delete(l.clients, id)
		}
	}
}

// rateLimitMiddleware returns 429 once a client exceeds its budget.
// 리미터 장애 시에는 요청을 통과시킴 (fail-open)
func rateLimitMiddleware(limiter Limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.WithError(err).Warn("Rate limiter unavailable, allowing request")
				allowed = true
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many verification requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAdminKey guards internal endpoints with a static bearer key.
// 빈 키는 개발 환경에서 보호 해제를 의미
func requireAdminKey(key string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then RemoteAddr
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			// 토큰이 경로에 포함될 수 있으므로 라우트 템플릿으로 기록
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
