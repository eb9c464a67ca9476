package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quotecert/internal/api/handlers"
	"github.com/wonny/quotecert/pkg/logger"
)

// Handlers groups the endpoint handlers mounted by the router
type Handlers struct {
	Analysis      *handlers.AnalysisHandler
	Certification *handlers.CertificationHandler
	Public        *handlers.PublicHandler
}

// Options holds router-level policies
type Options struct {
	AdminKey      string                          // 내부 엔드포인트 Bearer 키 (빈 값 = 보호 없음)
	PublicLimiter Limiter                         // nil 이면 공개 검증 레이트 리밋 없음
	HealthCheck   func(ctx context.Context) error // nil 이면 항상 ok
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, opts Options, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(opts.HealthCheck)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Internal endpoints
	internal := api.NewRoute().Subrouter()
	internal.Use(requireAdminKey(opts.AdminKey))
	if h.Analysis != nil {
		internal.HandleFunc("/analyses", h.Analysis.Analyze).Methods("POST")
	}
	if h.Certification != nil {
		internal.HandleFunc("/certifications", h.Certification.Issue).Methods("POST")
		internal.HandleFunc("/certifications/verify", h.Certification.Verify).Methods("POST")
	}

	// Public verification endpoints
	if h.Public != nil {
		public := api.PathPrefix("/public").Subrouter()
		if opts.PublicLimiter != nil {
			public.Use(rateLimitMiddleware(opts.PublicLimiter, log))
		}
		public.HandleFunc("/verify", h.Public.Verify).Methods("POST")
		public.HandleFunc("/verify/{token}/status", h.Public.Status).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if check != nil {
			if err := check(r.Context()); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"service": "quotecert-api",
		})
	}
}
