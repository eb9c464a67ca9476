package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/internal/api"
	"github.com/wonny/quotecert/internal/api/handlers"
	"github.com/wonny/quotecert/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 내부 분석/발급 엔드포인트 제공 (ADMIN_API_KEY 보호)
- 공개 검증 엔드포인트 제공 (클라이언트별 레이트 리밋)

Endpoints:
  GET  /health                            - Health check
  POST /api/analyses                      - 분석 (옵션: 발급)
  POST /api/certifications                - 등급/점수로 직접 발급
  POST /api/certifications/verify         - 토큰 → 레코드 (만료 미판단)
  POST /api/public/verify                 - 공개 검증 뷰 모델
  GET  /api/public/verify/{token}/status  - 토큰 상태

Example:
  go run ./cmd/quotecert api
  go run ./cmd/quotecert api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort    string
	apiMigrate bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
	apiCmd.Flags().BoolVar(&apiMigrate, "migrate", false, "시작 전 DB 마이그레이션 실행 (CERT_STORE=postgres)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	if apiMigrate && a.backend.DB != nil {
		if err := a.backend.DB.Migrate(ctx); err != nil {
			return err
		}
	}

	// 공개 검증 레이트 리밋: Redis 가 있으면 인스턴스 간 공유, 없으면 프로세스 로컬
	var limiter api.Limiter = api.NewLocalLimiter(a.cfg.Verification.RateLimitPerMin)
	if a.backend.Redis.Enabled() {
		limiter = api.NewRedisLimiter(redis.NewRateLimiter(a.backend.Redis, "quotecert"), a.cfg.Verification.RateLimitPerMin)
	}

	router := api.NewRouter(api.Handlers{
		Analysis:      handlers.NewAnalysisHandler(a.analyzer, log),
		Certification: handlers.NewCertificationHandler(a.manager, a.cfg.Certification.ValidityWindow, log),
		Public:        handlers.NewPublicHandler(a.verifier, log),
	}, api.Options{
		AdminKey:      a.cfg.AdminAPIKey,
		PublicLimiter: limiter,
		HealthCheck:   a.backend.Ping,
	}, log)

	if a.cfg.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY not set, internal endpoints are unprotected")
	}

	server := api.New(a.cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
