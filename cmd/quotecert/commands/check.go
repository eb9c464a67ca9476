package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "설정/저장소 연결 점검",
	Long: `설정을 로드하고 인증 저장소와 캐시 연결을 점검합니다.

이 명령어는:
- config 로드 및 검증
- 정책 파일 로드 및 해시 표시
- CERT_STORE 저장소 연결 및 Ping
- PostgreSQL 이면 커넥션 풀 통계 표시

Example:
  go run ./cmd/quotecert check
  go run ./cmd/quotecert check --policy config/policy/default.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := printer{w: cmd.OutOrStdout()}

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		out.failure(err.Error())
		return err
	}
	defer a.close()

	out.header("quotecert check")
	out.keyValue("Env", a.cfg.Env)
	out.keyValue("Store", a.cfg.Certification.Store)
	out.keyValue("Cache", a.backend.Redis.Enabled())
	out.keyValue("Policy", fmt.Sprintf("%s v%s", a.policy.Meta.PolicyID, a.policy.Meta.Version))
	out.separator()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if err := a.backend.Ping(ctx); err != nil {
		out.failure("Backend ping failed: " + err.Error())
		return err
	}
	out.success("Backend reachable")

	if a.backend.DB != nil {
		status, err := a.backend.DB.HealthCheck(ctx)
		if err != nil {
			out.failure("Database health check failed: " + err.Error())
			return err
		}
		out.keyValue("Response time", status.ResponseTime)
		out.keyValue("Connections", fmt.Sprintf("%d total / %d idle / %d max", status.TotalConns, status.IdleConns, status.MaxConns))

		version, err := a.backend.DB.MigrationVersion(ctx)
		if err != nil {
			out.warning("Migration version unavailable: " + err.Error())
		} else {
			out.keyValue("Schema version", version)
		}
	}

	out.footer()
	return nil
}
