package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	policyFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "quotecert",
	Short:        "견적 신뢰도 인증 시스템",
	SilenceUsage: true,
	Long: `quotecert Unified CLI

시공 견적 실행 컨텍스트를 채점하고 일관성을 점검한 뒤
A-E 등급 인증서를 발급하고 공개 검증을 제공합니다.

Pipeline:
  C0 입력 검증 → C1 리스크 채점 ∥ C2 일관성 점검 → C3 인증 발급 → C4 공개 검증

Usage:
  go run ./cmd/quotecert [command]

Examples:
  go run ./cmd/quotecert analyze testdata/context_sample.yaml
  go run ./cmd/quotecert analyze testdata/context_sample.yaml --issue
  go run ./cmd/quotecert verify <token> --name "Bati Ouest" --id 12345678900011
  go run ./cmd/quotecert api
  go run ./cmd/quotecert migrate up`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Ctrl+C / SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "threshold policy YAML (default: POLICY_FILE or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
