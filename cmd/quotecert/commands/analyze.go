package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/internal/analysis"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/intake"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [context.yaml|context.json]",
	Short: "실행 컨텍스트 채점 및 일관성 점검",
	Long: `실행 컨텍스트 파일을 읽어 리스크 점수, 등급, 일관성 결과를 출력합니다.

이 명령어는:
- C0 입력 검증
- C1 리스크 채점 / C2 일관성 점검 (병렬)
- --issue 지정 시 C3 인증서 발급 (저장소 필요)

Example:
  go run ./cmd/quotecert analyze testdata/context_sample.yaml
  go run ./cmd/quotecert analyze testdata/context_sample.yaml --issue --validity-days 180
  go run ./cmd/quotecert analyze testdata/context_sample.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeIssue        bool
	analyzeValidityDays int
	analyzeJSON         bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeIssue, "issue", false, "인증서 발급까지 수행")
	analyzeCmd.Flags().IntVar(&analyzeValidityDays, "validity-days", 0, "유효기간 (일, 0 = 정책 기본값)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "JSON 출력")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	validity, err := contracts.ValidityFromDays(analyzeValidityDays)
	if err != nil {
		return err
	}

	ec, err := intake.LoadFile(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(ctx, analyzeIssue)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.analyzer.Run(ctx, ec, analysis.RunOptions{
		Issue:    analyzeIssue,
		Validity: validity,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := printer{w: cmd.OutOrStdout()}
	if analyzeJSON {
		return out.jsonOut(report)
	}
	out.analysisReport(report)
	return nil
}
