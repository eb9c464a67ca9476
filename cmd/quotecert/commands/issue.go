package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/internal/contracts"
)

// issueCmd represents the issue command
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "등급/점수로 인증서 직접 발급",
	Long: `이미 산출된 등급과 점수로 인증서를 발급하고 토큰을 출력합니다.

Example:
  go run ./cmd/quotecert issue --grade B --score 72.5
  go run ./cmd/quotecert issue --grade A --score 88 --validity-days 90`,
	RunE: runIssue,
}

var (
	issueGrade        string
	issueScore        float64
	issueValidityDays int
)

func init() {
	rootCmd.AddCommand(issueCmd)

	issueCmd.Flags().StringVar(&issueGrade, "grade", "", "등급 (A-E)")
	issueCmd.Flags().Float64Var(&issueScore, "score", 0, "최종 점수 (0-100)")
	issueCmd.Flags().IntVar(&issueValidityDays, "validity-days", 0, "유효기간 (일, 0 = CERT_VALIDITY)")
	_ = issueCmd.MarkFlagRequired("grade")
	_ = issueCmd.MarkFlagRequired("score")
}

func runIssue(cmd *cobra.Command, args []string) error {
	grade, err := contracts.ParseGrade(issueGrade)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	validity, err := contracts.ValidityFromDays(issueValidityDays)
	if err != nil {
		return err
	}
	if validity == 0 {
		validity = a.cfg.Certification.ValidityWindow
	}

	rec, err := a.manager.Issue(ctx, grade, issueScore, validity)
	if err != nil {
		return err
	}

	out := printer{w: cmd.OutOrStdout()}
	out.header("Certification issued")
	out.certification(rec)
	out.footer()
	return nil
}
