package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/intake"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "인증 토큰 공개 검증",
	Long: `토큰을 검증하고 공개 검증 페이지와 동일한 결과를 출력합니다.

--status 지정 시 등급/유효기간만 확인합니다 (사업자 정보 불필요).
--context 지정 시 실행 컨텍스트로 서술을 보강합니다.

Example:
  go run ./cmd/quotecert verify <token> --name "Bati Ouest" --id 12345678900011
  go run ./cmd/quotecert verify <token> --status`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var (
	verifyName    string
	verifyID      string
	verifyContext string
	verifyStatus  bool
	verifyJSON    bool
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyName, "name", "", "사업자명")
	verifyCmd.Flags().StringVar(&verifyID, "id", "", "사업자 식별자 (SIRET 등)")
	verifyCmd.Flags().StringVar(&verifyContext, "context", "", "서술 보강용 실행 컨텍스트 파일")
	verifyCmd.Flags().BoolVar(&verifyStatus, "status", false, "상태만 확인")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "JSON 출력")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	token := args[0]

	var ec *contracts.ExecutionContext
	if verifyContext != "" {
		loaded, err := intake.LoadFile(verifyContext)
		if err != nil {
			return err
		}
		ec = loaded
	}

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	out := printer{w: cmd.OutOrStdout()}

	if verifyStatus {
		st := a.verifier.VerifyTokenOnly(ctx, token)
		if verifyJSON {
			return out.jsonOut(st)
		}
		out.tokenStatus(st)
		return nil
	}

	res := a.verifier.BuildPublicView(ctx, token, contracts.EnterpriseIdentity{Name: verifyName, ID: verifyID}, ec)
	if verifyJSON {
		return out.jsonOut(res)
	}
	out.publicView(res)
	return nil
}
