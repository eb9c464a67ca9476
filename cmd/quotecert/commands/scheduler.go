package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/scheduler"
	"github.com/wonny/quotecert/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행
  report  - 만료 예정 인증서 보고

Example:
  go run ./cmd/quotecert scheduler start
  go run ./cmd/quotecert scheduler run certification_expiry_report
  go run ./cmd/quotecert scheduler report --days 14`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- certification_expiry_report: 매일 06:00 (만료 예정 인증서 로그, 삭제 없음)
- backend_health: 5분마다 (저장소/캐시 연결 점검)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerReportCmd = &cobra.Command{
		Use:   "report",
		Short: "만료 예정 인증서 보고",
		RunE:  runExpiryReport,
	}
)

var (
	reportDays int
	reportJSON bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerReportCmd)

	schedulerReportCmd.Flags().IntVar(&reportDays, "days", 30, "조회 범위 (일)")
	schedulerReportCmd.Flags().BoolVar(&reportJSON, "json", false, "JSON 출력")
}

// initScheduler registers every job against the configured backend
func initScheduler(a *app, opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, opts...)

	for _, job := range []scheduler.Job{
		jobs.NewExpiryReportJob(a.backend.Store, jobs.DefaultExpiryHorizon, a.log),
		jobs.NewBackendHealthJob(a.backend, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	out := printer{w: cmd.OutOrStdout()}
	out.success("Scheduler started successfully")
	fmt.Fprintln(out.w, "\nRegistered jobs:")
	out.list(sched.GetAllJobs())
	fmt.Fprintln(out.w, "\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(out.w, "\nShutting down scheduler...")
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	out := printer{w: cmd.OutOrStdout()}
	stats := sched.GetJobStats()
	for _, name := range sched.GetAllJobs() {
		out.keyValue(name, stats[name].Schedule)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	// 수동 실행은 재시도 없이 한 번만
	sched, err := initScheduler(a, scheduler.WithRetry(0, 0))
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunNow(cmd.Context(), jobName)
	if err != nil {
		return err
	}

	out := printer{w: cmd.OutOrStdout()}
	if !result.Success {
		out.failure(fmt.Sprintf("Job %s failed: %s", jobName, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	out.success(fmt.Sprintf("Job %s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

func runExpiryReport(cmd *cobra.Command, args []string) error {
	if reportDays <= 0 || reportDays > contracts.MaxValidityDays {
		return fmt.Errorf("--days must be within [1, %d]", contracts.MaxValidityDays)
	}

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.close()

	job := jobs.NewExpiryReportJob(a.backend.Store, time.Duration(reportDays)*24*time.Hour, a.log)
	report, err := job.Report(cmd.Context())
	if err != nil {
		return err
	}

	out := printer{w: cmd.OutOrStdout()}
	if reportJSON {
		return out.jsonOut(report)
	}
	out.expiryReport(report)
	return nil
}
