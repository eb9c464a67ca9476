package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/logger"
)

// DefaultExpiryHorizon 만료 예정 조회 범위
const DefaultExpiryHorizon = 30 * 24 * time.Hour

// ExpiryReport summarises certifications expiring within a window
type ExpiryReport struct {
	From    time.Time               `json:"from"`
	To      time.Time               `json:"to"`
	Total   int                     `json:"total"`
	ByGrade map[contracts.Grade]int `json:"by_grade"`
	Records []ExpiringCertification `json:"records"`
}

// ExpiringCertification is the report row for one record.
// ⭐ SSOT: 토큰은 보고서에 포함하지 않음 (bearer credential)
type ExpiringCertification struct {
	ID        string          `json:"id"`
	Grade     contracts.Grade `json:"grade"`
	Score     float64         `json:"score"`
	ExpiresAt time.Time       `json:"expires_at"`
	DaysLeft  int             `json:"days_left"`
}

// ExpiryReportJob logs certifications that are about to expire.
// 보고 전용: 레코드를 삭제하거나 수정하지 않음
type ExpiryReportJob struct {
	repo    contracts.CertificationRepository
	horizon time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

// NewExpiryReportJob creates a new expiry report job
func NewExpiryReportJob(repo contracts.CertificationRepository, horizon time.Duration, log *logger.Logger) *ExpiryReportJob {
	if horizon <= 0 {
		horizon = DefaultExpiryHorizon
	}
	return &ExpiryReportJob{
		repo:    repo,
		horizon: horizon,
		logger:  log.WithComponent("expiry_report"),
		now:     time.Now,
	}
}

// WithClock replaces the time source
func (j *ExpiryReportJob) WithClock(now func() time.Time) *ExpiryReportJob {
	j.now = now
	return j
}

// Name returns the job name
func (j *ExpiryReportJob) Name() string {
	return "certification_expiry_report"
}

// Schedule returns the cron schedule (daily at 06:00)
func (j *ExpiryReportJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run executes the report
func (j *ExpiryReportJob) Run(ctx context.Context) error {
	_, err := j.Report(ctx)
	return err
}

// Report lists certifications expiring in [now, now+horizon)
func (j *ExpiryReportJob) Report(ctx context.Context) (*ExpiryReport, error) {
	from := j.now().UTC()
	to := from.Add(j.horizon)

	records, err := j.repo.ListExpiring(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring certifications: %w", err)
	}

	report := &ExpiryReport{
		From:    from,
		To:      to,
		Total:   len(records),
		ByGrade: make(map[contracts.Grade]int),
		Records: make([]ExpiringCertification, 0, len(records)),
	}

	for _, rec := range records {
		row := ExpiringCertification{
			ID:        rec.ID,
			Grade:     rec.Grade,
			Score:     rec.FinalScore,
			ExpiresAt: rec.ExpiresAt,
			DaysLeft:  int(rec.ExpiresAt.Sub(from).Hours() / 24),
		}
		report.Records = append(report.Records, row)
		report.ByGrade[rec.Grade]++

		j.logger.WithFields(map[string]interface{}{
			"certification_id": row.ID,
			"grade":            row.Grade,
			"expires_at":       row.ExpiresAt,
			"days_left":        row.DaysLeft,
		}).Info("Certification expiring soon")
	}

	j.logger.WithFields(map[string]interface{}{
		"total":   report.Total,
		"horizon": j.horizon.String(),
	}).Info("Expiry report completed")

	return report, nil
}
