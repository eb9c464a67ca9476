package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/quotecert/internal/analysis"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/scheduler/jobs"
	"github.com/wonny/quotecert/internal/scoring"
)

var issuedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestPrinter_AnalysisReport(t *testing.T) {
	var buf bytes.Buffer
	printer{w: &buf}.analysisReport(&analysis.AnalysisReport{
		RunID:         "run-1",
		ProjectID:     "PRJ-1",
		PolicyID:      "default",
		PolicyHash:    "0123456789abcdef",
		Scoring:       contracts.ScoringResult{RiskScore: 38.5, ComplexityImpact: 4, GlobalScore: 57.5, RiskLevel: contracts.RiskMedium},
		Consistency:   contracts.ConsistencyResult{ConsistencyScore: 80, HumanRiskPatterns: []string{"quality high vs pricing low"}},
		Grade:         contracts.GradeC,
		UpstreamGrade: contracts.GradeB,
		GradeMismatch: true,
		QuoteScale:    scoring.ToQuoteScale(57.5),
		Certification: &contracts.CertificationRecord{ID: "cert-1", Grade: contracts.GradeC, FinalScore: 57.5, IssuedAt: issuedAt, ExpiresAt: issuedAt.AddDate(1, 0, 0), Token: "tok"},
	})

	out := buf.String()
	assert.Contains(t, out, "PRJ-1")
	assert.Contains(t, out, "0123456789ab)")
	assert.Contains(t, out, "57.50 / 100")
	assert.Contains(t, out, "Upstream grade B differs from computed grade C")
	assert.Contains(t, out, "quality high vs pricing low")
	assert.Contains(t, out, "2026-03-01 ~ 2027-03-01")
	assert.NotContains(t, out, "degraded")
}

func TestPrinter_PublicView(t *testing.T) {
	var buf bytes.Buffer
	printer{w: &buf}.publicView(contracts.PublicViewResult{Valid: false, Reason: contracts.ReasonExpired, Message: "Certification expired"})
	assert.Contains(t, buf.String(), "❌ Certification expired (expired)")

	buf.Reset()
	printer{w: &buf}.publicView(contracts.PublicViewResult{
		Valid:   true,
		Message: "Certification is valid",
		ViewModel: &contracts.PublicViewModel{
			Grade:             contracts.GradeA,
			Score:             85,
			Badge:             contracts.Badge{Label: "Excellent"},
			Enterprise:        contracts.EnterpriseIdentity{Name: "Bati Ouest", ID: "123"},
			Strengths:         []string{"Solid enterprise profile"},
			VigilancePoints:   []string{"Check insurance"},
			NarrativeDegraded: true,
			ExpiresAt:         issuedAt,
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Bati Ouest [123]")
	assert.Contains(t, out, "A  Excellent")
	assert.Contains(t, out, "• Check insurance")
	assert.Contains(t, out, "fallback text shown")
}

func TestPrinter_TokenStatus(t *testing.T) {
	var buf bytes.Buffer
	exp := issuedAt
	printer{w: &buf}.tokenStatus(contracts.TokenStatus{Valid: true, Grade: contracts.GradeB, Score: 70, ExpiresAt: &exp})
	assert.Contains(t, buf.String(), "Grade B, score 70.00, valid until 2026-03-01")
}

func TestPrinter_ExpiryReport(t *testing.T) {
	var buf bytes.Buffer
	printer{w: &buf}.expiryReport(&jobs.ExpiryReport{
		From:    issuedAt,
		To:      issuedAt.AddDate(0, 0, 30),
		Total:   1,
		Records: []jobs.ExpiringCertification{{ID: "cert-9", Grade: contracts.GradeD, ExpiresAt: issuedAt.AddDate(0, 0, 3), DaysLeft: 3}},
	})
	assert.Contains(t, buf.String(), "cert-9  D  2026-03-04  (D-3)")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "api", "issue", "verify", "migrate", "scheduler"} {
		assert.True(t, names[want], want)
	}
}
