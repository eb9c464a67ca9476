package narrative

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
)

// expiryNotice 만료 임박 안내 기준
const expiryNotice = 30 * 24 * time.Hour

// TemplateGenerator builds a deterministic narrative locally.
// The context is optional; without it only grade, score and validity are used.
type TemplateGenerator struct {
	policy *policy.Policy
	now    func() time.Time
}

// NewTemplateGenerator creates a local narrative generator
func NewTemplateGenerator(p *policy.Policy) *TemplateGenerator {
	if p == nil {
		p = policy.Default()
	}
	return &TemplateGenerator{policy: p, now: time.Now}
}

var _ contracts.NarrativeGenerator = (*TemplateGenerator)(nil)

// Generate derives strengths and vigilance points from the record and context
func (g *TemplateGenerator) Generate(ctx context.Context, ec *contracts.ExecutionContext, rec *contracts.CertificationRecord) (*contracts.Narrative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("certification record is required")
	}

	label := string(rec.Grade)
	if b, ok := g.policy.BadgeFor(rec.Grade); ok {
		label = b.Label
	}
	score := strconv.FormatFloat(rec.FinalScore, 'f', -1, 64)

	var strengths, vigilance []string

	switch rec.Grade {
	case contracts.GradeA, contracts.GradeB:
		strengths = append(strengths, fmt.Sprintf("Overall assessment rated %s (grade %s, %s/100)", label, rec.Grade, score))
	case contracts.GradeC:
		vigilance = append(vigilance, fmt.Sprintf("Assessment rated %s (%s/100): several points deserve attention", label, score))
	default:
		vigilance = append(vigilance, fmt.Sprintf("Assessment rated %s (%s/100): a professional review is strongly advised", label, score))
	}

	if ec != nil {
		s, v := g.fromContext(ec)
		strengths = append(strengths, s...)
		vigilance = append(vigilance, v...)
	}

	if remaining := rec.ExpiresAt.Sub(g.now()); remaining > 0 && remaining <= expiryNotice {
		vigilance = append(vigilance, fmt.Sprintf("Certification expires on %s", rec.ExpiresAt.Format("2006-01-02")))
	}

	if len(strengths) == 0 {
		strengths = append(strengths, FallbackStrength)
	}
	if len(vigilance) == 0 {
		vigilance = append(vigilance, "No specific vigilance point identified")
	}

	return &contracts.Narrative{
		Strengths:       strengths,
		VigilancePoints: vigilance,
		SummaryText: fmt.Sprintf("Grade %s (%s) with a score of %s/100, valid until %s.",
			rec.Grade, label, score, rec.ExpiresAt.Format("2006-01-02")),
	}, nil
}

func (g *TemplateGenerator) fromContext(ec *contracts.ExecutionContext) (strengths, vigilance []string) {
	critical := 0
	var commercial float64
	for _, o := range ec.Obligations {
		if o.Severity == contracts.SeverityCritical {
			critical++
		}
		if o.Type == contracts.ObligationCommercial {
			commercial += o.Weight
		}
	}

	if critical == 0 {
		strengths = append(strengths, "No critical obligation outstanding")
	} else {
		vigilance = append(vigilance, fmt.Sprintf("%d critical obligation(s) to check before signing", critical))
	}
	if commercial > 0 {
		strengths = append(strengths, "Commercial terms offset part of the contractual risk")
	}

	// 필러 점수 (0 ~ 100 환산)
	enterprise := ec.EnterpriseScore * (100 / contracts.EnterpriseScoreMax)
	quality := ec.QualityScore * (100 / contracts.QualityScoreMax)
	if enterprise >= 80 {
		strengths = append(strengths, "Solid enterprise profile")
	}
	if quality >= 70 {
		strengths = append(strengths, "High quality of the quote content")
	}

	var criticalLots []string
	for _, l := range ec.Lots {
		if g.policy.IsCriticalLot(l.Type) {
			criticalLots = append(criticalLots, policy.NormalizeLotType(l.Type))
		}
	}
	if len(criticalLots) > 0 {
		vigilance = append(vigilance, fmt.Sprintf("Critical lots present (%s): check insurance coverage", strings.Join(criticalLots, ", ")))
	}

	return strengths, vigilance
}
