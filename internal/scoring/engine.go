package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/pkg/logger"
)

// =============================================================================
// Scoring Engine - 순수 계산기
// =============================================================================

// Engine computes the type-weighted risk score of an execution context
// ⭐ SSOT: 컨텍스트 조립은 intake, 등급 부여는 GradeFor, 여기선 순수 계산만
type Engine struct {
	policy *policy.Policy
	log    *logger.Logger
	now    func() time.Time
}

// NewEngine creates a scoring engine bound to a policy
func NewEngine(p *policy.Policy, log *logger.Logger) *Engine {
	if p == nil {
		p = policy.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		policy: p,
		log:    log.WithComponent("scoring"),
		now:    time.Now,
	}
}

var _ contracts.Scorer = (*Engine)(nil)

// Compute returns the scoring result for ec.
// Never fails: any internal fault yields the safe default with Degraded set.
func (e *Engine) Compute(ec *contracts.ExecutionContext) (result contracts.ScoringResult) {
	defer func() {
		if r := recover(); r != nil {
			result = e.degraded(fmt.Sprintf("panic: %v", r))
		}
	}()

	if ec == nil {
		return e.degraded("nil execution context")
	}
	if err := ec.Validate(); err != nil {
		return e.degraded(err.Error())
	}

	breakdown := Breakdown(ec)
	riskScore := e.riskScore(breakdown)
	complexity := e.policy.Scoring.ComplexityPerLot * float64(ec.LotComplexityCount)

	// 0 ~ 100 범위 보장
	global := clamp(100-riskScore-complexity, 0, 100)
	if math.IsNaN(global) {
		return e.degraded("global score is NaN")
	}

	global = round2(global)
	return contracts.ScoringResult{
		RiskScore:        round2(riskScore),
		ComplexityImpact: round2(complexity),
		GlobalScore:      global,
		RiskLevel:        RiskLevelFor(global, e.policy.RiskLevels),
		Breakdown:        breakdown,
		ComputedAt:       e.now(),
	}
}

// riskScore = legal + regulatory + 0.5×advisory − 0.3×commercial, floored at 0
// commercial 은 보너스이지만 위험도를 음수로 만들 수는 없음
func (e *Engine) riskScore(b contracts.ScoreBreakdown) float64 {
	s := e.policy.Scoring
	risk := s.LegalMultiplier*b.LegalWeight +
		s.RegulatoryMultiplier*b.RegulatoryWeight +
		s.AdvisoryMultiplier*b.AdvisoryWeight -
		s.CommercialBonus*b.CommercialWeight
	return math.Max(0, risk)
}

// degraded returns the maximally safe result and reports it
func (e *Engine) degraded(reason string) contracts.ScoringResult {
	e.log.Degraded(reason)
	return contracts.ScoringResult{
		RiskScore:        0,
		ComplexityImpact: 0,
		GlobalScore:      100,
		RiskLevel:        contracts.RiskLow,
		Breakdown: contracts.ScoreBreakdown{
			BySeverity: map[contracts.Severity]contracts.SeverityTotal{},
		},
		Degraded:       true,
		DegradedReason: reason,
		ComputedAt:     e.now(),
	}
}

// Breakdown sums obligation weights per type and per severity
func Breakdown(ec *contracts.ExecutionContext) contracts.ScoreBreakdown {
	b := contracts.ScoreBreakdown{
		BySeverity:      make(map[contracts.Severity]contracts.SeverityTotal),
		ObligationCount: len(ec.Obligations),
		LotComplexity:   ec.LotComplexityCount,
	}

	for _, o := range ec.Obligations {
		switch o.Type {
		case contracts.ObligationLegal:
			b.LegalWeight += o.Weight
		case contracts.ObligationRegulatory:
			b.RegulatoryWeight += o.Weight
		case contracts.ObligationAdvisory:
			b.AdvisoryWeight += o.Weight
		case contracts.ObligationCommercial:
			b.CommercialWeight += o.Weight
		}

		if o.Severity != "" {
			total := b.BySeverity[o.Severity]
			total.Count++
			total.Weight += o.Weight
			b.BySeverity[o.Severity] = total
		}
	}

	return b
}

// RiskLevelFor maps a global score to exactly one band.
// low ≥75, medium [50,75), high [25,50), critical <25 (기본 정책 기준)
func RiskLevelFor(score float64, bands policy.RiskLevels) contracts.RiskLevel {
	switch {
	case score >= bands.LowMin:
		return contracts.RiskLow
	case score >= bands.MediumMin:
		return contracts.RiskMedium
	case score >= bands.HighMin:
		return contracts.RiskHigh
	default:
		return contracts.RiskCritical
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// round2 소수점 둘째 자리 반올림 (부동소수 오차 제거)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
