package consistency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/pkg/logger"
)

// Engine re-examines a context for contradictions between pillars.
// ⭐ SSOT: 점수/등급에 영향 없음 (진단 전용), scoring 결과를 입력으로 받지 않음
type Engine struct {
	policy *policy.Policy
	log    *logger.Logger
	now    func() time.Time
}

// NewEngine creates a consistency engine bound to a policy
func NewEngine(p *policy.Policy, log *logger.Logger) *Engine {
	if p == nil {
		p = policy.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		policy: p,
		log:    log.WithComponent("consistency"),
		now:    time.Now,
	}
}

var _ contracts.ConsistencyChecker = (*Engine)(nil)

// Check evaluates the four structural rules.
// Never fails: any internal fault yields "no imbalance" with Degraded set.
func (e *Engine) Check(ec *contracts.ExecutionContext) (result contracts.ConsistencyResult) {
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

	// 규칙은 반올림 전 값으로 판정, 반올림은 표시용
	raw := normalize(ec)
	pillars := roundPillars(raw)
	criticalLots := e.criticalLots(ec.Lots)
	th := e.policy.Consistency

	var flags contracts.StructuralFlags
	patterns := make([]string, 0, 4)

	// 1. 높은 준법성 vs 낮은 품질
	if raw.Compliance >= th.ComplianceHighMin && raw.Quality < th.QualityLowBelow {
		flags.ComplianceQualityMismatch = true
		patterns = append(patterns, fmt.Sprintf(
			"High compliance (%s) contradicts low quality (%s)",
			formatScore(pillars.Compliance), formatScore(pillars.Quality)))
	}

	// 2. 약한 업체 vs 상위 등급
	if raw.Enterprise < th.EnterpriseWeakBelow && isTopGrade(ec.FinalGrade) {
		flags.EnterpriseRiskMismatch = true
		patterns = append(patterns, fmt.Sprintf(
			"Weak enterprise profile (%s) contradicts final grade %s",
			formatScore(pillars.Enterprise), ec.FinalGrade))
	}

	// 3. 낮은 가격 점수 vs 높은 품질
	if raw.Pricing < th.PricingLowBelow && raw.Quality >= th.QualityHighMin {
		flags.PricingQualityMismatch = true
		patterns = append(patterns, fmt.Sprintf(
			"Low pricing score (%s) contradicts high quality (%s)",
			formatScore(pillars.Pricing), formatScore(pillars.Quality)))
	}

	// 4. 핵심 공종 vs 약한 업체
	if len(criticalLots) > 0 && raw.Enterprise < th.CriticalLotEnterpriseMin {
		flags.CriticalLotEnterpriseWeakness = true
		patterns = append(patterns, fmt.Sprintf(
			"Critical lots (%s) assigned to a weak enterprise (%s)",
			strings.Join(criticalLots, ", "), formatScore(pillars.Enterprise)))
	}

	score := 100 - th.FlagPenalty*flags.Count()
	if score < 0 {
		score = 0
	}

	return contracts.ConsistencyResult{
		Flags:             flags,
		ConsistencyScore:  score,
		ImbalanceDetected: score < th.ImbalanceBelow,
		HumanRiskPatterns: patterns,
		Pillars:           pillars,
		HasCriticalLots:   len(criticalLots) > 0,
		ComputedAt:        e.now(),
	}
}

// degraded returns the maximally safe result and reports it
func (e *Engine) degraded(reason string) contracts.ConsistencyResult {
	e.log.Degraded(reason)
	return contracts.ConsistencyResult{
		ConsistencyScore:  100,
		ImbalanceDetected: false,
		HumanRiskPatterns: []string{},
		Degraded:          true,
		DegradedReason:    reason,
		ComputedAt:        e.now(),
	}
}

// criticalLots returns the distinct critical lot types present, in order of appearance
func (e *Engine) criticalLots(lots []contracts.Lot) []string {
	var found []string
	seen := make(map[string]bool)
	for _, l := range lots {
		t := policy.NormalizeLotType(l.Type)
		if e.policy.IsCriticalLot(t) && !seen[t] {
			seen[t] = true
			found = append(found, t)
		}
	}
	return found
}

// Normalize brings every pillar to 0 ~ 100, rounded to two decimals.
// enterprise ×4, pricing ×5, quality ×5, compliance 그대로
func Normalize(ec *contracts.ExecutionContext) contracts.NormalizedPillars {
	return roundPillars(normalize(ec))
}

func normalize(ec *contracts.ExecutionContext) contracts.NormalizedPillars {
	return contracts.NormalizedPillars{
		Compliance: ec.GlobalScore,
		Enterprise: ec.EnterpriseScore * (100 / contracts.EnterpriseScoreMax),
		Pricing:    ec.PricingScore * (100 / contracts.PricingScoreMax),
		Quality:    ec.QualityScore * (100 / contracts.QualityScoreMax),
	}
}

func roundPillars(p contracts.NormalizedPillars) contracts.NormalizedPillars {
	return contracts.NormalizedPillars{
		Compliance: round2(p.Compliance),
		Enterprise: round2(p.Enterprise),
		Pricing:    round2(p.Pricing),
		Quality:    round2(p.Quality),
	}
}

func isTopGrade(g contracts.Grade) bool {
	return g == contracts.GradeA || g == contracts.GradeB
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
