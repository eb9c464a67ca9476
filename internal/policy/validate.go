package policy

import (
	"fmt"
	"regexp"

	"github.com/wonny/quotecert/internal/contracts"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks all required constraints
// 실패 시 contracts.ValidationError 반환
func Validate(p *Policy) error {
	// === Meta ===
	if p.Meta.PolicyID == "" {
		return contracts.ValidationError{Field: "meta.policy_id", Message: "required"}
	}

	// === Scoring ===
	multipliers := []struct {
		field string
		value float64
	}{
		{"scoring.legal_multiplier", p.Scoring.LegalMultiplier},
		{"scoring.regulatory_multiplier", p.Scoring.RegulatoryMultiplier},
		{"scoring.advisory_multiplier", p.Scoring.AdvisoryMultiplier},
		{"scoring.commercial_bonus", p.Scoring.CommercialBonus},
		{"scoring.complexity_per_lot", p.Scoring.ComplexityPerLot},
	}
	for _, m := range multipliers {
		if m.value < 0 {
			return contracts.ValidationError{Field: m.field, Message: "must be >= 0"}
		}
	}

	// === Risk levels: low > medium > high > 0 ===
	rl := p.RiskLevels
	if !(rl.LowMin > rl.MediumMin && rl.MediumMin > rl.HighMin && rl.HighMin > 0 && rl.LowMin <= 100) {
		return contracts.ValidationError{Field: "risk_levels", Message: "must satisfy 100 >= low_min > medium_min > high_min > 0"}
	}

	// === Grades: a > b > c > d > 0 ===
	g := p.Grades
	if !(g.AMin > g.BMin && g.BMin > g.CMin && g.CMin > g.DMin && g.DMin > 0 && g.AMin <= 100) {
		return contracts.ValidationError{Field: "grades", Message: "must satisfy 100 >= a_min > b_min > c_min > d_min > 0"}
	}

	// === Consistency ===
	c := p.Consistency
	thresholds := []struct {
		field string
		value float64
	}{
		{"consistency.compliance_high_min", c.ComplianceHighMin},
		{"consistency.quality_low_below", c.QualityLowBelow},
		{"consistency.enterprise_weak_below", c.EnterpriseWeakBelow},
		{"consistency.pricing_low_below", c.PricingLowBelow},
		{"consistency.quality_high_min", c.QualityHighMin},
		{"consistency.critical_lot_enterprise_min", c.CriticalLotEnterpriseMin},
	}
	for _, th := range thresholds {
		if th.value < 0 || th.value > 100 {
			return contracts.ValidationError{Field: th.field, Message: "must be in [0, 100]"}
		}
	}
	if c.FlagPenalty <= 0 || c.FlagPenalty > 100 {
		return contracts.ValidationError{Field: "consistency.flag_penalty", Message: "must be in (0, 100]"}
	}
	if c.ImbalanceBelow <= 0 || c.ImbalanceBelow > 100 {
		return contracts.ValidationError{Field: "consistency.imbalance_below", Message: "must be in (0, 100]"}
	}
	if len(c.CriticalLotTypes) == 0 {
		return contracts.ValidationError{Field: "consistency.critical_lot_types", Message: "at least one lot type required"}
	}

	// === Badges: 모든 등급에 대해 정확히 하나 ===
	seen := make(map[contracts.Grade]bool, len(p.Badges))
	for i, b := range p.Badges {
		field := fmt.Sprintf("badges[%d]", i)
		if !b.Grade.IsValid() {
			return contracts.ValidationError{Field: field + ".grade", Message: fmt.Sprintf("unknown grade %q", b.Grade)}
		}
		if seen[b.Grade] {
			return contracts.ValidationError{Field: field + ".grade", Message: fmt.Sprintf("duplicate grade %s", b.Grade)}
		}
		seen[b.Grade] = true
		if b.Label == "" {
			return contracts.ValidationError{Field: field + ".label", Message: "required"}
		}
		if !hexColor.MatchString(b.Color) {
			return contracts.ValidationError{Field: field + ".color", Message: "must be #rrggbb"}
		}
	}
	for _, grade := range contracts.AllGrades() {
		if !seen[grade] {
			return contracts.ValidationError{Field: "badges", Message: fmt.Sprintf("missing entry for grade %s", grade)}
		}
	}

	// === Certification ===
	if p.Certification.ValidityDays <= 0 || p.Certification.ValidityDays > contracts.MaxValidityDays {
		return contracts.ValidationError{
			Field:   "certification.validity_days",
			Message: fmt.Sprintf("must be within [1, %d]", contracts.MaxValidityDays),
		}
	}

	return nil
}
