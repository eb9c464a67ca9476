package contracts

import (
	"fmt"
	"math"
)

// ObligationType classifies an obligation for risk weighting
type ObligationType string

const (
	ObligationLegal      ObligationType = "legal"
	ObligationRegulatory ObligationType = "regulatory"
	ObligationAdvisory   ObligationType = "advisory"
	ObligationCommercial ObligationType = "commercial"
)

// IsValid reports whether t is one of the four known classifications
func (t ObligationType) IsValid() bool {
	switch t {
	case ObligationLegal, ObligationRegulatory, ObligationAdvisory, ObligationCommercial:
		return true
	}
	return false
}

// Severity of an obligation, kept for the audit breakdown
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// IsValid reports whether s is a known severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Obligation is one classified requirement with its upstream-assigned weight
type Obligation struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Type     ObligationType `json:"type"`
	Severity Severity       `json:"severity"`
	Weight   float64        `json:"weight"`
}

// Lot is one work package of the quote (e.g. roofing, plumbing)
type Lot struct {
	Code  string `json:"code"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

// Pillar native scales
const (
	EnterpriseScoreMax = 25.0
	PricingScoreMax    = 20.0
	QualityScoreMax    = 20.0
	GlobalScoreMax     = 100.0
)

// ExecutionContext is the immutable snapshot one analysis run operates on
// ⭐ SSOT: 엔진들은 intake 에서 검증된 이 구조체만 읽음
type ExecutionContext struct {
	ProjectID          string       `json:"project_id"`
	Obligations        []Obligation `json:"obligations"`
	Lots               []Lot        `json:"lots"`
	LotComplexityCount int          `json:"lot_complexity_count"`

	// Pillar sub-scores, each on its own native scale
	EnterpriseScore float64 `json:"enterprise_score"` // 0 ~ 25
	PricingScore    float64 `json:"pricing_score"`    // 0 ~ 20
	QualityScore    float64 `json:"quality_score"`    // 0 ~ 20
	GlobalScore     float64 `json:"global_score"`     // 0 ~ 100 (compliance)

	// FinalGrade is the upstream grade, empty when not yet graded
	FinalGrade Grade `json:"final_grade,omitempty"`
}

// Validate checks structural correctness of the context
func (ec *ExecutionContext) Validate() error {
	if ec == nil {
		return ValidationError{Field: "context", Message: "required"}
	}

	for i, o := range ec.Obligations {
		field := fmt.Sprintf("obligations[%d]", i)
		if !o.Type.IsValid() {
			return ValidationError{Field: field + ".type", Message: fmt.Sprintf("unknown obligation type %q", o.Type)}
		}
		if o.Severity != "" && !o.Severity.IsValid() {
			return ValidationError{Field: field + ".severity", Message: fmt.Sprintf("unknown severity %q", o.Severity)}
		}
		if !isFinite(o.Weight) || o.Weight < 0 {
			return ValidationError{Field: field + ".weight", Message: "must be a finite value >= 0"}
		}
	}

	if ec.LotComplexityCount < 0 {
		return ValidationError{Field: "lot_complexity_count", Message: "must be >= 0"}
	}

	pillars := []struct {
		field string
		value float64
		max   float64
	}{
		{"enterprise_score", ec.EnterpriseScore, EnterpriseScoreMax},
		{"pricing_score", ec.PricingScore, PricingScoreMax},
		{"quality_score", ec.QualityScore, QualityScoreMax},
		{"global_score", ec.GlobalScore, GlobalScoreMax},
	}
	for _, p := range pillars {
		if !isFinite(p.value) || p.value < 0 || p.value > p.max {
			return ValidationError{Field: p.field, Message: fmt.Sprintf("must be within [0, %g]", p.max)}
		}
	}

	if ec.FinalGrade != "" && !ec.FinalGrade.IsValid() {
		return ValidationError{Field: "final_grade", Message: fmt.Sprintf("unknown grade %q", ec.FinalGrade)}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
