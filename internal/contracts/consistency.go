package contracts

import "time"

// StructuralFlags holds the four named contradiction rules
type StructuralFlags struct {
	ComplianceQualityMismatch     bool `json:"compliance_quality_mismatch"`
	EnterpriseRiskMismatch        bool `json:"enterprise_risk_mismatch"`
	PricingQualityMismatch        bool `json:"pricing_quality_mismatch"`
	CriticalLotEnterpriseWeakness bool `json:"critical_lot_enterprise_weakness"`
}

// Count returns the number of raised flags
func (f StructuralFlags) Count() int {
	n := 0
	for _, raised := range []bool{
		f.ComplianceQualityMismatch,
		f.EnterpriseRiskMismatch,
		f.PricingQualityMismatch,
		f.CriticalLotEnterpriseWeakness,
	} {
		if raised {
			n++
		}
	}
	return n
}

// NormalizedPillars are the pillar sub-scores brought to 0 ~ 100
type NormalizedPillars struct {
	Compliance float64 `json:"compliance"`
	Enterprise float64 `json:"enterprise"`
	Pricing    float64 `json:"pricing"`
	Quality    float64 `json:"quality"`
}

// ConsistencyResult is the output of the structural consistency engine.
// It is advisory only and never feeds back into the score.
type ConsistencyResult struct {
	Flags             StructuralFlags   `json:"flags"`
	ConsistencyScore  int               `json:"consistency_score"`
	ImbalanceDetected bool              `json:"imbalance_detected"`
	HumanRiskPatterns []string          `json:"human_risk_patterns"`
	Pillars           NormalizedPillars `json:"pillars"`
	HasCriticalLots   bool              `json:"has_critical_lots"`

	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}
