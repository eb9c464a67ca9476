package contracts

import "time"

// RiskLevel is the four-band classification derived from the global score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// SeverityTotal aggregates obligations sharing one severity
type SeverityTotal struct {
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// ScoreBreakdown is the audit trail of a score, returned in full
type ScoreBreakdown struct {
	LegalWeight      float64                    `json:"legal_weight"`
	RegulatoryWeight float64                    `json:"regulatory_weight"`
	AdvisoryWeight   float64                    `json:"advisory_weight"`
	CommercialWeight float64                    `json:"commercial_weight"`
	BySeverity       map[Severity]SeverityTotal `json:"by_severity"`
	ObligationCount  int                        `json:"obligation_count"`
	LotComplexity    int                        `json:"lot_complexity_count"`
}

// ScoringResult is the output of the scoring engine
type ScoringResult struct {
	RiskScore        float64        `json:"risk_score"`
	ComplexityImpact float64        `json:"complexity_impact"`
	GlobalScore      float64        `json:"global_score"` // 0 ~ 100
	RiskLevel        RiskLevel      `json:"risk_level"`
	Breakdown        ScoreBreakdown `json:"breakdown"`

	// Degraded marks the safe default returned after an internal failure.
	// 안전 기본값(100/low)을 진짜 저위험 판정으로 오인하지 않도록 함
	Degraded       bool   `json:"degraded"`
	DegradedReason string `json:"degraded_reason,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}
