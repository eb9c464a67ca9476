package policy

import "github.com/wonny/quotecert/internal/contracts"

// Policy is the externalised threshold table of the certification pipeline
// ⭐ SSOT: 점수/등급/일관성/배지 임계값은 이 구조체에서만 읽음
type Policy struct {
	Meta          Meta          `yaml:"meta" json:"meta"`
	Scoring       Scoring       `yaml:"scoring" json:"scoring"`
	RiskLevels    RiskLevels    `yaml:"risk_levels" json:"risk_levels"`
	Grades        GradeBands    `yaml:"grades" json:"grades"`
	Consistency   Consistency   `yaml:"consistency" json:"consistency"`
	Badges        []BadgeEntry  `yaml:"badges" json:"badges"`
	Certification Certification `yaml:"certification" json:"certification"`
}

// Meta identifies a policy revision
type Meta struct {
	PolicyID string `yaml:"policy_id" json:"policy_id"`
	Version  string `yaml:"version" json:"version"`
}

// Scoring holds per-type multipliers
type Scoring struct {
	LegalMultiplier      float64 `yaml:"legal_multiplier" json:"legal_multiplier"`
	RegulatoryMultiplier float64 `yaml:"regulatory_multiplier" json:"regulatory_multiplier"`
	AdvisoryMultiplier   float64 `yaml:"advisory_multiplier" json:"advisory_multiplier"`
	CommercialBonus      float64 `yaml:"commercial_bonus" json:"commercial_bonus"`
	ComplexityPerLot     float64 `yaml:"complexity_per_lot" json:"complexity_per_lot"`
}

// RiskLevels holds the inclusive lower bounds of each band; below HighMin is critical
type RiskLevels struct {
	LowMin    float64 `yaml:"low_min" json:"low_min"`
	MediumMin float64 `yaml:"medium_min" json:"medium_min"`
	HighMin   float64 `yaml:"high_min" json:"high_min"`
}

// GradeBands holds the inclusive lower bounds of grades A ~ D; below DMin is E
type GradeBands struct {
	AMin float64 `yaml:"a_min" json:"a_min"`
	BMin float64 `yaml:"b_min" json:"b_min"`
	CMin float64 `yaml:"c_min" json:"c_min"`
	DMin float64 `yaml:"d_min" json:"d_min"`
}

// Consistency holds the contradiction rule thresholds on the normalized 0 ~ 100 scale
type Consistency struct {
	ComplianceHighMin        float64  `yaml:"compliance_high_min" json:"compliance_high_min"`
	QualityLowBelow          float64  `yaml:"quality_low_below" json:"quality_low_below"`
	EnterpriseWeakBelow      float64  `yaml:"enterprise_weak_below" json:"enterprise_weak_below"`
	PricingLowBelow          float64  `yaml:"pricing_low_below" json:"pricing_low_below"`
	QualityHighMin           float64  `yaml:"quality_high_min" json:"quality_high_min"`
	CriticalLotEnterpriseMin float64  `yaml:"critical_lot_enterprise_min" json:"critical_lot_enterprise_min"`
	FlagPenalty              int      `yaml:"flag_penalty" json:"flag_penalty"`
	ImbalanceBelow           int      `yaml:"imbalance_below" json:"imbalance_below"`
	CriticalLotTypes         []string `yaml:"critical_lot_types" json:"critical_lot_types"`
}

// BadgeEntry maps one grade to its public badge
type BadgeEntry struct {
	Grade       contracts.Grade      `yaml:"grade" json:"grade"`
	Label       string               `yaml:"label" json:"label"`
	Level       contracts.BadgeLevel `yaml:"level" json:"level"`
	Color       string               `yaml:"color" json:"color"`
	Description string               `yaml:"description" json:"description"`
}

// Badge converts the entry into its public form
func (b BadgeEntry) Badge() contracts.Badge {
	return contracts.Badge{
		Label:       b.Label,
		Level:       b.Level,
		Color:       b.Color,
		Description: b.Description,
	}
}

// Certification holds issuance defaults
type Certification struct {
	ValidityDays int `yaml:"validity_days" json:"validity_days"`
}

// BadgeFor returns the badge entry of g, if the table has one
func (p *Policy) BadgeFor(g contracts.Grade) (BadgeEntry, bool) {
	for _, b := range p.Badges {
		if b.Grade == g {
			return b, true
		}
	}
	return BadgeEntry{}, false
}

// IsCriticalLot reports whether a lot type belongs to the critical set
func (p *Policy) IsCriticalLot(lotType string) bool {
	normalized := NormalizeLotType(lotType)
	for _, t := range p.Consistency.CriticalLotTypes {
		if NormalizeLotType(t) == normalized {
			return true
		}
	}
	return false
}

// Default returns the built-in policy
func Default() *Policy {
	return &Policy{
		Meta: Meta{
			PolicyID: "quotecert_default",
			Version:  "1",
		},
		Scoring: Scoring{
			LegalMultiplier:      1.0,
			RegulatoryMultiplier: 1.0,
			AdvisoryMultiplier:   0.5,
			CommercialBonus:      0.3,
			ComplexityPerLot:     2,
		},
		RiskLevels: RiskLevels{
			LowMin:    75,
			MediumMin: 50,
			HighMin:   25,
		},
		Grades: GradeBands{
			AMin: 80,
			BMin: 65,
			CMin: 50,
			DMin: 35,
		},
		Consistency: Consistency{
			ComplianceHighMin:        75,
			QualityLowBelow:          40,
			EnterpriseWeakBelow:      30,
			PricingLowBelow:          40,
			QualityHighMin:           70,
			CriticalLotEnterpriseMin: 40,
			FlagPenalty:              20,
			ImbalanceBelow:           80,
			CriticalLotTypes:         []string{"structural_work", "framing", "roofing", "facade"},
		},
		Badges: []BadgeEntry{
			{Grade: contracts.GradeA, Label: "Excellent", Level: contracts.BadgeExcellent, Color: "#16a34a", Description: "Quote meets every assessed requirement with a strong execution profile"},
			{Grade: contracts.GradeB, Label: "Good", Level: contracts.BadgeGood, Color: "#65a30d", Description: "Quote is sound with minor points to follow up"},
			{Grade: contracts.GradeC, Label: "Adequate", Level: contracts.BadgeAdequate, Color: "#ca8a04", Description: "Quote is acceptable but several points deserve attention"},
			{Grade: contracts.GradeD, Label: "Warning", Level: contracts.BadgeWarning, Color: "#ea580c", Description: "Quote shows significant gaps that should be resolved before signing"},
			{Grade: contracts.GradeE, Label: "Critical", Level: contracts.BadgeCritical, Color: "#dc2626", Description: "Quote presents critical risks and requires a professional review"},
		},
		Certification: Certification{
			ValidityDays: 365,
		},
	}
}
