package consistency

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/pkg/logger"
)

// balanced returns a context that raises no flag
func balanced() *contracts.ExecutionContext {
	return &contracts.ExecutionContext{
		ProjectID:       "PRJ-C",
		Lots:            []contracts.Lot{{Code: "L1", Type: "plumbing"}},
		EnterpriseScore: 20, // 80
		PricingScore:    12, // 60
		QualityScore:    12, // 60
		GlobalScore:     70,
		FinalGrade:      contracts.GradeB,
	}
}

func TestCheck_Balanced(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	got := engine.Check(balanced())

	assert.False(t, got.Degraded)
	assert.Equal(t, 0, got.Flags.Count())
	assert.Equal(t, 100, got.ConsistencyScore)
	assert.False(t, got.ImbalanceDetected)
	assert.Empty(t, got.HumanRiskPatterns)
	assert.Equal(t, contracts.NormalizedPillars{Compliance: 70, Enterprise: 80, Pricing: 60, Quality: 60}, got.Pillars)
}

func TestCheck_ComplianceQualityBoundaries(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	tests := []struct {
		name       string
		compliance float64
		quality    float64 // native 0 ~ 20
		want       bool
	}{
		{"75/39 raises", 75, 7.8, true},
		{"74/39 does not", 74, 7.8, false},
		{"75/40 does not", 75, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := balanced()
			ec.GlobalScore = tt.compliance
			ec.QualityScore = tt.quality

			got := engine.Check(ec)
			assert.Equal(t, tt.want, got.Flags.ComplianceQualityMismatch)
		})
	}
}

func TestCheck_FractionalBoundariesUseUnroundedPillars(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	tests := []struct {
		name   string
		mutate func(ec *contracts.ExecutionContext)
		check  func(f contracts.StructuralFlags) bool
		want   bool
	}{
		{
			name:   "compliance 74.996 stays below 75",
			mutate: func(ec *contracts.ExecutionContext) { ec.GlobalScore = 74.996; ec.QualityScore = 0 },
			check:  func(f contracts.StructuralFlags) bool { return f.ComplianceQualityMismatch },
			want:   false,
		},
		{
			name:   "quality 39.998 stays below 40",
			mutate: func(ec *contracts.ExecutionContext) { ec.GlobalScore = 80; ec.QualityScore = 7.9996 },
			check:  func(f contracts.StructuralFlags) bool { return f.ComplianceQualityMismatch },
			want:   true,
		},
		{
			name:   "enterprise 29.998 stays below 30",
			mutate: func(ec *contracts.ExecutionContext) { ec.EnterpriseScore = 7.4995; ec.FinalGrade = contracts.GradeA },
			check:  func(f contracts.StructuralFlags) bool { return f.EnterpriseRiskMismatch },
			want:   true,
		},
		{
			name:   "quality 69.998 stays below 70",
			mutate: func(ec *contracts.ExecutionContext) { ec.PricingScore = 5; ec.QualityScore = 13.9996 },
			check:  func(f contracts.StructuralFlags) bool { return f.PricingQualityMismatch },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := balanced()
			tt.mutate(ec)

			got := engine.Check(ec)
			assert.False(t, got.Degraded)
			assert.Equal(t, tt.want, tt.check(got.Flags))
		})
	}

	// 표시 값은 반올림 유지
	ec := balanced()
	ec.GlobalScore = 74.996
	assert.Equal(t, float64(75), engine.Check(ec).Pillars.Compliance)
}

func TestCheck_SingleFlagDoesNotTriggerImbalance(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())
	ec := balanced()
	ec.GlobalScore = 90
	ec.QualityScore = 6 // 30

	got := engine.Check(ec)

	assert.Equal(t, 1, got.Flags.Count())
	assert.Equal(t, 80, got.ConsistencyScore)
	assert.False(t, got.ImbalanceDetected, "exactly one flag stays at 80, not below")
	require.Len(t, got.HumanRiskPatterns, 1)
	assert.Contains(t, got.HumanRiskPatterns[0], "90")
	assert.Contains(t, got.HumanRiskPatterns[0], "30")
}

func TestCheck_TwoFlagsTriggerImbalance(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())
	ec := balanced()
	ec.GlobalScore = 90
	ec.QualityScore = 6    // quality 30 → rule 1
	ec.EnterpriseScore = 5 // enterprise 20 with grade B → rule 2

	got := engine.Check(ec)

	assert.True(t, got.Flags.ComplianceQualityMismatch)
	assert.True(t, got.Flags.EnterpriseRiskMismatch)
	assert.Equal(t, 60, got.ConsistencyScore)
	assert.True(t, got.ImbalanceDetected)
	assert.Len(t, got.HumanRiskPatterns, 2)
}

func TestCheck_EachRule(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	tests := []struct {
		name   string
		mutate func(ec *contracts.ExecutionContext)
		check  func(f contracts.StructuralFlags) bool
	}{
		{
			name:   "enterprise risk mismatch needs grade A or B",
			mutate: func(ec *contracts.ExecutionContext) { ec.EnterpriseScore = 7; ec.FinalGrade = contracts.GradeA },
			check:  func(f contracts.StructuralFlags) bool { return f.EnterpriseRiskMismatch },
		},
		{
			name:   "pricing quality mismatch",
			mutate: func(ec *contracts.ExecutionContext) { ec.PricingScore = 7; ec.QualityScore = 14 },
			check:  func(f contracts.StructuralFlags) bool { return f.PricingQualityMismatch },
		},
		{
			name: "critical lot with weak enterprise",
			mutate: func(ec *contracts.ExecutionContext) {
				ec.Lots = append(ec.Lots, contracts.Lot{Code: "L2", Type: "Roofing"})
				ec.EnterpriseScore = 9.75 // 39
				ec.FinalGrade = contracts.GradeC
			},
			check: func(f contracts.StructuralFlags) bool { return f.CriticalLotEnterpriseWeakness },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := balanced()
			tt.mutate(ec)

			got := engine.Check(ec)
			assert.True(t, tt.check(got.Flags))
			assert.Equal(t, 1, got.Flags.Count())
			assert.Equal(t, 80, got.ConsistencyScore)
		})
	}
}

func TestCheck_EnterpriseMismatchIgnoresLowerGrades(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())
	ec := balanced()
	ec.EnterpriseScore = 5
	ec.FinalGrade = contracts.GradeC

	got := engine.Check(ec)
	assert.False(t, got.Flags.EnterpriseRiskMismatch)
}

func TestCheck_AllFlagsFloorAtZero(t *testing.T) {
	p := policy.Default()
	p.Consistency.FlagPenalty = 30
	engine := NewEngine(p, logger.Nop())

	ec := &contracts.ExecutionContext{
		Lots:            []contracts.Lot{{Code: "L1", Type: "framing"}},
		EnterpriseScore: 2,
		PricingScore:    2,
		QualityScore:    14,
		GlobalScore:     95,
		FinalGrade:      contracts.GradeA,
	}
	// quality 70: rules 2, 3, 4
	got := engine.Check(ec)
	assert.Equal(t, 3, got.Flags.Count())
	assert.Equal(t, 10, got.ConsistencyScore)

	ec.QualityScore = 7 // quality 35: rules 1, 2, 4
	got = engine.Check(ec)
	assert.Equal(t, 3, got.Flags.Count())

	p.Consistency.FlagPenalty = 40
	got = NewEngine(p, logger.Nop()).Check(ec)
	assert.Equal(t, 0, got.ConsistencyScore)
	assert.True(t, got.ImbalanceDetected)
}

func TestCheck_Degraded(t *testing.T) {
	var buf bytes.Buffer
	engine := NewEngine(policy.Default(), logger.NewWithWriter(&buf, "debug"))

	got := engine.Check(nil)

	assert.True(t, got.Degraded)
	assert.Equal(t, contracts.StructuralFlags{}, got.Flags)
	assert.Equal(t, 100, got.ConsistencyScore)
	assert.False(t, got.ImbalanceDetected)
	assert.Contains(t, buf.String(), `"component":"consistency"`)

	got = engine.Check(&contracts.ExecutionContext{EnterpriseScore: 30})
	assert.True(t, got.Degraded)
}
