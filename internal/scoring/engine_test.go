package scoring

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/pkg/logger"
)

func contextWith(weights map[contracts.ObligationType]float64, complexity int) *contracts.ExecutionContext {
	ec := &contracts.ExecutionContext{ProjectID: "PRJ-T", LotComplexityCount: complexity}
	for _, typ := range []contracts.ObligationType{
		contracts.ObligationLegal,
		contracts.ObligationRegulatory,
		contracts.ObligationAdvisory,
		contracts.ObligationCommercial,
	} {
		if w, ok := weights[typ]; ok {
			ec.Obligations = append(ec.Obligations, contracts.Obligation{
				ID: string(typ), Type: typ, Severity: contracts.SeverityHigh, Weight: w,
			})
		}
	}
	return ec
}

func TestCompute_WorkedExamples(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	tests := []struct {
		name       string
		weights    map[contracts.ObligationType]float64
		wantRisk   float64
		wantGlobal float64
		wantLevel  contracts.RiskLevel
	}{
		{
			name:       "legal only",
			weights:    map[contracts.ObligationType]float64{contracts.ObligationLegal: 15},
			wantRisk:   15,
			wantGlobal: 85,
			wantLevel:  contracts.RiskLow,
		},
		{
			name: "legal regulatory advisory",
			weights: map[contracts.ObligationType]float64{
				contracts.ObligationLegal:      15,
				contracts.ObligationRegulatory: 20,
				contracts.ObligationAdvisory:   10,
			},
			wantRisk:   40,
			wantGlobal: 60,
			wantLevel:  contracts.RiskMedium,
		},
		{
			name: "commercial bonus",
			weights: map[contracts.ObligationType]float64{
				contracts.ObligationLegal:      20,
				contracts.ObligationCommercial: 10,
			},
			wantRisk:   17,
			wantGlobal: 83,
			wantLevel:  contracts.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Compute(contextWith(tt.weights, 0))

			assert.False(t, got.Degraded)
			assert.Equal(t, tt.wantRisk, got.RiskScore)
			assert.Equal(t, 0.0, got.ComplexityImpact)
			assert.Equal(t, tt.wantGlobal, got.GlobalScore)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
		})
	}
}

func TestCompute_CommercialNeverNegative(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	got := engine.Compute(contextWith(map[contracts.ObligationType]float64{
		contracts.ObligationCommercial: 50,
	}, 0))

	assert.Equal(t, 0.0, got.RiskScore)
	assert.Equal(t, 100.0, got.GlobalScore)
	assert.Equal(t, 50.0, got.Breakdown.CommercialWeight, "bonus stays in the breakdown")
}

func TestCompute_ComplexityImpact(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	got := engine.Compute(contextWith(map[contracts.ObligationType]float64{
		contracts.ObligationLegal: 15,
	}, 5))

	assert.Equal(t, 10.0, got.ComplexityImpact)
	assert.Equal(t, 75.0, got.GlobalScore)
	assert.Equal(t, contracts.RiskLow, got.RiskLevel, "75 is the closed lower bound of low")
}

func TestCompute_FloorsAtZero(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())

	got := engine.Compute(contextWith(map[contracts.ObligationType]float64{
		contracts.ObligationLegal:      80,
		contracts.ObligationRegulatory: 60,
	}, 10))

	assert.Equal(t, 0.0, got.GlobalScore)
	assert.Equal(t, contracts.RiskCritical, got.RiskLevel)
}

func TestCompute_Breakdown(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())
	ec := &contracts.ExecutionContext{
		Obligations: []contracts.Obligation{
			{ID: "a", Type: contracts.ObligationLegal, Severity: contracts.SeverityCritical, Weight: 10},
			{ID: "b", Type: contracts.ObligationLegal, Severity: contracts.SeverityCritical, Weight: 5},
			{ID: "c", Type: contracts.ObligationAdvisory, Severity: contracts.SeverityLow, Weight: 4},
		},
		LotComplexityCount: 2,
	}

	got := engine.Compute(ec)

	assert.Equal(t, 15.0, got.Breakdown.LegalWeight)
	assert.Equal(t, 4.0, got.Breakdown.AdvisoryWeight)
	assert.Equal(t, 3, got.Breakdown.ObligationCount)
	assert.Equal(t, 2, got.Breakdown.LotComplexity)
	assert.Equal(t, contracts.SeverityTotal{Count: 2, Weight: 15}, got.Breakdown.BySeverity[contracts.SeverityCritical])
	assert.Equal(t, contracts.SeverityTotal{Count: 1, Weight: 4}, got.Breakdown.BySeverity[contracts.SeverityLow])
}

func TestCompute_RangeProperty(t *testing.T) {
	engine := NewEngine(policy.Default(), logger.Nop())
	rng := rand.New(rand.NewSource(42))
	bands := policy.Default().RiskLevels

	for i := 0; i < 2000; i++ {
		weights := map[contracts.ObligationType]float64{
			contracts.ObligationLegal:      rng.Float64() * 60,
			contracts.ObligationRegulatory: rng.Float64() * 60,
			contracts.ObligationAdvisory:   rng.Float64() * 60,
			contracts.ObligationCommercial: rng.Float64() * 60,
		}
		got := engine.Compute(contextWith(weights, rng.Intn(20)))

		require.False(t, got.Degraded)
		require.GreaterOrEqual(t, got.GlobalScore, 0.0)
		require.LessOrEqual(t, got.GlobalScore, 100.0)
		require.GreaterOrEqual(t, got.RiskScore, 0.0)
		require.Equal(t, RiskLevelFor(got.GlobalScore, bands), got.RiskLevel)
	}
}

func TestCompute_DegradedOnBadContext(t *testing.T) {
	var buf bytes.Buffer
	engine := NewEngine(policy.Default(), logger.NewWithWriter(&buf, "debug"))

	tests := []struct {
		name string
		ec   *contracts.ExecutionContext
	}{
		{"nil context", nil},
		{"unknown type", &contracts.ExecutionContext{Obligations: []contracts.Obligation{{Type: "moral", Weight: 1}}}},
		{"pillar out of range", &contracts.ExecutionContext{QualityScore: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			got := engine.Compute(tt.ec)

			assert.True(t, got.Degraded)
			assert.NotEmpty(t, got.DegradedReason)
			assert.Equal(t, 0.0, got.RiskScore)
			assert.Equal(t, 100.0, got.GlobalScore)
			assert.Equal(t, contracts.RiskLow, got.RiskLevel)
			assert.Contains(t, buf.String(), `"degraded":true`)
			assert.Contains(t, buf.String(), `"component":"scoring"`)
		})
	}
}

func TestRiskLevelFor_Bounds(t *testing.T) {
	bands := policy.Default().RiskLevels

	tests := []struct {
		score float64
		want  contracts.RiskLevel
	}{
		{100, contracts.RiskLow},
		{75, contracts.RiskLow},
		{74.99, contracts.RiskMedium},
		{50, contracts.RiskMedium},
		{49.99, contracts.RiskHigh},
		{25, contracts.RiskHigh},
		{24.99, contracts.RiskCritical},
		{0, contracts.RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score, bands), "score %v", tt.score)
	}
}
