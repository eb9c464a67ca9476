package contracts

import (
	"context"
	"time"
)

// ============================================================================
// C1: Scoring
// ============================================================================

// Scorer computes the risk-weighted score. Never fails; see ScoringResult.Degraded.
type Scorer interface {
	Compute(ec *ExecutionContext) ScoringResult
}

// ============================================================================
// C2: Consistency
// ============================================================================

// ConsistencyChecker audits cross-pillar contradictions. Never fails.
type ConsistencyChecker interface {
	Check(ec *ExecutionContext) ConsistencyResult
}

// ============================================================================
// C3: Certification
// ============================================================================

// CertificationManager issues records and resolves tokens back to them
type CertificationManager interface {
	Issue(ctx context.Context, grade Grade, score float64, validity time.Duration) (*CertificationRecord, error)
	// Verify checks existence and integrity only, not expiry
	Verify(ctx context.Context, token string) VerifyResult
}

// CertificationRepository persists issued records
type CertificationRepository interface {
	Save(ctx context.Context, rec *CertificationRecord) error
	Get(ctx context.Context, id string) (*CertificationRecord, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]CertificationRecord, error)
}

// ============================================================================
// C4: Verification
// ============================================================================

// NarrativeGenerator is the external narrative collaborator. May fail.
type NarrativeGenerator interface {
	Generate(ctx context.Context, ec *ExecutionContext, rec *CertificationRecord) (*Narrative, error)
}
