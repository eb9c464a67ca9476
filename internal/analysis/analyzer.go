package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/internal/scoring"
	"github.com/wonny/quotecert/pkg/logger"
)

// Analyzer coordinates one analysis run
// ⭐ SSOT: 파이프라인 조율은 여기서만
// C0 → {C1 ∥ C2} → (옵션) C3
type Analyzer struct {
	scorer  contracts.Scorer
	checker contracts.ConsistencyChecker
	manager contracts.CertificationManager // nil 이면 발급 불가

	policy     *policy.Policy
	policyHash string

	logger *logger.Logger
	now    func() time.Time
}

// RunOptions holds options for a single run
type RunOptions struct {
	RunID    string        // 비어 있으면 UUID 생성
	Issue    bool          // true 이면 C3 발급까지 수행
	Validity time.Duration // 0 이면 정책 기본 유효기간
}

// AnalysisReport holds the results of a complete run
type AnalysisReport struct {
	RunID      string `json:"run_id"`
	ProjectID  string `json:"project_id"`
	PolicyID   string `json:"policy_id"`
	PolicyHash string `json:"policy_hash"`

	Scoring     contracts.ScoringResult     `json:"scoring"`
	Consistency contracts.ConsistencyResult `json:"consistency"`

	Grade         contracts.Grade    `json:"grade"`
	UpstreamGrade contracts.Grade    `json:"upstream_grade,omitempty"`
	GradeMismatch bool               `json:"grade_mismatch"`
	QuoteScale    scoring.QuoteScore `json:"quote_scale"`

	Certification *contracts.CertificationRecord `json:"certification,omitempty"`

	Stages     []contracts.StageResult `json:"stages"`
	Degraded   bool                    `json:"degraded"`
	StartedAt  time.Time               `json:"started_at"`
	DurationMS int64                   `json:"duration_ms"`
}

// NewAnalyzer creates an analyzer. manager may be nil when issuance is not needed.
func NewAnalyzer(
	scorer contracts.Scorer,
	checker contracts.ConsistencyChecker,
	manager contracts.CertificationManager,
	p *policy.Policy,
	log *logger.Logger,
) (*Analyzer, error) {
	if p == nil {
		p = policy.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	hash, err := policy.Hash(p)
	if err != nil {
		return nil, fmt.Errorf("failed to hash policy: %w", err)
	}

	return &Analyzer{
		scorer:     scorer,
		checker:    checker,
		manager:    manager,
		policy:     p,
		policyHash: hash,
		logger:     log.WithComponent("analysis"),
		now:        time.Now,
	}, nil
}

// Run executes scoring and consistency in parallel, derives the grade and optionally issues
func (a *Analyzer) Run(ctx context.Context, ec *contracts.ExecutionContext, opts RunOptions) (*AnalysisReport, error) {
	startTime := a.now()

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	report := &AnalysisReport{
		RunID:      runID,
		PolicyID:   a.policy.Meta.PolicyID,
		PolicyHash: a.policyHash,
		StartedAt:  startTime,
		Stages:     make([]contracts.StageResult, 0, 4),
	}
	defer func() {
		report.DurationMS = a.now().Sub(startTime).Milliseconds()
	}()

	log := a.logger.WithField("run_id", runID)

	// C0: Intake
	stageStart := a.now()
	if err := ec.Validate(); err != nil {
		report.Stages = append(report.Stages, a.stage(contracts.StageIntake, stageStart, err))
		return report, fmt.Errorf("%s failed: %w", contracts.StageIntake.ShortName(), err)
	}
	report.ProjectID = ec.ProjectID
	report.UpstreamGrade = ec.FinalGrade
	report.Stages = append(report.Stages, a.stage(contracts.StageIntake, stageStart, nil))

	log.WithFields(map[string]interface{}{
		"project_id":  ec.ProjectID,
		"obligations": len(ec.Obligations),
		"lots":        len(ec.Lots),
		"issue":       opts.Issue,
	}).Info("Starting analysis run")

	// C1 ∥ C2: 서로 데이터 의존성 없음
	var (
		scoreResult       contracts.ScoringResult
		consistencyResult contracts.ConsistencyResult
		scoreDur          time.Duration
		consistencyDur    time.Duration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		t := a.now()
		scoreResult = a.scorer.Compute(ec)
		scoreDur = a.now().Sub(t)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		t := a.now()
		consistencyResult = a.checker.Check(ec)
		consistencyDur = a.now().Sub(t)
		return nil
	})
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("analysis cancelled: %w", err)
	}

	report.Scoring = scoreResult
	report.Consistency = consistencyResult
	report.Degraded = scoreResult.Degraded || consistencyResult.Degraded
	report.Stages = append(report.Stages,
		contracts.StageResult{Stage: contracts.StageScoring, Success: true, Degraded: scoreResult.Degraded, DurationMS: scoreDur.Milliseconds()},
		contracts.StageResult{Stage: contracts.StageConsistency, Success: true, Degraded: consistencyResult.Degraded, DurationMS: consistencyDur.Milliseconds()},
	)

	// 등급은 이번 실행의 Scoring Result 에서만 도출
	report.Grade = scoring.GradeFor(scoreResult.GlobalScore, a.policy.Grades)
	report.QuoteScale = scoring.ToQuoteScale(scoreResult.GlobalScore)
	if ec.FinalGrade != "" && ec.FinalGrade != report.Grade {
		report.GradeMismatch = true
		log.WithFields(map[string]interface{}{
			"upstream_grade": ec.FinalGrade,
			"derived_grade":  report.Grade,
		}).Warn("Upstream grade disagrees with derived grade")
	}

	if consistencyResult.ImbalanceDetected {
		log.WithField("patterns", consistencyResult.HumanRiskPatterns).Warn("Structural imbalance detected")
	}

	// C3: 두 엔진 완료 후에만 발급
	if opts.Issue {
		stageStart = a.now()
		rec, err := a.issue(ctx, scoreResult, report.Grade, opts.Validity)
		report.Stages = append(report.Stages, a.stage(contracts.StageCertification, stageStart, err))
		if err != nil {
			return report, fmt.Errorf("%s failed: %w", contracts.StageCertification.ShortName(), err)
		}
		report.Certification = rec
	}

	log.WithFields(map[string]interface{}{
		"global_score":      scoreResult.GlobalScore,
		"grade":             report.Grade,
		"risk_level":        scoreResult.RiskLevel,
		"consistency_score": consistencyResult.ConsistencyScore,
		"degraded":          report.Degraded,
	}).Info("Analysis run completed")

	return report, nil
}

func (a *Analyzer) issue(ctx context.Context, result contracts.ScoringResult, grade contracts.Grade, validity time.Duration) (*contracts.CertificationRecord, error) {
	if a.manager == nil {
		return nil, fmt.Errorf("certification manager not configured")
	}
	// 안전 기본값(degraded)은 진짜 판정이 아니므로 인증 불가
	if result.Degraded {
		return nil, fmt.Errorf("%w: refusing to certify a degraded score (%s)", contracts.ErrComputation, result.DegradedReason)
	}
	if validity <= 0 {
		validity = time.Duration(a.policy.Certification.ValidityDays) * 24 * time.Hour
	}
	return a.manager.Issue(ctx, grade, result.GlobalScore, validity)
}

func (a *Analyzer) stage(s contracts.Stage, start time.Time, err error) contracts.StageResult {
	r := contracts.StageResult{
		Stage:      s,
		Success:    err == nil,
		DurationMS: a.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
