package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/narrative"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/pkg/logger"
)

// DefaultTimeout bounds the I/O steps of one verification request
const DefaultTimeout = 10 * time.Second

// Public messages
const (
	MsgValid          = "Certification is valid"
	MsgTokenRequired  = "Verification token is required"
	MsgIdentityNeeded = "Enterprise name and identifier are required"
	MsgUnavailable    = "Certification service is temporarily unavailable"
)

// Service is the public trust boundary
// ⭐ SSOT: 공개 검증 응답은 여기서만 조립, 항상 판별 가능한 결과 반환 (절대 panic/error 없음)
type Service struct {
	manager  contracts.CertificationManager
	narrator contracts.NarrativeGenerator
	policy   *policy.Policy
	log      *logger.Logger
	now      func() time.Time
	timeout  time.Duration
}

// NewService wires the trust boundary. narrator may be nil (fallback narrative only).
func NewService(manager contracts.CertificationManager, narrator contracts.NarrativeGenerator, p *policy.Policy, log *logger.Logger) *Service {
	if p == nil {
		p = policy.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		manager:  manager,
		narrator: narrator,
		policy:   p,
		log:      log.WithComponent("verification"),
		now:      time.Now,
		timeout:  DefaultTimeout,
	}
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithTimeout replaces the request-scoped timeout
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// BuildPublicView runs the full verification flow:
// input check → token resolution → expiry → narrative → badge → view model.
// ec is optional and only feeds the narrative.
func (s *Service) BuildPublicView(ctx context.Context, token string, identity contracts.EnterpriseIdentity, ec *contracts.ExecutionContext) contracts.PublicViewResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(token) == "" {
		return s.rejected(contracts.ReasonBadInput, MsgTokenRequired)
	}
	if err := identity.Validate(); err != nil {
		return s.rejected(contracts.ReasonBadInput, MsgIdentityNeeded)
	}

	rec, failure := s.resolve(ctx, token)
	if failure != nil {
		return contracts.PublicViewResult{
			Valid:      false,
			Reason:     failure.Reason,
			Message:    failure.Message,
			VerifiedAt: s.now(),
		}
	}

	story, degraded := s.narrate(ctx, ec, rec)

	view := &contracts.PublicViewModel{
		Grade: rec.Grade,
		Score: rec.FinalScore,
		Badge: BadgeFor(s.policy, rec.Grade),
		Enterprise: contracts.EnterpriseIdentity{
			Name: strings.TrimSpace(identity.Name),
			ID:   strings.TrimSpace(identity.ID),
		},
		Strengths:         story.Strengths,
		VigilancePoints:   story.VigilancePoints,
		Summary:           story.SummaryText,
		NarrativeDegraded: degraded,
		IssuedAt:          rec.IssuedAt,
		ExpiresAt:         rec.ExpiresAt,
		ValidityStatus:    contracts.StatusValid,
	}

	s.log.WithFields(map[string]interface{}{
		"grade":              rec.Grade,
		"narrative_degraded": degraded,
	}).Info("Public verification succeeded")

	return contracts.PublicViewResult{
		Valid:      true,
		ViewModel:  view,
		Message:    MsgValid,
		VerifiedAt: s.now(),
	}
}

// VerifyTokenOnly performs the input, resolution and expiry steps only
func (s *Service) VerifyTokenOnly(ctx context.Context, token string) contracts.TokenStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(token) == "" {
		return contracts.TokenStatus{Reason: contracts.ReasonBadInput, Message: MsgTokenRequired, VerifiedAt: s.now()}
	}

	rec, failure := s.resolve(ctx, token)
	if failure != nil {
		return contracts.TokenStatus{Reason: failure.Reason, Message: failure.Message, VerifiedAt: s.now()}
	}

	expiresAt := rec.ExpiresAt
	return contracts.TokenStatus{
		Valid:      true,
		Grade:      rec.Grade,
		Score:      rec.FinalScore,
		ExpiresAt:  &expiresAt,
		Message:    MsgValid,
		VerifiedAt: s.now(),
	}
}

// resolve verifies the token then checks expiry.
// 만료는 "없음"과 다른 메시지로 구분 (갱신 vs 미발급)
func (s *Service) resolve(ctx context.Context, token string) (rec *contracts.CertificationRecord, failure *contracts.VerifyResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", fmt.Sprint(r)).Error("Token resolution panicked")
			rec, failure = nil, &contracts.VerifyResult{Reason: contracts.ReasonUnavailable, Message: MsgUnavailable}
		}
	}()

	res := s.manager.Verify(ctx, token)
	if !res.Valid || res.Record == nil {
		if res.Reason == contracts.ReasonNone {
			res.Reason = contracts.ReasonNotFound
		}
		res.Valid = false
		res.Record = nil
		return nil, &res
	}

	rec = res.Record
	if now := s.now(); rec.ExpiredAt(now) {
		return nil, &contracts.VerifyResult{
			Valid:  false,
			Reason: contracts.ReasonExpired,
			Message: fmt.Sprintf("Certification expired on %s; the holder should request a renewal",
				rec.ExpiresAt.UTC().Format("2006-01-02")),
		}
	}

	return rec, nil
}

// narrate calls the collaborator; any failure yields the fixed fallback
func (s *Service) narrate(ctx context.Context, ec *contracts.ExecutionContext, rec *contracts.CertificationRecord) (story *contracts.Narrative, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", fmt.Sprint(r)).Warn("Narrative generator panicked, using fallback")
			story, degraded = narrative.Fallback(), true
		}
	}()

	if s.narrator == nil {
		return narrative.Fallback(), true
	}

	n, err := s.narrator.Generate(ctx, ec, rec)
	if err != nil || n == nil {
		s.log.WithError(err).Warn("Narrative generation failed, using fallback")
		return narrative.Fallback(), true
	}
	return n, false
}

func (s *Service) rejected(reason contracts.VerifyReason, msg string) contracts.PublicViewResult {
	return contracts.PublicViewResult{
		Valid:      false,
		Reason:     reason,
		Message:    msg,
		VerifiedAt: s.now(),
	}
}
