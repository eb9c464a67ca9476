package certification

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/logger"
)

// Verification messages. Expiry has its own message in the verification service.
const (
	MsgAuthentic   = "Certification is authentic"
	MsgEmptyToken  = "Verification token is required"
	MsgMalformed   = "Verification token is malformed or has been tampered with"
	MsgNotFound    = "No certification was issued for this token"
	MsgUnavailable = "Certification store is temporarily unavailable"
	MsgMismatch    = "Verification token does not match the issued certification"
)

// Manager issues certification records and resolves tokens back to them
// ⭐ SSOT: 토큰 발급/해석은 여기서만
type Manager struct {
	store  contracts.CertificationRepository
	signer *Signer
	log    *logger.Logger
	now    func() time.Time
}

// NewManager creates a certification manager
func NewManager(store contracts.CertificationRepository, signer *Signer, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store:  store,
		signer: signer,
		log:    log.WithComponent("certification"),
		now:    time.Now,
	}
}

// WithClock replaces the time source
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

var _ contracts.CertificationManager = (*Manager)(nil)

// Issue allocates an id, stamps the validity window, signs a token and persists the record
func (m *Manager) Issue(ctx context.Context, grade contracts.Grade, score float64, validity time.Duration) (*contracts.CertificationRecord, error) {
	if !grade.IsValid() {
		return nil, contracts.ValidationError{Field: "grade", Message: fmt.Sprintf("unknown grade %q", grade)}
	}
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, contracts.ValidationError{Field: "score", Message: "must be within [0, 100]"}
	}

	if validity > contracts.MaxValidity {
		return nil, contracts.ValidationError{Field: "validity", Message: fmt.Sprintf("must not exceed %d days", contracts.MaxValidityDays)}
	}

	// 토큰(NumericDate)과 저장소 정밀도를 맞추기 위해 초 단위로 절삭
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(validity).Truncate(time.Second)
	if !expiresAt.After(issuedAt) {
		return nil, contracts.ValidationError{Field: "validity", Message: "must be at least one second"}
	}

	rec := &contracts.CertificationRecord{
		ID:         uuid.NewString(),
		Grade:      grade,
		FinalScore: score,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}

	token, err := m.signer.Sign(rec)
	if err != nil {
		return nil, err
	}
	rec.Token = token

	if err := m.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to persist certification: %w", err)
	}

	m.log.WithFields(map[string]interface{}{
		"certification_id": rec.ID,
		"grade":            rec.Grade,
		"score":            rec.FinalScore,
		"expires_at":       rec.ExpiresAt,
	}).Info("Certification issued")

	return rec, nil
}

// Verify resolves a token to its record. Existence and integrity only; expiry is not evaluated.
// Never returns an error: every failure is {Valid: false, Reason, Message}.
func (m *Manager) Verify(ctx context.Context, token string) (result contracts.VerifyResult) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WithField("panic", fmt.Sprint(r)).Error("Certification lookup panicked")
			result = invalid(contracts.ReasonUnavailable, MsgUnavailable)
		}
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return invalid(contracts.ReasonBadInput, MsgEmptyToken)
	}

	claims, err := m.signer.Parse(token)
	if err != nil {
		m.log.WithError(err).Debug("Token rejected")
		return invalid(contracts.ReasonMalformed, MsgMalformed)
	}

	rec, err := m.store.Get(ctx, claims.ID)
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		return invalid(contracts.ReasonNotFound, MsgNotFound)
	case err != nil:
		// 저장소 장애는 신뢰 경계로 전파하지 않음 (fail-closed)
		m.log.WithError(err).WithField("certification_id", claims.ID).Error("Certification lookup failed")
		return invalid(contracts.ReasonUnavailable, MsgUnavailable)
	}

	if !matches(rec, claims, token) {
		m.log.WithField("certification_id", claims.ID).Warn("Token claims disagree with stored record")
		return invalid(contracts.ReasonMalformed, MsgMismatch)
	}

	return contracts.VerifyResult{
		Valid:   true,
		Record:  rec,
		Message: MsgAuthentic,
	}
}

func matches(rec *contracts.CertificationRecord, claims *Claims, token string) bool {
	if rec.Grade != claims.Grade || rec.FinalScore != claims.Score {
		return false
	}
	if !rec.IssuedAt.Equal(claims.IssuedAt.Time) || !rec.ExpiresAt.Equal(claims.ExpiresAt.Time) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(rec.Token), []byte(token)) == 1
}

func invalid(reason contracts.VerifyReason, msg string) contracts.VerifyResult {
	return contracts.VerifyResult{Valid: false, Reason: reason, Message: msg}
}
