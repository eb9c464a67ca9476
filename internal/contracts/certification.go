package contracts

import (
	"fmt"
	"strings"
	"time"
)

// MaxValidityDays caps a certification window (100 years)
const MaxValidityDays = 36500

// MaxValidity is MaxValidityDays as a duration
const MaxValidity = MaxValidityDays * 24 * time.Hour

// ValidityFromDays converts a day count into a validity window.
// 0 yields 0 (caller default); out-of-range counts are rejected before the int64 multiply can wrap.
func ValidityFromDays(days int) (time.Duration, error) {
	if days < 0 || days > MaxValidityDays {
		return 0, ValidationError{Field: "validity_days", Message: fmt.Sprintf("must be within [0, %d]", MaxValidityDays)}
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

// Grade is the certification grade on the 0 ~ 100 scale
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// AllGrades returns grades from best to worst
func AllGrades() []Grade {
	return []Grade{GradeA, GradeB, GradeC, GradeD, GradeE}
}

// IsValid reports whether g is one of A ~ E
func (g Grade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return true
	}
	return false
}

// ParseGrade normalizes user input ("a", " B ") into a Grade
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", ValidationError{Field: "grade", Message: "must be one of A, B, C, D, E"}
	}
	return g, nil
}

// CertificationRecord is the issued, verifiable artifact.
// Immutable after issuance; never deleted when it expires.
type CertificationRecord struct {
	ID         string    `json:"id"`
	Grade      Grade     `json:"grade"`
	FinalScore float64   `json:"final_score"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Token      string    `json:"token,omitempty"`
}

// ExpiredAt reports whether the record is past its validity window at now.
// 경계값(now == ExpiresAt)은 아직 유효
func (r *CertificationRecord) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// VerifyReason discriminates a failed verification
type VerifyReason string

const (
	ReasonNone        VerifyReason = ""
	ReasonBadInput    VerifyReason = "bad_input"
	ReasonMalformed   VerifyReason = "malformed"
	ReasonNotFound    VerifyReason = "not_found"
	ReasonUnavailable VerifyReason = "unavailable"
	ReasonExpired     VerifyReason = "expired"
)

// VerifyResult is the outcome of resolving a token.
// Valid says nothing about expiry.
type VerifyResult struct {
	Valid   bool                 `json:"valid"`
	Record  *CertificationRecord `json:"record,omitempty"`
	Reason  VerifyReason         `json:"reason,omitempty"`
	Message string               `json:"message,omitempty"`
}
