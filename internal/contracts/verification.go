package contracts

import (
	"strings"
	"time"
)

// EnterpriseIdentity is asserted by the caller, never derived from the record
type EnterpriseIdentity struct {
	Name string `json:"name"`
	ID   string `json:"id"` // SIRET 등 사업자 식별자
}

// Validate requires both name and id
func (e EnterpriseIdentity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ValidationError{Field: "enterprise.name", Message: "required"}
	}
	if strings.TrimSpace(e.ID) == "" {
		return ValidationError{Field: "enterprise.id", Message: "required"}
	}
	return nil
}

// BadgeLevel is the severity level carried by a badge
type BadgeLevel string

const (
	BadgeExcellent BadgeLevel = "excellent"
	BadgeGood      BadgeLevel = "good"
	BadgeAdequate  BadgeLevel = "adequate"
	BadgeWarning   BadgeLevel = "warning"
	BadgeCritical  BadgeLevel = "critical"
)

// Badge is the public rendering of a grade
type Badge struct {
	Label       string     `json:"label"`
	Level       BadgeLevel `json:"level"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
}

// Narrative is produced by the narrative collaborator
type Narrative struct {
	Strengths       []string `json:"strengths"`
	VigilancePoints []string `json:"vigilance_points"`
	SummaryText     string   `json:"summary_text"`
}

// ValidityStatus of a verified certification
type ValidityStatus string

const (
	StatusValid ValidityStatus = "valid"
)

// PublicViewModel is the privacy-filtered view of a verified certification.
// 토큰 및 레코드 내부 구조는 절대 노출하지 않음
type PublicViewModel struct {
	Grade             Grade              `json:"grade"`
	Score             float64            `json:"score"`
	Badge             Badge              `json:"badge"`
	Enterprise        EnterpriseIdentity `json:"enterprise"`
	Strengths         []string           `json:"strengths"`
	VigilancePoints   []string           `json:"vigilance_points"`
	Summary           string             `json:"summary,omitempty"`
	NarrativeDegraded bool               `json:"narrative_degraded"`
	IssuedAt          time.Time          `json:"issued_at"`
	ExpiresAt         time.Time          `json:"expires_at"`
	ValidityStatus    ValidityStatus     `json:"validity_status"`
}

// PublicViewResult is the discriminated result of the trust boundary
type PublicViewResult struct {
	Valid      bool             `json:"valid"`
	ViewModel  *PublicViewModel `json:"view_model,omitempty"`
	Reason     VerifyReason     `json:"reason,omitempty"`
	Message    string           `json:"message,omitempty"`
	VerifiedAt time.Time        `json:"verified_at"`
}

// TokenStatus is the lightweight existence check result
type TokenStatus struct {
	Valid      bool         `json:"valid"`
	Grade      Grade        `json:"grade,omitempty"`
	Score      float64      `json:"score,omitempty"`
	ExpiresAt  *time.Time   `json:"expires_at,omitempty"`
	Reason     VerifyReason `json:"reason,omitempty"`
	Message    string       `json:"message,omitempty"`
	VerifiedAt time.Time    `json:"verified_at"`
}
