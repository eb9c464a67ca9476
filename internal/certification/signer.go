package certification

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wonny/quotecert/internal/contracts"
)

// MinSecretLen HS256 서명 키 최소 길이 (bytes)
const MinSecretLen = 32

// ErrMalformedToken covers unparsable, tampered or foreign tokens
var ErrMalformedToken = errors.New("malformed token")

// Claims bound into every verification token
type Claims struct {
	Grade contracts.Grade `json:"grd"`
	Score float64         `json:"scr"`
	jwt.RegisteredClaims
}

// Signer issues and parses HS256 verification tokens
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a signer; the secret must be at least MinSecretLen bytes
func NewSigner(secret, issuer string) (*Signer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLen)
	}
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}
	return &Signer{secret: []byte(secret), issuer: issuer}, nil
}

// Sign binds the record id, grade, score and validity window into a token
func (s *Signer) Sign(rec *contracts.CertificationRecord) (string, error) {
	claims := Claims{
		Grade: rec.Grade,
		Score: rec.FinalScore,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(rec.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse checks signature and issuer only.
// exp 는 검사하지 않음: 만료 판단은 호출자(공개 검증 서비스)의 몫
func (s *Signer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrMalformedToken, claims.Issuer)
	}
	if claims.ID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrMalformedToken)
	}
	return claims, nil
}
