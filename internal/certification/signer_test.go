package certification

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quotecert/internal/contracts"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testRecord() *contracts.CertificationRecord {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &contracts.CertificationRecord{
		ID:         "5b1f5a8e-2f4b-4d52-9a51-0f0d7b7d3a11",
		Grade:      contracts.GradeB,
		FinalScore: 72.5,
		IssuedAt:   issued,
		ExpiresAt:  issued.Add(24 * time.Hour),
	}
}

func TestNewSigner_RejectsShortSecret(t *testing.T) {
	_, err := NewSigner("short", "quotecert")
	assert.Error(t, err)

	_, err = NewSigner(testSecret, "")
	assert.Error(t, err)
}

func TestSigner_RoundTrip(t *testing.T) {
	signer, err := NewSigner(testSecret, "quotecert")
	require.NoError(t, err)

	rec := testRecord()
	token, err := signer.Sign(rec)
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, claims.ID)
	assert.Equal(t, rec.Grade, claims.Grade)
	assert.Equal(t, rec.FinalScore, claims.Score)
	assert.True(t, rec.IssuedAt.Equal(claims.IssuedAt.Time))
	assert.True(t, rec.ExpiresAt.Equal(claims.ExpiresAt.Time))
}

func TestSigner_ParseIgnoresExpiry(t *testing.T) {
	signer, _ := NewSigner(testSecret, "quotecert")

	rec := testRecord()
	rec.IssuedAt = time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	rec.ExpiresAt = rec.IssuedAt.Add(time.Hour)

	token, err := signer.Sign(rec)
	require.NoError(t, err)

	_, err = signer.Parse(token)
	assert.NoError(t, err, "expired tokens are still structurally valid")
}

func TestSigner_ParseRejects(t *testing.T) {
	signer, _ := NewSigner(testSecret, "quotecert")
	other, _ := NewSigner(strings.Repeat("x", 32), "quotecert")
	foreign, _ := NewSigner(testSecret, "someone-else")

	valid, _ := signer.Sign(testRecord())
	wrongKey, _ := other.Sign(testRecord())
	wrongIssuer, _ := foreign.Sign(testRecord())

	// alg=none 토큰
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Grade:            contracts.GradeA,
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", Issuer: "quotecert"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"alg none":     none,
		"tampered":     tampered,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Parse(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedToken))
		})
	}
}
