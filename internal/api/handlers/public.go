package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/intake"
	"github.com/wonny/quotecert/pkg/logger"
)

// PublicVerifier builds public verification results
type PublicVerifier interface {
	BuildPublicView(ctx context.Context, token string, identity contracts.EnterpriseIdentity, ec *contracts.ExecutionContext) contracts.PublicViewResult
	VerifyTokenOnly(ctx context.Context, token string) contracts.TokenStatus
}

// PublicHandler serves the unauthenticated verification page data
// ⭐ SSOT: 공개 엔드포인트는 항상 200 + 판별 가능한 결과 (입력 파싱 실패만 400)
type PublicHandler struct {
	verifier PublicVerifier
	logger   *logger.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(verifier PublicVerifier, log *logger.Logger) *PublicHandler {
	return &PublicHandler{
		verifier: verifier,
		logger:   log,
	}
}

// PublicVerifyRequest represents a public verification request
type PublicVerifyRequest struct {
	Token      string                       `json:"token"`
	Enterprise contracts.EnterpriseIdentity `json:"enterprise"`
	Context    json.RawMessage              `json:"context,omitempty"` // 서술 보강용, 선택
}

// Verify returns the public view model for a certification token
// POST /api/public/verify
func (h *PublicHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req PublicVerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ec *contracts.ExecutionContext
	if len(req.Context) > 0 {
		decoded, err := intake.Decode(bytes.NewReader(req.Context))
		if err != nil {
			// 컨텍스트는 서술에만 쓰이므로 검증 자체는 계속 진행
			h.logger.WithError(err).Warn("Ignoring invalid narrative context")
		} else {
			ec = decoded
		}
	}

	respondJSON(w, http.StatusOK, h.verifier.BuildPublicView(r.Context(), req.Token, req.Enterprise, ec))
}

// Status returns the lightweight validity status of a token
// GET /api/public/verify/{token}/status
func (h *PublicHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	respondJSON(w, http.StatusOK, h.verifier.VerifyTokenOnly(r.Context(), token))
}
