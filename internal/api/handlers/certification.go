package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/logger"
)

// CertificationHandler handles internal issuance and raw token verification
type CertificationHandler struct {
	manager      contracts.CertificationManager
	defaultValid time.Duration
	logger       *logger.Logger
}

// NewCertificationHandler creates a new certification handler
func NewCertificationHandler(manager contracts.CertificationManager, defaultValidity time.Duration, log *logger.Logger) *CertificationHandler {
	return &CertificationHandler{
		manager:      manager,
		defaultValid: defaultValidity,
		logger:       log,
	}
}

// IssueRequest represents a direct issuance request
type IssueRequest struct {
	Grade        string  `json:"grade"`
	Score        float64 `json:"score"`
	ValidityDays int     `json:"validity_days,omitempty"`
}

// Issue creates and stores a certification record
// POST /api/certifications
func (h *CertificationHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := contracts.ParseGrade(req.Grade)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	validity, err := contracts.ValidityFromDays(req.ValidityDays)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if validity == 0 {
		validity = h.defaultValid
	}

	rec, err := h.manager.Issue(r.Context(), grade, req.Score, validity)
	if err != nil {
		if errors.Is(err, contracts.ErrValidation) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to issue certification")
		respondError(w, http.StatusServiceUnavailable, "Failed to issue certification")
		return
	}

	respondJSON(w, http.StatusCreated, rec)
}

// VerifyRequest represents a raw token verification request
type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify resolves a token to its record without expiry or narrative
// POST /api/certifications/verify
func (h *CertificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.manager.Verify(r.Context(), req.Token))
}
