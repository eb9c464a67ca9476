package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/quotecert/internal/analysis"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/intake"
	"github.com/wonny/quotecert/pkg/logger"
)

// Analyzer runs one analysis over an execution context
type Analyzer interface {
	Run(ctx context.Context, ec *contracts.ExecutionContext, opts analysis.RunOptions) (*analysis.AnalysisReport, error)
}

// AnalysisHandler handles internal analysis endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	analyzer Analyzer
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer Analyzer, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   log,
	}
}

// AnalyzeRequest represents an analysis request
type AnalyzeRequest struct {
	Context      json.RawMessage `json:"context"`
	Issue        bool            `json:"issue"`
	ValidityDays int             `json:"validity_days,omitempty"` // 0 = 정책 기본값
}

// Analyze scores and checks an execution context, optionally issuing a certification
// POST /api/analyses
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Context) == 0 {
		respondError(w, http.StatusBadRequest, "context is required")
		return
	}
	validity, err := contracts.ValidityFromDays(req.ValidityDays)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ec, err := intake.Decode(bytes.NewReader(req.Context))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.analyzer.Run(r.Context(), ec, analysis.RunOptions{
		Issue:    req.Issue,
		Validity: validity,
	})
	if err != nil {
		switch {
		case errors.Is(err, contracts.ErrValidation):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, contracts.ErrComputation):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.WithError(err).Error("Analysis failed")
			respondError(w, http.StatusInternalServerError, "Analysis failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, report)
}
