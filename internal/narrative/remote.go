package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/httputil"
	"github.com/wonny/quotecert/pkg/logger"
)

// RemoteGenerator calls the external narrative service
// ⭐ SSOT: 내러티브 서비스 호출은 이 클라이언트에서만
type RemoteGenerator struct {
	client  *httputil.Client
	baseURL string
	log     *logger.Logger
}

// NewRemoteGenerator creates a client for POST {baseURL}/narratives
func NewRemoteGenerator(baseURL string, timeout time.Duration, log *logger.Logger) *RemoteGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &RemoteGenerator{
		client:  httputil.New(log, timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.WithComponent("narrative"),
	}
}

// WithClient replaces the HTTP client (retry policy, rate limiter)
func (g *RemoteGenerator) WithClient(c *httputil.Client) *RemoteGenerator {
	g.client = c
	return g
}

var _ contracts.NarrativeGenerator = (*RemoteGenerator)(nil)

// narrativeRequest 토큰은 외부 서비스로 절대 전달하지 않음
type narrativeRequest struct {
	Certification certificationSummary        `json:"certification"`
	Context       *contracts.ExecutionContext `json:"context,omitempty"`
}

type certificationSummary struct {
	Grade     contracts.Grade `json:"grade"`
	Score     float64         `json:"score"`
	IssuedAt  time.Time       `json:"issued_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Generate posts the record summary and context to the narrative service
func (g *RemoteGenerator) Generate(ctx context.Context, ec *contracts.ExecutionContext, rec *contracts.CertificationRecord) (*contracts.Narrative, error) {
	if rec == nil {
		return nil, errors.New("certification record is required")
	}

	req := narrativeRequest{
		Certification: certificationSummary{
			Grade:     rec.Grade,
			Score:     rec.FinalScore,
			IssuedAt:  rec.IssuedAt,
			ExpiresAt: rec.ExpiresAt,
		},
		Context: ec,
	}

	var out contracts.Narrative
	if err := g.client.DoJSON(ctx, g.baseURL+"/narratives", req, &out); err != nil {
		return nil, fmt.Errorf("narrative service: %w", err)
	}

	if len(out.Strengths) == 0 && len(out.VigilancePoints) == 0 {
		return nil, errors.New("narrative service returned an empty narrative")
	}

	return &out, nil
}
