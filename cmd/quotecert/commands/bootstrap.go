package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/quotecert/internal/analysis"
	"github.com/wonny/quotecert/internal/certification"
	"github.com/wonny/quotecert/internal/consistency"
	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/internal/narrative"
	"github.com/wonny/quotecert/internal/policy"
	"github.com/wonny/quotecert/internal/scoring"
	"github.com/wonny/quotecert/internal/verification"
	"github.com/wonny/quotecert/pkg/config"
	"github.com/wonny/quotecert/pkg/httputil"
	"github.com/wonny/quotecert/pkg/logger"
	"github.com/wonny/quotecert/pkg/redis"
)

// app holds the wired components shared by every command
// ⭐ SSOT: 의존성 조립은 여기서만
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	policy *policy.Policy

	backend  *certification.Backend // withBackend=false 이면 nil
	manager  *certification.Manager
	analyzer *analysis.Analyzer
	verifier *verification.Service
}

// newApp loads config, logger and policy. With withBackend the certification
// store is opened and issuance/verification are wired.
func newApp(ctx context.Context, withBackend bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if policyFile != "" {
		cfg.PolicyFile = policyFile
	}

	log := logger.New(cfg)

	p, err := policy.LoadOrDefault(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	a := &app{cfg: cfg, log: log, policy: p}

	var manager contracts.CertificationManager
	if withBackend {
		backend, err := certification.OpenBackend(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("open certification store: %w", err)
		}
		a.backend = backend

		signer, err := certification.NewSigner(cfg.Certification.SigningSecret, cfg.Certification.Issuer)
		if err != nil {
			backend.Close()
			return nil, err
		}
		a.manager = certification.NewManager(backend.Store, signer, log)
		manager = a.manager

		a.verifier = verification.NewService(a.manager, a.narrator(), p, log).
			WithTimeout(cfg.Verification.Timeout)
	}

	analyzer, err := analysis.NewAnalyzer(
		scoring.NewEngine(p, log),
		consistency.NewEngine(p, log),
		manager,
		p,
		log,
	)
	if err != nil {
		a.close()
		return nil, err
	}
	a.analyzer = analyzer

	return a, nil
}

// narrator picks the remote narrative service when configured, else the local template
func (a *app) narrator() contracts.NarrativeGenerator {
	if a.cfg.Narrative.URL == "" {
		return narrative.NewTemplateGenerator(a.policy)
	}

	client := httputil.New(a.log, a.cfg.Narrative.Timeout).WithRetry(1, 200*time.Millisecond)
	if a.backend != nil && a.backend.Redis.Enabled() {
		client = client.WithRateLimiter(redis.NewRateLimiter(a.backend.Redis, "quotecert"), redis.NarrativeRateLimit)
	}

	return narrative.NewRemoteGenerator(a.cfg.Narrative.URL, a.cfg.Narrative.Timeout, a.log).WithClient(client)
}

func (a *app) close() {
	if a.backend != nil {
		a.backend.Close()
	}
}
