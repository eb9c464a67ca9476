package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/quotecert/pkg/logger"
)

// Pinger is anything that can report its connection health
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendHealthJob pings the certification backend periodically
type BackendHealthJob struct {
	backend Pinger
	logger  *logger.Logger
}

// NewBackendHealthJob creates a new backend health job
func NewBackendHealthJob(backend Pinger, log *logger.Logger) *BackendHealthJob {
	return &BackendHealthJob{
		backend: backend,
		logger:  log.WithComponent("backend_health"),
	}
}

// Name returns the job name
func (j *BackendHealthJob) Name() string {
	return "backend_health"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *BackendHealthJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run executes the health check
func (j *BackendHealthJob) Run(ctx context.Context) error {
	if err := j.backend.Ping(ctx); err != nil {
		return fmt.Errorf("certification backend unhealthy: %w", err)
	}

	j.logger.Debug("Certification backend healthy")
	return nil
}
