package jobs

import (
	"fmt"
	"log/slog"

	"freight/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	loadExpiryJob *LoadExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	expireLoadsHandler commands.ExpireLoadsCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		loadExpiryJob: NewLoadExpiryJob(expireLoadsHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.loadExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start load expiry job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.loadExpiryJob.Stop()
}
