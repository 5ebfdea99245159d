package jobs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	Schedule       string
	StaleTripAfter time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	exceptionDigestJob *BagExceptionDigestJob
	staleTripJob       *StaleTripJob
}

// NewJobManager creates a new job manager with all required jobs.
// Both jobs share one schedule.
func NewJobManager(
	openExceptions OpenExceptionsHandler,
	staleTrips StaleTripsHandler,
	cfg Config,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		exceptionDigestJob: NewBagExceptionDigestJob(openExceptions, cfg.Schedule, logger),
		staleTripJob:       NewStaleTripJob(staleTrips, cfg.Schedule, cfg.StaleTripAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.exceptionDigestJob.Start(); err != nil {
		return fmt.Errorf("failed to start bag exception digest job: %w", err)
	}

	if err := jm.staleTripJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.exceptionDigestJob.Stop()
		return fmt.Errorf("failed to start stale trip job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.staleTripJob.Stop()
	jm.exceptionDigestJob.Stop()
}
