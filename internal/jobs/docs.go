// Package jobs provides scheduled background tasks for the custody service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Jobs only read: they report on custody state and never change it.
//
// # Available Jobs
//
// 1. BagExceptionDigestJob - logs bags marked SHORTAGE or DAMAGE during the last day
// 2. StaleTripJob - logs trips that stayed IN_TRANSIT longer than the configured threshold
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(openExceptionsHandler, staleTripsHandler, jobs.Config{
//		Schedule:       "0 0 * * * *",
//		StaleTripAfter: 12 * time.Hour,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with seconds, e.g. "0 0 * * * *"
// for the top of every hour. Descriptors such as "@every 30m" work as well.
//
// # Error Handling
//
// - Query failures are logged at error level and the run is skipped
// - Failed job starts will stop any already running jobs
package jobs
