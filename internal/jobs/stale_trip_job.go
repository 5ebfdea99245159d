package jobs

import (
	"context"
	"time"

	"custody/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type StaleTripsHandler interface {
	Handle(ctx context.Context, query queries.GetStaleTripsQuery) ([]queries.StaleTrip, error)
}

// StaleTripJob reports trips that have been IN_TRANSIT for longer than the
// configured threshold. It only reads.
type StaleTripJob struct {
	handler  StaleTripsHandler
	schedule string
	after    time.Duration
	cron     *cron.Cron
	now      func() time.Time
	logger   *zap.Logger
}

func NewStaleTripJob(handler StaleTripsHandler, schedule string, after time.Duration, logger *zap.Logger) *StaleTripJob {
	return &StaleTripJob{
		handler:  handler,
		schedule: schedule,
		after:    after,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
		logger:   logger.Named("stale_trip_job"),
	}
}

func (j *StaleTripJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Stale trip job started",
		zap.String("schedule", j.schedule),
		zap.Duration("after", j.after),
	)
	return nil
}

func (j *StaleTripJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Stale trip job stopped")
}

func (j *StaleTripJob) Run(ctx context.Context) {
	now := j.now().UTC()
	query, err := queries.NewGetStaleTripsQuery(now.Add(-j.after))
	if err != nil {
		j.logger.Error("Failed to build stale trips query", zap.Error(err))
		return
	}

	trips, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.Error("Stale trip check failed", zap.Error(err))
		return
	}

	for _, t := range trips {
		j.logger.Warn("Trip in transit beyond threshold",
			zap.String("trip_code", t.Code),
			zap.String("origin", t.OriginEntityID),
			zap.String("destination", t.DestinationEntityID),
			zap.String("vehicle_number", t.VehicleNumber),
			zap.String("driver_name", t.DriverName),
			zap.String("driver_phone", t.DriverPhone),
			zap.Int("bags", t.BagCount),
			zap.Duration("in_transit", now.Sub(t.DispatchedAt)),
		)
	}
}
