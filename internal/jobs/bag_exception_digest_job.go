package jobs

import (
	"context"
	"time"

	"custody/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const digestLookback = 24 * time.Hour

type OpenExceptionsHandler interface {
	Handle(ctx context.Context, query queries.GetOpenExceptionsQuery) (*queries.GetOpenExceptionsQueryResponse, error)
}

// BagExceptionDigestJob periodically logs the bags marked SHORTAGE or DAMAGE
// over the last day so hub managers can pick them up for investigation.
type BagExceptionDigestJob struct {
	handler  OpenExceptionsHandler
	schedule string
	cron     *cron.Cron
	now      func() time.Time
	logger   *zap.Logger
}

func NewBagExceptionDigestJob(handler OpenExceptionsHandler, schedule string, logger *zap.Logger) *BagExceptionDigestJob {
	return &BagExceptionDigestJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
		logger:   logger.Named("bag_exception_digest_job"),
	}
}

func (j *BagExceptionDigestJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Bag exception digest job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *BagExceptionDigestJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Bag exception digest job stopped")
}

// Run builds one digest. Failures are logged, never returned.
func (j *BagExceptionDigestJob) Run(ctx context.Context) {
	query, err := queries.NewGetOpenExceptionsQuery(j.now().UTC().Add(-digestLookback))
	if err != nil {
		j.logger.Error("Failed to build open exceptions query", zap.Error(err))
		return
	}

	res, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.Error("Bag exception digest failed", zap.Error(err))
		return
	}

	if len(res.Bags) == 0 {
		j.logger.Debug("No bags awaiting investigation")
		return
	}

	fields := []zap.Field{zap.Int("bags", len(res.Bags))}
	for typ, count := range res.ByType {
		fields = append(fields, zap.Int(typ, count))
	}
	j.logger.Warn("Bags awaiting investigation", fields...)

	for _, b := range res.Bags {
		j.logger.Info("Bag awaiting investigation",
			zap.String("bag_code", b.BagCode),
			zap.String("status", b.Status),
			zap.String("location_id", b.LocationID),
			zap.Int("shortages", b.ShortageCount),
			zap.Int("damages", b.DamageCount),
			zap.Time("last_reported_at", b.LastReportedAt),
		)
	}
}
