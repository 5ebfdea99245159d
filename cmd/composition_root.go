package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpin "custody/internal/adapters/in/http"
	"custody/internal/adapters/out/auditlog"
	"custody/internal/adapters/out/memory"
	"custody/internal/adapters/out/postgres"
	"custody/internal/adapters/out/postgres/auditrepo"
	"custody/internal/adapters/out/postgres/shipmentrepo"
	"custody/internal/adapters/out/redis"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/ports"
	"custody/internal/jobs"

	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CompositionRoot struct {
	cfg        Config
	log        *zap.Logger
	uowFactory ports.UnitOfWorkFactory
	auditLog   ports.AuditLog
	registry   ports.ShipmentRegistry
	feed       ports.ShipmentFeed

	dispatchableSheets httpin.DispatchableSheetsHandler
	openExceptions     httpin.OpenExceptionsHandler
	staleTrips         httpin.StaleTripsHandler

	closers []func() error
}

// NewCompositionRoot opens the configured store and the optional shipment
// cache. Call Close when done.
func NewCompositionRoot(ctx context.Context, cfg Config, log *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, log: log}

	var sink ports.AuditLog
	switch cfg.StoreDriver {
	case StoreDriverMemory:
		sink = c.openMemoryStore()
	case StoreDriverPostgres:
		var err error
		if sink, err = c.openPostgresStore(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	c.auditLog = auditlog.NewLoggingAuditLog(sink, log)

	if cfg.Redis.URL != "" {
		if err := c.enableShipmentCache(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	log.Info("Composition root ready",
		zap.String("store", cfg.StoreDriver),
		zap.Bool("shipment_cache", cfg.Redis.URL != ""),
	)
	return c, nil
}

func (c *CompositionRoot) openMemoryStore() ports.AuditLog {
	store := memory.NewStore()
	registry := memory.NewShipmentRegistry()

	c.uowFactory = memory.NewUnitOfWorkFactory(store)
	c.registry = registry
	c.feed = registry
	c.dispatchableSheets = memory.NewDispatchableSheetsQueryHandler(store)
	c.openExceptions = memory.NewOpenExceptionsQueryHandler(store)
	c.staleTrips = memory.NewStaleTripsQueryHandler(store)
	return memory.NewAuditLog()
}

func (c *CompositionRoot) openPostgresStore() (ports.AuditLog, error) {
	db, err := gorm.Open(gorm_postgres.Open(c.cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)

	if err = postgres.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	registry := shipmentrepo.NewGormShipmentRegistry(db)

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.registry = registry
	c.feed = registry
	c.dispatchableSheets = queries.NewGetDispatchableSheetsQueryHandler(db)
	c.openExceptions = queries.NewGetOpenExceptionsQueryHandler(db)
	c.staleTrips = queries.NewGetStaleTripsQueryHandler(db)
	return auditrepo.NewGormAuditLog(db), nil
}

// enableShipmentCache puts Redis in front of the registry. An unreachable
// server is only logged since the cache bypasses failed reads.
func (c *CompositionRoot) enableShipmentCache(ctx context.Context) error {
	client, err := redis.NewClient(c.cfg.Redis.URL)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		c.log.Warn("Redis is unreachable, shipment lookups go to the registry", zap.Error(err))
	}

	cache := redis.NewCachedShipmentRegistry(client, c.registry, c.cfg.Redis.ShipmentCacheTTL, c.log)
	c.registry = cache
	c.feed = redis.NewInvalidatingShipmentFeed(c.feed, cache)
	return nil
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) bagUoWs() commands.BagUoWFactory {
	return FuncBagUoWFactory(func() commands.BagUoW {
		return c.uowFactory.Create()
	})
}

// Handlers builds every use case the HTTP adapter exposes.
func (c *CompositionRoot) Handlers() httpin.Handlers {
	uows, bagUoWs, auditLog := c.uows(), c.bagUoWs(), c.auditLog

	return httpin.Handlers{
		CreateBag:       commands.NewCreateBagCommandHandler(bagUoWs, auditLog),
		ScanShipment:    commands.NewScanShipmentCommandHandler(bagUoWs, c.registry, auditLog),
		SealBag:         commands.NewSealBagCommandHandler(bagUoWs, auditLog, c.cfg.Custody.SealMinLength),
		ValidateInbound: commands.NewValidateInboundBagCommandHandler(bagUoWs, auditLog),
		OverrideSeal: commands.NewOverrideInboundSealCommandHandler(bagUoWs, auditLog,
			c.cfg.Custody.SealOverrideRoles),
		RecordException: commands.NewRecordExceptionCommandHandler(bagUoWs, auditLog),
		ConnectBag:      commands.NewConnectBagCommandHandler(uows, auditLog),

		CreateSheet:   commands.NewCreateSheetCommandHandler(uows, auditLog),
		AddBagToSheet: commands.NewAddBagToSheetCommandHandler(uows, auditLog),
		CloseSheet:    commands.NewCloseSheetCommandHandler(uows, auditLog),

		DispatchOutbound: commands.NewCreateAndDispatchOutboundCommandHandler(uows, auditLog),
		CreateTrip:       commands.NewCreateTripCommandHandler(uows, auditLog),
		AddBagToTrip:     commands.NewAddBagToTripCommandHandler(uows, auditLog),
		DispatchTrip:     commands.NewDispatchTripCommandHandler(uows, auditLog),
		MarkArrived:      commands.NewMarkArrivedCommandHandler(uows, auditLog),
		StartUnloading:   commands.NewStartUnloadingCommandHandler(uows, auditLog),
		CompleteInbound:  commands.NewCompleteInboundCommandHandler(uows, auditLog),
		ReceiveTrip:      commands.NewReceiveTripCommandHandler(uows, auditLog),
		CloseTrip:        commands.NewCloseTripCommandHandler(uows, auditLog),

		GetBagByCode:       queries.NewGetBagByCodeQueryHandler(c.uowFactory),
		DispatchableSheets: c.dispatchableSheets,
		OpenExceptions:     c.openExceptions,
		StaleTrips:         c.staleTrips,

		Shipments: c.feed,
	}
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.openExceptions, c.staleTrips, jobs.Config{
		Schedule:       c.cfg.Jobs.DigestSchedule,
		StaleTripAfter: c.cfg.Jobs.StaleTripAfter,
	}, c.log)
}

// Close releases the database pool and the Redis client.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncBagUoWFactory func() commands.BagUoW

func (f FuncBagUoWFactory) Create() commands.BagUoW {
	return f()
}
