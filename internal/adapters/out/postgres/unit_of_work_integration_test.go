package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	postgres_adapter "custody/internal/adapters/out/postgres"
	"custody/internal/adapters/out/postgres/auditrepo"
	"custody/internal/adapters/out/postgres/shipmentrepo"
	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the gorm unit of work and its
// repositories against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE " + strings.Join(postgres_adapter.Tables(), ", ")).Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) begin() ports.UnitOfWork {
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(suite.T().Context()))
	return uow
}

func (suite *UnitOfWorkIntegrationTestSuite) newBag(awbs ...string) *bag.Bag {
	b, err := bag.NewBag(kernel.NewUUID(), kernel.NewCode(kernel.BagCodePrefix, "H1"), bag.Outbound,
		"H1", "H2", "op-1", time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	for _, awb := range awbs {
		_, err = b.ScanShipment(awb)
		suite.Require().NoError(err)
	}
	return b
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "commit without begin")
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction, "rollback after commit")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBagRoundTripAndRollback() {
	ctx := suite.T().Context()
	b := suite.newBag("AWB1", "AWB2")

	uow := suite.begin()
	suite.Require().NoError(uow.BagRepository().Add(ctx, b))
	suite.Require().NoError(uow.Rollback(ctx))

	uow = suite.begin()
	_, err := uow.BagRepository().Get(ctx, b.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Require().NoError(uow.BagRepository().Add(ctx, b))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.begin()
	defer func() { _ = uow.Rollback(ctx) }()
	got, err := uow.BagRepository().GetByCode(ctx, strings.ToLower(b.Code()))
	suite.Require().NoError(err)
	suite.True(got.ID().IsEqual(b.ID()))
	suite.Equal(b.Code(), got.Code())
	suite.Equal(bag.Opened, got.Status())
	suite.Equal([]string{"AWB1", "AWB2"}, got.ShipmentIDs())
	suite.Equal(2, got.ManifestCount())
	suite.True(b.CreatedAt().Equal(got.CreatedAt()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsEveryRepository() {
	ctx := suite.T().Context()
	b := suite.newBag("AWB1")
	suite.Require().NoError(b.Seal("SEAL-100", 4, time.Now().UTC()))
	s, err := sheet.NewSheet(kernel.NewUUID(), kernel.NewCode(kernel.SheetCodePrefix, "H1"), "H1", "H2",
		sheet.MMDC, "op-1", time.Now().UTC())
	suite.Require().NoError(err)
	tr, err := trip.NewTrip(kernel.NewUUID(), kernel.NewCode(kernel.TripCodePrefix, "H1"), "H1", "H2",
		trip.Aggregator, trip.NewManifest("KA-01", "VAN", "Driver", "+1"), "op-1", time.Now().UTC())
	suite.Require().NoError(err)
	exc, err := bag.NewException(kernel.NewUUID(), b.ID(), nil, bag.Damage, "", "torn", "op-1", time.Now().UTC())
	suite.Require().NoError(err)

	uow := suite.begin()
	suite.Require().NoError(uow.BagRepository().Add(ctx, b))
	suite.Require().NoError(uow.SheetRepository().Add(ctx, s))
	suite.Require().NoError(uow.TripRepository().Add(ctx, tr))
	suite.Require().NoError(uow.ExceptionRepository().Add(ctx, exc))
	suite.Require().NoError(uow.Rollback(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	uow = suite.begin()
	defer func() { _ = uow.Rollback(ctx) }()
	_, err = uow.BagRepository().Get(ctx, b.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = uow.SheetRepository().Get(ctx, s.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = uow.TripRepository().Get(ctx, tr.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	exceptions, err := uow.ExceptionRepository().ListByBag(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Empty(exceptions)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDuplicateCustodyIsRejectedByIndex() {
	ctx := suite.T().Context()
	first := suite.newBag("AWB1")
	second := suite.newBag("AWB1")

	uow := suite.begin()
	suite.Require().NoError(uow.BagRepository().Add(ctx, first))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.begin()
	err := uow.BagRepository().Add(ctx, second)
	suite.Require().ErrorIs(err, bag.ErrDuplicateCustody)
	suite.Require().NoError(uow.Rollback(ctx))

	// sealing releases the custody row
	uow = suite.begin()
	held, err := uow.BagRepository().FindOpenByShipment(ctx, "AWB1")
	suite.Require().NoError(err)
	suite.True(held.ID().IsEqual(first.ID()))
	suite.Require().NoError(held.Seal("SEAL-100", 4, time.Now().UTC()))
	suite.Require().NoError(uow.BagRepository().Update(ctx, held))
	suite.Require().NoError(uow.BagRepository().Add(ctx, second))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestActiveRouteIsUnique() {
	ctx := suite.T().Context()
	newSheet := func() *sheet.Sheet {
		s, err := sheet.NewSheet(kernel.NewUUID(), kernel.NewCode(kernel.SheetCodePrefix, "H1"),
			"H1", "H2", sheet.LMDC, "op-1", time.Now().UTC())
		suite.Require().NoError(err)
		return s
	}
	first := newSheet()

	uow := suite.begin()
	suite.Require().NoError(uow.SheetRepository().Add(ctx, first))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.begin()
	err := uow.SheetRepository().Add(ctx, newSheet())
	suite.Require().ErrorIs(err, sheet.ErrDuplicateActiveRoute)
	suite.Require().NoError(uow.Rollback(ctx))

	uow = suite.begin()
	active, err := uow.SheetRepository().FindActiveByRoute(ctx, "H1", "H2")
	suite.Require().NoError(err)
	suite.Require().NoError(active.AddBag(kernel.NewUUID()))
	suite.Require().NoError(active.Close(time.Now().UTC()))
	suite.Require().NoError(uow.SheetRepository().Update(ctx, active))
	suite.Require().NoError(uow.SheetRepository().Add(ctx, newSheet()))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTripAndExceptionsPersistTogether() {
	ctx := suite.T().Context()
	b := suite.newBag("AWB1")
	suite.Require().NoError(b.Seal("SEAL-100", 4, time.Now().UTC()))

	tr, err := trip.NewTrip(kernel.NewUUID(), kernel.NewCode(kernel.TripCodePrefix, "H1"), "H1", "H2",
		trip.Aggregator, trip.NewManifest("KA-01", "VAN", "Driver", "+1"), "op-1", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(b.Dispatch(tr.ID()))
	suite.Require().NoError(tr.LoadBag(b.ID()))
	suite.Require().NoError(b.RecordException(bag.Damage, ""))
	exc, err := bag.NewException(kernel.NewUUID(), b.ID(), b.TripID(), bag.Damage, "", "torn", "op-1",
		time.Now().UTC())
	suite.Require().NoError(err)

	uow := suite.begin()
	suite.Require().NoError(uow.TripRepository().Add(ctx, tr))
	suite.Require().NoError(uow.BagRepository().Add(ctx, b))
	suite.Require().NoError(uow.ExceptionRepository().Add(ctx, exc))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.begin()
	defer func() { _ = uow.Rollback(ctx) }()
	gotTrip, err := uow.TripRepository().Get(ctx, tr.ID())
	suite.Require().NoError(err)
	suite.Equal(tr.BagIDs(), gotTrip.BagIDs())
	suite.Equal("KA-01", gotTrip.Manifest().VehicleNumber())

	gotBags, err := uow.BagRepository().GetMany(ctx, []kernel.UUID{b.ID(), kernel.NewUUID()})
	suite.Require().NoError(err)
	suite.Require().Len(gotBags, 1)
	suite.Equal(bag.DamageMarked, gotBags[0].Status())

	exceptions, err := uow.ExceptionRepository().ListByBag(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Require().Len(exceptions, 1)
	suite.True(exceptions[0].TripID().IsEqual(tr.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAuditLogAndShipmentRegistry() {
	ctx := suite.T().Context()
	log := auditrepo.NewGormAuditLog(suite.db)
	actor, err := kernel.NewActor("op-1", "HUB_OPERATOR", "H1")
	suite.Require().NoError(err)
	entry, err := audit.NewEntry(audit.BagOp, actor, "BAG-H1-1", "bag sealed",
		audit.Detail{"sealNumber": "SEAL-100", "shipmentCount": 2}, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(log.Record(ctx, entry))
	entries, err := log.ListByEntity(ctx, "BAG-H1-1")
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal("SEAL-100", entries[0].Detail()["sealNumber"])
	suite.InDelta(2, entries[0].Detail()["shipmentCount"], 0)

	registry := shipmentrepo.NewGormShipmentRegistry(suite.db)
	suite.Require().NoError(registry.Upsert(ctx, ports.Shipment{AWB: "AWB1", Status: "BOOKED"}))
	suite.Require().NoError(registry.Upsert(ctx, ports.Shipment{AWB: "AWB1", Status: "IN_TRANSIT"}))
	got, err := registry.FindByAwb(ctx, "AWB1")
	suite.Require().NoError(err)
	suite.Equal("IN_TRANSIT", got.Status)
	_, err = registry.FindByAwb(ctx, "AWB2")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
