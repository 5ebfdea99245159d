package queries_test

import (
	"context"
	"strings"
	"testing"
	"time"

	postgres_adapter "custody/internal/adapters/out/postgres"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// QueriesIntegrationTestSuite runs the SQL read models against PostgreSQL,
// seeding through the gorm unit of work.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	now       time.Time
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
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
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE " + strings.Join(postgres_adapter.Tables(), ", ")).Error)
}

func (suite *QueriesIntegrationTestSuite) write(fn func(ctx context.Context, uow ports.UnitOfWork)) {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	fn(ctx, uow)
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *QueriesIntegrationTestSuite) addSheet(hubID, destinationID string, bags int, closedAt *time.Time) *sheet.Sheet {
	s, err := sheet.NewSheet(kernel.NewUUID(), kernel.NewCode(kernel.SheetCodePrefix, hubID),
		hubID, destinationID, sheet.MMDC, "op-1", suite.now)
	suite.Require().NoError(err)
	for range bags {
		suite.Require().NoError(s.AddBag(kernel.NewUUID()))
	}
	if closedAt != nil {
		suite.Require().NoError(s.Close(*closedAt))
	}
	suite.write(func(ctx context.Context, uow ports.UnitOfWork) {
		suite.Require().NoError(uow.SheetRepository().Add(ctx, s))
	})
	return s
}

func (suite *QueriesIntegrationTestSuite) addTrip(dispatchedAt time.Time, arrived bool) *trip.Trip {
	t, err := trip.NewOutboundTrip(kernel.NewUUID(), kernel.NewCode(kernel.TripCodePrefix, "H1"), "H1", "H2",
		trip.NewManifest("KA01AB1234", "TRUCK", "Asha", "+910000000000"),
		[]kernel.UUID{kernel.NewUUID()}, []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()},
		"op-1", dispatchedAt)
	suite.Require().NoError(err)
	if arrived {
		suite.Require().NoError(t.MarkArrived(suite.now))
	}
	suite.write(func(ctx context.Context, uow ports.UnitOfWork) {
		suite.Require().NoError(uow.TripRepository().Add(ctx, t))
	})
	return t
}

func (suite *QueriesIntegrationTestSuite) addMarkedBag(kind bag.ExceptionType, reportedAt ...time.Time) *bag.Bag {
	b, err := bag.NewBag(kernel.NewUUID(), kernel.NewCode(kernel.BagCodePrefix, "H2"), bag.FirstMile,
		"H1", "H2", "op-1", suite.now)
	suite.Require().NoError(err)

	exceptions := make([]*bag.Exception, 0, len(reportedAt))
	for _, at := range reportedAt {
		suite.Require().NoError(b.RecordException(kind, ""))
		e, exErr := bag.NewException(kernel.NewUUID(), b.ID(), nil, kind, "", "found at dock", "op-2", at)
		suite.Require().NoError(exErr)
		exceptions = append(exceptions, e)
	}

	suite.write(func(ctx context.Context, uow ports.UnitOfWork) {
		suite.Require().NoError(uow.BagRepository().Add(ctx, b))
		for _, e := range exceptions {
			suite.Require().NoError(uow.ExceptionRepository().Add(ctx, e))
		}
	})
	return b
}

func (suite *QueriesIntegrationTestSuite) TestDispatchableSheets() {
	early := suite.now.Add(-2 * time.Hour)
	late := suite.now.Add(-time.Hour)
	second := suite.addSheet("H1", "H2", 2, &late)
	first := suite.addSheet("H1", "H3", 3, &early)
	suite.addSheet("H1", "H4", 1, nil)
	suite.addSheet("H9", "H2", 1, &early)

	handler := queries.NewGetDispatchableSheetsQueryHandler(suite.db)

	query, err := queries.NewGetDispatchableSheetsQuery("H1", "")
	suite.Require().NoError(err)
	all, err := handler.Handle(suite.T().Context(), query)
	suite.Require().NoError(err)
	suite.Require().Len(all, 2)
	suite.True(all[0].ID.IsEqual(first.ID()))
	suite.Equal(3, all[0].BagCount)
	suite.Equal("MMDC", all[0].DestinationType)
	suite.True(all[1].ID.IsEqual(second.ID()))

	query, err = queries.NewGetDispatchableSheetsQuery("H1", "H2")
	suite.Require().NoError(err)
	narrowed, err := handler.Handle(suite.T().Context(), query)
	suite.Require().NoError(err)
	suite.Require().Len(narrowed, 1)
	suite.Equal(second.Code(), narrowed[0].Code)
	suite.Require().NotNil(narrowed[0].ClosedAt)
	suite.True(late.Equal(*narrowed[0].ClosedAt))
}

func (suite *QueriesIntegrationTestSuite) TestOpenExceptions() {
	since := suite.now.Add(-24 * time.Hour)
	damaged := suite.addMarkedBag(bag.Damage, suite.now.Add(-time.Hour))
	short := suite.addMarkedBag(bag.Shortage, suite.now.Add(-3*time.Hour), suite.now.Add(-2*time.Hour))
	suite.addMarkedBag(bag.Damage, suite.now.Add(-48*time.Hour))

	handler := queries.NewGetOpenExceptionsQueryHandler(suite.db)
	query, err := queries.NewGetOpenExceptionsQuery(since)
	suite.Require().NoError(err)

	resp, err := handler.Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Bags, 2)
	suite.Equal(damaged.Code(), resp.Bags[0].BagCode)
	suite.Equal("DAMAGE_MARKED", resp.Bags[0].Status)
	suite.Equal(short.Code(), resp.Bags[1].BagCode)
	suite.Equal(2, resp.Bags[1].ShortageCount)
	suite.Equal(map[string]int{"DAMAGE": 1, "SHORTAGE": 2}, resp.ByType)
}

func (suite *QueriesIntegrationTestSuite) TestStaleTrips() {
	oldest := suite.addTrip(suite.now.Add(-30*time.Hour), false)
	old := suite.addTrip(suite.now.Add(-20*time.Hour), false)
	suite.addTrip(suite.now.Add(-time.Hour), false)
	suite.addTrip(suite.now.Add(-40*time.Hour), true)

	handler := queries.NewGetStaleTripsQueryHandler(suite.db)
	query, err := queries.NewGetStaleTripsQuery(suite.now.Add(-12 * time.Hour))
	suite.Require().NoError(err)

	trips, err := handler.Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Require().Len(trips, 2)
	suite.True(trips[0].ID.IsEqual(oldest.ID()))
	suite.True(trips[1].ID.IsEqual(old.ID()))
	suite.Equal("KA01AB1234", trips[0].VehicleNumber)
	suite.Equal(2, trips[0].BagCount)
}

func (suite *QueriesIntegrationTestSuite) TestBagByCodeThroughGormUnitOfWork() {
	b := suite.addMarkedBag(bag.Shortage, suite.now)
	handler := queries.NewGetBagByCodeQueryHandler(suite.factory)
	query, err := queries.NewGetBagByCodeQuery(strings.ToLower(b.Code()))
	suite.Require().NoError(err)

	view, err := handler.Handle(suite.T().Context(), query)

	suite.Require().NoError(err)
	suite.Equal(b.Code(), view.Code)
	suite.Require().Len(view.Exceptions, 1)
	suite.Equal("SHORTAGE", view.Exceptions[0].Type)
}

func (suite *QueriesIntegrationTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	query, err := queries.NewGetStaleTripsQuery(suite.now)
	suite.Require().NoError(err)
	trips, err := queries.NewGetStaleTripsQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().Error(err)
	suite.Nil(trips)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
