package commands_test

import (
	"context"
	"testing"
	"time"

	"custody/internal/adapters/out/memory"
	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type memoryUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (m memoryUoWFactory) Create() commands.UoW { return m.f.Create() }

type memoryBagUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (m memoryBagUoWFactory) Create() commands.BagUoW { return m.f.Create() }

// fixture wires every handler to one in-memory store.
type fixture struct {
	log      *memory.AuditLog
	registry *memory.ShipmentRegistry
	uows     memoryUoWFactory
	bagUoWs  memoryBagUoWFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := memory.NewUnitOfWorkFactory(memory.NewStore())
	return &fixture{
		log: memory.NewAuditLog(),
		registry: memory.NewShipmentRegistry(
			ports.Shipment{AWB: "AWB1", Status: "BOOKED"},
			ports.Shipment{AWB: "AWB2", Status: "BOOKED"},
			ports.Shipment{AWB: "AWB3", Status: "BOOKED"},
			ports.Shipment{AWB: "AWB4", Status: "BOOKED"},
		),
		uows:    memoryUoWFactory{f: f},
		bagUoWs: memoryBagUoWFactory{f: f},
	}
}

func actorAt(t *testing.T, role, entityID string) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor("user-"+entityID, role, entityID)
	require.NoError(t, err)
	return a
}

func completeManifest() trip.Manifest {
	return trip.NewManifest("KA-01-1234", "TRUCK_32FT", "R. Singh", "+91-9000000000")
}

func (fx *fixture) createBag(t *testing.T, hub, destination string) *bag.Bag {
	t.Helper()
	cmd, err := commands.NewCreateBagCommand(actorAt(t, "HUB_OPERATOR", hub), hub, bag.Outbound, destination)
	require.NoError(t, err)
	b, err := commands.NewCreateBagCommandHandler(fx.bagUoWs, fx.log).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return b
}

func (fx *fixture) scan(t *testing.T, b *bag.Bag, awb string) (*bag.Bag, error) {
	t.Helper()
	cmd, err := commands.NewScanShipmentCommand(actorAt(t, "HUB_OPERATOR", b.OriginEntityID()), b.ID(), awb)
	require.NoError(t, err)
	return commands.NewScanShipmentCommandHandler(fx.bagUoWs, fx.registry, fx.log).Handle(t.Context(), cmd)
}

func (fx *fixture) seal(t *testing.T, b *bag.Bag, seal string) (*bag.Bag, error) {
	t.Helper()
	cmd, err := commands.NewSealBagCommand(actorAt(t, "HUB_OPERATOR", b.OriginEntityID()), b.ID(), seal)
	require.NoError(t, err)
	return commands.NewSealBagCommandHandler(fx.bagUoWs, fx.log, commands.DefaultSealMinLength).Handle(t.Context(), cmd)
}

// sealedBag creates a bag at hub with the given shipments and seal.
func (fx *fixture) sealedBag(t *testing.T, hub, destination, seal string, awbs ...string) *bag.Bag {
	t.Helper()
	b := fx.createBag(t, hub, destination)
	for _, awb := range awbs {
		_, err := fx.scan(t, b, awb)
		require.NoError(t, err)
	}
	sealed, err := fx.seal(t, b, seal)
	require.NoError(t, err)
	return sealed
}

func (fx *fixture) verifyInbound(t *testing.T, at, code, seal string) (*bag.Bag, error) {
	t.Helper()
	cmd, err := commands.NewValidateInboundBagCommand(actorAt(t, "HUB_OPERATOR", at), code, seal)
	require.NoError(t, err)
	return commands.NewValidateInboundBagCommandHandler(fx.bagUoWs, fx.log).Handle(t.Context(), cmd)
}

// manualTrip creates a trip origin -> destination, loads the bags and
// dispatches it.
func (fx *fixture) manualTrip(t *testing.T, origin, destination string, bags ...*bag.Bag) *trip.Trip {
	t.Helper()
	actor := actorAt(t, "HUB_OPERATOR", origin)

	createCmd, err := commands.NewCreateTripCommand(actor, origin, destination, trip.InternalTransfer, completeManifest())
	require.NoError(t, err)
	tr, err := commands.NewCreateTripCommandHandler(fx.uows, fx.log).Handle(t.Context(), createCmd)
	require.NoError(t, err)

	for _, b := range bags {
		loadCmd, err := commands.NewAddBagToTripCommand(actor, tr.ID(), b.Code())
		require.NoError(t, err)
		_, err = commands.NewAddBagToTripCommandHandler(fx.uows, fx.log).Handle(t.Context(), loadCmd)
		require.NoError(t, err)
	}

	tr, err = fx.tripOp(t, actor, tr.ID(), commands.NewDispatchTripCommandHandler(fx.uows, fx.log).Handle)
	require.NoError(t, err)
	return tr
}

type tripHandle func(ctx context.Context, cmd commands.TripCommand) (*trip.Trip, error)

func (fx *fixture) tripOp(t *testing.T, actor kernel.Actor, id kernel.UUID, handle tripHandle) (*trip.Trip, error) {
	t.Helper()
	cmd, err := commands.NewTripCommand(actor, id)
	require.NoError(t, err)
	return handle(t.Context(), cmd)
}

func (fx *fixture) getBag(t *testing.T, id kernel.UUID) *bag.Bag {
	t.Helper()
	uow := fx.bagUoWs.Create()
	require.NoError(t, uow.Begin(t.Context()))
	defer func() { _ = uow.Rollback(t.Context()) }()
	b, err := uow.BagRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return b
}
