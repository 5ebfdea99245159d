// Package memory provides an in-process transactional store for the custody
// core. A unit of work takes the store lock in Begin, works on a private copy
// of the state and swaps it in on Commit, so writes are all-or-nothing and
// units of work are fully serialized.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
	"custody/internal/core/ports"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type routeKey struct {
	hubID         string
	destinationID string
}

type memoryState struct {
	bags          map[kernel.UUID]bag.State
	bagCodes      map[string]kernel.UUID
	openShipments map[string]kernel.UUID
	exceptions    map[kernel.UUID][]*bag.Exception
	sheets        map[kernel.UUID]sheet.State
	activeRoutes  map[routeKey]kernel.UUID
	trips         map[kernel.UUID]trip.State
}

func newMemoryState() memoryState {
	return memoryState{
		bags:          map[kernel.UUID]bag.State{},
		bagCodes:      map[string]kernel.UUID{},
		openShipments: map[string]kernel.UUID{},
		exceptions:    map[kernel.UUID][]*bag.Exception{},
		sheets:        map[kernel.UUID]sheet.State{},
		activeRoutes:  map[routeKey]kernel.UUID{},
		trips:         map[kernel.UUID]trip.State{},
	}
}

// clone copies the maps. Entity states are values rebuilt through Restore on
// every read, so sharing their slices is safe as long as writers replace
// whole states.
func (s memoryState) clone() memoryState {
	exceptions := make(map[kernel.UUID][]*bag.Exception, len(s.exceptions))
	for k, v := range s.exceptions {
		exceptions[k] = append([]*bag.Exception(nil), v...)
	}
	return memoryState{
		bags:          maps.Clone(s.bags),
		bagCodes:      maps.Clone(s.bagCodes),
		openShipments: maps.Clone(s.openShipments),
		exceptions:    exceptions,
		sheets:        maps.Clone(s.sheets),
		activeRoutes:  maps.Clone(s.activeRoutes),
		trips:         maps.Clone(s.trips),
	}
}

// Store is the shared state behind memory units of work.
type Store struct {
	mu    sync.Mutex
	state memoryState
}

func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork holds the store lock between Begin and Commit/Rollback.
type UnitOfWork struct {
	store *Store
	tx    *memoryState
}

func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.mu.Lock()
	state := uow.store.state.clone()
	uow.tx = &state
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return ErrNoActiveTransaction
	}

	uow.store.state = *uow.tx
	uow.tx = nil
	uow.store.mu.Unlock()
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return ErrNoActiveTransaction
	}

	uow.tx = nil
	uow.store.mu.Unlock()
	return nil
}

func (uow *UnitOfWork) BagRepository() ports.BagRepository {
	return &bagRepository{uow: uow}
}

func (uow *UnitOfWork) ExceptionRepository() ports.ExceptionRepository {
	return &exceptionRepository{uow: uow}
}

func (uow *UnitOfWork) SheetRepository() ports.SheetRepository {
	return &sheetRepository{uow: uow}
}

func (uow *UnitOfWork) TripRepository() ports.TripRepository {
	return &tripRepository{uow: uow}
}

func (uow *UnitOfWork) state() (*memoryState, error) {
	if uow.tx == nil {
		return nil, ErrNoActiveTransaction
	}
	return uow.tx, nil
}
