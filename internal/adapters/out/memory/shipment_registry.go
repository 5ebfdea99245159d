package memory

import (
	"context"
	"strings"
	"sync"

	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

type ShipmentRegistry struct {
	mu        sync.RWMutex
	shipments map[string]ports.Shipment
}

func NewShipmentRegistry(shipments ...ports.Shipment) *ShipmentRegistry {
	r := &ShipmentRegistry{shipments: make(map[string]ports.Shipment, len(shipments))}
	for _, s := range shipments {
		r.Register(s)
	}
	return r
}

func (r *ShipmentRegistry) Register(s ports.Shipment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipments[strings.TrimSpace(s.AWB)] = s
}

func (r *ShipmentRegistry) Upsert(_ context.Context, s ports.Shipment) error {
	if strings.TrimSpace(s.AWB) == "" {
		return errs.NewValueIsRequiredError("awb")
	}
	r.Register(s)
	return nil
}

func (r *ShipmentRegistry) FindByAwb(_ context.Context, awb string) (ports.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shipments[strings.TrimSpace(awb)]
	if !ok {
		return ports.Shipment{}, errs.NewObjectNotFoundError("shipment", awb)
	}
	return s, nil
}
