package ports

import "context"

// Shipment is the registry's view of a shipment unit.
type Shipment struct {
	AWB    string
	Status string
}

// ShipmentRegistry resolves scanned air waybill numbers to known shipments.
type ShipmentRegistry interface {
	// FindByAwb returns errs.ErrObjectNotFound for unknown waybills.
	FindByAwb(ctx context.Context, awb string) (Shipment, error)
}

// ShipmentFeed accepts shipments announced by the booking side so later scans
// can resolve them.
type ShipmentFeed interface {
	Upsert(ctx context.Context, s Shipment) error
}
