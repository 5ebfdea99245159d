package postgres

import (
	"fmt"

	"custody/internal/adapters/out/postgres/auditrepo"
	"custody/internal/adapters/out/postgres/bagrepo"
	"custody/internal/adapters/out/postgres/exceptionrepo"
	"custody/internal/adapters/out/postgres/sheetrepo"
	"custody/internal/adapters/out/postgres/shipmentrepo"
	"custody/internal/adapters/out/postgres/triprepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every custody table and the partial unique index
// that allows one active connection sheet per route.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&bagrepo.BagDTO{},
		&bagrepo.CustodyDTO{},
		&exceptionrepo.ExceptionDTO{},
		&sheetrepo.SheetDTO{},
		&triprepo.TripDTO{},
		&auditrepo.EntryDTO{},
		&shipmentrepo.ShipmentDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	err := db.Exec(fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON connection_sheets (hub_id, destination_id)
		 WHERE status IN ('CREATED', 'IN_PROGRESS')`, sheetrepo.ActiveRouteIndex)).Error
	if err != nil {
		return fmt.Errorf("create active route index: %w", err)
	}
	return nil
}

// Tables lists the custody tables, for truncation in tests.
func Tables() []string {
	return []string{
		"bags", "bag_custody", "bag_exceptions", "connection_sheets", "trips", "audit_entries", "shipments",
	}
}
