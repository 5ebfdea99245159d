package trip

import (
	"fmt"
	"strings"
)

// Manifest is the vehicle and driver record of a trip. Every field is
// mandatory for hub-to-hub dispatch and optional on manual trips.
type Manifest struct {
	vehicleNumber string
	vehicleType   string
	driverName    string
	driverPhone   string
}

func NewManifest(vehicleNumber, vehicleType, driverName, driverPhone string) Manifest {
	return Manifest{
		vehicleNumber: strings.TrimSpace(vehicleNumber),
		vehicleType:   strings.TrimSpace(vehicleType),
		driverName:    strings.TrimSpace(driverName),
		driverPhone:   strings.TrimSpace(driverPhone),
	}
}

func (m Manifest) VehicleNumber() string { return m.vehicleNumber }
func (m Manifest) VehicleType() string   { return m.vehicleType }
func (m Manifest) DriverName() string    { return m.driverName }
func (m Manifest) DriverPhone() string   { return m.driverPhone }

// ValidateComplete returns ErrIncompleteManifest naming the missing fields.
func (m Manifest) ValidateComplete() error {
	var missing []string
	if m.vehicleNumber == "" {
		missing = append(missing, "vehicle number")
	}
	if m.vehicleType == "" {
		missing = append(missing, "vehicle type")
	}
	if m.driverName == "" {
		missing = append(missing, "driver name")
	}
	if m.driverPhone == "" {
		missing = append(missing, "driver phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteManifest, strings.Join(missing, ", "))
	}
	return nil
}
