package http

import (
	"time"

	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"
	"custody/internal/core/domain/model/trip"
)

type CreateBagRequest struct {
	HubID         string `json:"hubId"`
	BagType       string `json:"bagType"`
	DestinationID string `json:"destinationId"`
}

type UpsertShipmentRequest struct {
	Status string `json:"status"`
}

type ShipmentResponse struct {
	AWB    string `json:"awb"`
	Status string `json:"status"`
}

type ScanShipmentRequest struct {
	ShipmentID string `json:"shipmentId"`
}

type SealBagRequest struct {
	SealNumber string `json:"sealNumber"`
}

type InboundBagRequest struct {
	BagCode    string `json:"bagCode"`
	SealNumber string `json:"sealNumber"`
}

type OverrideSealRequest struct {
	BagCode    string `json:"bagCode"`
	SealNumber string `json:"sealNumber"`
	Reason     string `json:"reason"`
}

type RecordExceptionRequest struct {
	Type        string `json:"type"`
	ShipmentID  string `json:"shipmentId"`
	Description string `json:"description"`
}

type ConnectBagRequest struct {
	BagCode string `json:"bagCode"`
	SheetID string `json:"sheetId"`
}

type CreateSheetRequest struct {
	HubID           string `json:"hubId"`
	DestinationID   string `json:"destinationId"`
	DestinationType string `json:"destinationType"`
}

type BagCodeRequest struct {
	BagCode string `json:"bagCode"`
}

type ManifestRequest struct {
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType"`
	DriverName    string `json:"driverName"`
	DriverPhone   string `json:"driverPhone"`
}

func (m ManifestRequest) toDomain() trip.Manifest {
	return trip.NewManifest(m.VehicleNumber, m.VehicleType, m.DriverName, m.DriverPhone)
}

type OutboundTripRequest struct {
	HubID         string   `json:"hubId"`
	DestinationID string   `json:"destinationId"`
	SheetIDs      []string `json:"sheetIds"`
	ManifestRequest
}

type CreateTripRequest struct {
	OriginID      string `json:"originId"`
	DestinationID string `json:"destinationId"`
	Source        string `json:"source"`
	ManifestRequest
}

type BagResponse struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	OriginEntityID      string     `json:"originEntityId"`
	DestinationEntityID string     `json:"destinationEntityId"`
	CurrentLocationID   string     `json:"currentLocationId"`
	ManifestCount       int        `json:"manifestCount"`
	ActualCount         int        `json:"actualCount"`
	ShortageCount       int        `json:"shortageCount"`
	DamageCount         int        `json:"damageCount"`
	ShipmentIDs         []string   `json:"shipmentIds"`
	SealNumber          string     `json:"sealNumber,omitempty"`
	SealedAt            *time.Time `json:"sealedAt,omitempty"`
	ConnectionSheetID   *string    `json:"connectionSheetId,omitempty"`
	TripID              *string    `json:"tripId,omitempty"`
	CreatedBy           string     `json:"createdBy"`
	CreatedAt           time.Time  `json:"createdAt"`

	Exceptions []ExceptionResponse `json:"exceptions,omitempty"`
}

func newBagResponse(b *bag.Bag) BagResponse {
	return BagResponse{
		ID:                  b.ID().String(),
		Code:                b.Code(),
		Type:                b.Type().String(),
		Status:              b.Status().String(),
		OriginEntityID:      b.OriginEntityID(),
		DestinationEntityID: b.DestinationEntityID(),
		CurrentLocationID:   b.CurrentLocationID(),
		ManifestCount:       b.ManifestCount(),
		ActualCount:         b.ActualCount(),
		ShortageCount:       b.ShortageCount(),
		DamageCount:         b.DamageCount(),
		ShipmentIDs:         b.ShipmentIDs(),
		SealNumber:          b.SealNumber(),
		SealedAt:            b.SealedAt(),
		ConnectionSheetID:   idString(b.ConnectionSheetID()),
		TripID:              idString(b.TripID()),
		CreatedBy:           b.CreatedBy(),
		CreatedAt:           b.CreatedAt(),
	}
}

func newBagViewResponse(v *queries.BagView) BagResponse {
	resp := BagResponse{
		ID:                  v.ID.String(),
		Code:                v.Code,
		Type:                v.Type,
		Status:              v.Status,
		OriginEntityID:      v.OriginEntityID,
		DestinationEntityID: v.DestinationEntityID,
		CurrentLocationID:   v.CurrentLocationID,
		ManifestCount:       v.ManifestCount,
		ActualCount:         v.ActualCount,
		ShortageCount:       v.ShortageCount,
		DamageCount:         v.DamageCount,
		ShipmentIDs:         v.ShipmentIDs,
		SealNumber:          v.SealNumber,
		SealedAt:            v.SealedAt,
		ConnectionSheetID:   idString(v.ConnectionSheetID),
		TripID:              idString(v.TripID),
		CreatedBy:           v.CreatedBy,
		CreatedAt:           v.CreatedAt,
		Exceptions:          make([]ExceptionResponse, 0, len(v.Exceptions)),
	}
	for _, e := range v.Exceptions {
		resp.Exceptions = append(resp.Exceptions, ExceptionResponse{
			ID:          e.ID.String(),
			Type:        e.Type,
			ShipmentID:  e.ShipmentID,
			Description: e.Description,
			TripID:      idString(e.TripID),
			ReportedBy:  e.ReportedBy,
			ReportedAt:  e.ReportedAt,
		})
	}
	return resp
}

type ExceptionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ShipmentID  string    `json:"shipmentId,omitempty"`
	Description string    `json:"description,omitempty"`
	TripID      *string   `json:"tripId,omitempty"`
	ReportedBy  string    `json:"reportedBy"`
	ReportedAt  time.Time `json:"reportedAt"`
}

type RecordExceptionResponse struct {
	Bag       BagResponse       `json:"bag"`
	Exception ExceptionResponse `json:"exception"`
}

func newExceptionResponse(e *bag.Exception) ExceptionResponse {
	return ExceptionResponse{
		ID:          e.ID().String(),
		Type:        e.Type().String(),
		ShipmentID:  e.ShipmentID(),
		Description: e.Description(),
		TripID:      idString(e.TripID()),
		ReportedBy:  e.ReportedBy(),
		ReportedAt:  e.ReportedAt(),
	}
}

type SheetResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	HubID           string     `json:"hubId"`
	DestinationID   string     `json:"destinationId"`
	DestinationType string     `json:"destinationType"`
	Status          string     `json:"status"`
	BagIDs          []string   `json:"bagIds"`
	BagCount        int        `json:"bagCount"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	ClosedAt        *time.Time `json:"closedAt,omitempty"`
	TripID          *string    `json:"tripId,omitempty"`
}

func newSheetResponse(s *sheet.Sheet) SheetResponse {
	return SheetResponse{
		ID:              s.ID().String(),
		Code:            s.Code(),
		HubID:           s.HubID(),
		DestinationID:   s.DestinationID(),
		DestinationType: s.DestinationType().String(),
		Status:          s.Status().String(),
		BagIDs:          idStrings(s.BagIDs()),
		BagCount:        s.BagCount(),
		CreatedBy:       s.CreatedBy(),
		CreatedAt:       s.CreatedAt(),
		ClosedAt:        s.ClosedAt(),
		TripID:          idString(s.TripID()),
	}
}

type DispatchableSheetResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	DestinationID   string     `json:"destinationId"`
	DestinationType string     `json:"destinationType"`
	BagCount        int        `json:"bagCount"`
	ClosedAt        *time.Time `json:"closedAt,omitempty"`
}

type ManifestResponse struct {
	VehicleNumber string `json:"vehicleNumber,omitempty"`
	VehicleType   string `json:"vehicleType,omitempty"`
	DriverName    string `json:"driverName,omitempty"`
	DriverPhone   string `json:"driverPhone,omitempty"`
}

type TripResponse struct {
	ID                  string           `json:"id"`
	Code                string           `json:"code"`
	OriginEntityID      string           `json:"originEntityId"`
	DestinationEntityID string           `json:"destinationEntityId"`
	Source              string           `json:"source"`
	Status              string           `json:"status"`
	Manifest            ManifestResponse `json:"manifest"`
	BagIDs              []string         `json:"bagIds"`
	SheetIDs            []string         `json:"sheetIds"`
	CreatedBy           string           `json:"createdBy"`
	CreatedAt           time.Time        `json:"createdAt"`
	DispatchedAt        *time.Time       `json:"dispatchedAt,omitempty"`
	ArrivedAt           *time.Time       `json:"arrivedAt,omitempty"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
}

func newTripResponse(t *trip.Trip) TripResponse {
	m := t.Manifest()
	return TripResponse{
		ID:                  t.ID().String(),
		Code:                t.Code(),
		OriginEntityID:      t.OriginEntityID(),
		DestinationEntityID: t.DestinationEntityID(),
		Source:              t.Source().String(),
		Status:              t.Status().String(),
		Manifest: ManifestResponse{
			VehicleNumber: m.VehicleNumber(),
			VehicleType:   m.VehicleType(),
			DriverName:    m.DriverName(),
			DriverPhone:   m.DriverPhone(),
		},
		BagIDs:       idStrings(t.BagIDs()),
		SheetIDs:     idStrings(t.SheetIDs()),
		CreatedBy:    t.CreatedBy(),
		CreatedAt:    t.CreatedAt(),
		DispatchedAt: t.DispatchedAt(),
		ArrivedAt:    t.ArrivedAt(),
		CompletedAt:  t.CompletedAt(),
	}
}

type OpenExceptionsResponse struct {
	Bags   []OpenExceptionBagResponse `json:"bags"`
	ByType map[string]int             `json:"byType"`
}

type OpenExceptionBagResponse struct {
	BagID          string    `json:"bagId"`
	BagCode        string    `json:"bagCode"`
	Status         string    `json:"status"`
	LocationID     string    `json:"locationId"`
	ShortageCount  int       `json:"shortageCount"`
	DamageCount    int       `json:"damageCount"`
	LastReportedAt time.Time `json:"lastReportedAt"`
}

type StaleTripResponse struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	OriginEntityID      string    `json:"originEntityId"`
	DestinationEntityID string    `json:"destinationEntityId"`
	VehicleNumber       string    `json:"vehicleNumber"`
	DriverName          string    `json:"driverName"`
	DriverPhone         string    `json:"driverPhone"`
	BagCount            int       `json:"bagCount"`
	DispatchedAt        time.Time `json:"dispatchedAt"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
