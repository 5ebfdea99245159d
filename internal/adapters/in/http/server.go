// Package http exposes the custody commands and read models over REST.
package http

import (
	"context"
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/ports"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type (
	DispatchableSheetsHandler interface {
		Handle(ctx context.Context, query queries.GetDispatchableSheetsQuery) ([]queries.DispatchableSheet, error)
	}

	OpenExceptionsHandler interface {
		Handle(ctx context.Context, query queries.GetOpenExceptionsQuery) (*queries.GetOpenExceptionsQueryResponse, error)
	}

	StaleTripsHandler interface {
		Handle(ctx context.Context, query queries.GetStaleTripsQuery) ([]queries.StaleTrip, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateBag       commands.CreateBagCommandHandler
	ScanShipment    commands.ScanShipmentCommandHandler
	SealBag         commands.SealBagCommandHandler
	ValidateInbound commands.ValidateInboundBagCommandHandler
	OverrideSeal    commands.OverrideInboundSealCommandHandler
	RecordException commands.RecordExceptionCommandHandler
	ConnectBag      commands.ConnectBagCommandHandler

	CreateSheet   commands.CreateSheetCommandHandler
	AddBagToSheet commands.AddBagToSheetCommandHandler
	CloseSheet    commands.CloseSheetCommandHandler

	DispatchOutbound commands.CreateAndDispatchOutboundCommandHandler
	CreateTrip       commands.CreateTripCommandHandler
	AddBagToTrip     commands.AddBagToTripCommandHandler
	DispatchTrip     commands.DispatchTripCommandHandler
	MarkArrived      commands.MarkArrivedCommandHandler
	StartUnloading   commands.StartUnloadingCommandHandler
	CompleteInbound  commands.CompleteInboundCommandHandler
	ReceiveTrip      commands.ReceiveTripCommandHandler
	CloseTrip        commands.CloseTripCommandHandler

	GetBagByCode       queries.GetBagByCodeQueryHandler
	DispatchableSheets DispatchableSheetsHandler
	OpenExceptions     OpenExceptionsHandler
	StaleTrips         StaleTripsHandler

	Shipments ports.ShipmentFeed
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h   Handlers
	log *zap.Logger
}

func NewServer(handlers Handlers, log *zap.Logger) *Server {
	return &Server{h: handlers, log: log.Named("http")}
}

// RegisterRoutes mounts the API and the health check on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.POST("/bags", s.CreateBag)
	api.POST("/bags/inbound", s.ValidateInboundBag)
	api.POST("/bags/inbound/override", s.OverrideInboundSeal)
	api.POST("/bags/connect", s.ConnectBag)
	api.POST("/bags/:id/shipments", s.ScanShipment)
	api.POST("/bags/:id/seal", s.SealBag)
	api.POST("/bags/:id/exceptions", s.RecordException)
	api.GET("/bags/:code", s.GetBag)
	api.GET("/exceptions/open", s.GetOpenExceptions)

	api.POST("/sheets", s.CreateSheet)
	api.POST("/sheets/:id/bags", s.AddBagToSheet)
	api.POST("/sheets/:id/close", s.CloseSheet)
	api.GET("/hubs/:hubId/sheets/dispatchable", s.GetDispatchableSheets)

	api.PUT("/shipments/:awb", s.UpsertShipment)

	api.POST("/trips/outbound", s.DispatchOutbound)
	api.POST("/trips", s.CreateTrip)
	api.GET("/trips/stale", s.GetStaleTrips)
	api.POST("/trips/:id/bags", s.AddBagToTrip)
	api.POST("/trips/:id/dispatch", s.tripTransition(s.h.DispatchTrip.Handle))
	api.POST("/trips/:id/arrive", s.tripTransition(s.h.MarkArrived.Handle))
	api.POST("/trips/:id/unload", s.tripTransition(s.h.StartUnloading.Handle))
	api.POST("/trips/:id/complete-inbound", s.tripTransition(s.h.CompleteInbound.Handle))
	api.POST("/trips/:id/receive", s.tripTransition(s.h.ReceiveTrip.Handle))
	api.POST("/trips/:id/close", s.tripTransition(s.h.CloseTrip.Handle))
}
