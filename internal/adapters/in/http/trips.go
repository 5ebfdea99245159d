package http

import (
	"context"
	"net/http"
	"time"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trip"

	"github.com/labstack/echo/v4"
)

const defaultStaleAfter = 12 * time.Hour

// DispatchOutbound handles POST /api/v1/trips/outbound.
func (s *Server) DispatchOutbound(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req OutboundTripRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}
	if req.HubID == "" {
		req.HubID = actor.LinkedEntityID()
	}

	sheetIDs := make([]kernel.UUID, 0, len(req.SheetIDs))
	for _, raw := range req.SheetIDs {
		id, parseErr := parseID(raw, "sheet id")
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		sheetIDs = append(sheetIDs, id)
	}

	cmd, err := commands.NewCreateAndDispatchOutboundCommand(actor, req.HubID, req.DestinationID, sheetIDs,
		req.ManifestRequest.toDomain())
	if err != nil {
		return s.fail(c, err)
	}

	t, err := s.h.DispatchOutbound.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusCreated, newTripResponse(t), err)
}

// CreateTrip handles POST /api/v1/trips, the manual loading path.
func (s *Server) CreateTrip(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req CreateTripRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}
	if req.OriginID == "" {
		req.OriginID = actor.LinkedEntityID()
	}

	source := trip.InternalTransfer
	if req.Source != "" {
		if source, err = trip.ParseSource(req.Source); err != nil {
			return s.fail(c, err)
		}
	}

	cmd, err := commands.NewCreateTripCommand(actor, req.OriginID, req.DestinationID, source,
		req.ManifestRequest.toDomain())
	if err != nil {
		return s.fail(c, err)
	}

	t, err := s.h.CreateTrip.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusCreated, newTripResponse(t), err)
}

// AddBagToTrip handles POST /api/v1/trips/:id/bags.
func (s *Server) AddBagToTrip(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	tripID, err := parseID(c.Param("id"), "trip id")
	if err != nil {
		return s.fail(c, err)
	}

	var req BagCodeRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewAddBagToTripCommand(actor, tripID, req.BagCode)
	if err != nil {
		return s.fail(c, err)
	}

	t, err := s.h.AddBagToTrip.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newTripResponse(t), err)
}

// tripTransition serves the POST /api/v1/trips/:id/<action> routes.
func (s *Server) tripTransition(
	handle func(ctx context.Context, cmd commands.TripCommand) (*trip.Trip, error),
) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFrom(c)
		if err != nil {
			return s.fail(c, err)
		}
		tripID, err := parseID(c.Param("id"), "trip id")
		if err != nil {
			return s.fail(c, err)
		}

		cmd, err := commands.NewTripCommand(actor, tripID)
		if err != nil {
			return s.fail(c, err)
		}

		t, err := handle(c.Request().Context(), cmd)
		if failed(err) {
			return s.fail(c, err)
		}
		return s.reply(c, http.StatusOK, newTripResponse(t), err)
	}
}

// GetStaleTrips handles GET /api/v1/trips/stale?olderThan=<duration>.
func (s *Server) GetStaleTrips(c echo.Context) error {
	olderThan := defaultStaleAfter
	if raw := c.QueryParam("olderThan"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "olderThan must be a positive duration such as 6h",
			})
		}
		olderThan = parsed
	}

	query, err := queries.NewGetStaleTripsQuery(time.Now().UTC().Add(-olderThan))
	if err != nil {
		return s.fail(c, err)
	}

	trips, err := s.h.StaleTrips.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	resp := make([]StaleTripResponse, 0, len(trips))
	for _, t := range trips {
		resp = append(resp, StaleTripResponse{
			ID:                  t.ID.String(),
			Code:                t.Code,
			OriginEntityID:      t.OriginEntityID,
			DestinationEntityID: t.DestinationEntityID,
			VehicleNumber:       t.VehicleNumber,
			DriverName:          t.DriverName,
			DriverPhone:         t.DriverPhone,
			BagCount:            t.BagCount,
			DispatchedAt:        t.DispatchedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
