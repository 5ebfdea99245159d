package http

import (
	"net/http"
	"time"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/bag"

	"github.com/labstack/echo/v4"
)

// CreateBag handles POST /api/v1/bags. The hub defaults to the actor's
// linked entity.
func (s *Server) CreateBag(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req CreateBagRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}
	if req.HubID == "" {
		req.HubID = actor.LinkedEntityID()
	}

	bagType, err := bag.ParseType(req.BagType)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateBagCommand(actor, req.HubID, bagType, req.DestinationID)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.CreateBag.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusCreated, newBagResponse(b), err)
}

// ScanShipment handles POST /api/v1/bags/:id/shipments.
func (s *Server) ScanShipment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	bagID, err := parseID(c.Param("id"), "bag id")
	if err != nil {
		return s.fail(c, err)
	}

	var req ScanShipmentRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewScanShipmentCommand(actor, bagID, req.ShipmentID)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.ScanShipment.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newBagResponse(b), err)
}

// SealBag handles POST /api/v1/bags/:id/seal.
func (s *Server) SealBag(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	bagID, err := parseID(c.Param("id"), "bag id")
	if err != nil {
		return s.fail(c, err)
	}

	var req SealBagRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewSealBagCommand(actor, bagID, req.SealNumber)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.SealBag.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newBagResponse(b), err)
}

// ValidateInboundBag handles POST /api/v1/bags/inbound.
func (s *Server) ValidateInboundBag(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req InboundBagRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewValidateInboundBagCommand(actor, req.BagCode, req.SealNumber)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.ValidateInbound.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newBagResponse(b), err)
}

// OverrideInboundSeal handles POST /api/v1/bags/inbound/override.
func (s *Server) OverrideInboundSeal(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req OverrideSealRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewOverrideInboundSealCommand(actor, req.BagCode, req.SealNumber, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.OverrideSeal.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newBagResponse(b), err)
}

// RecordException handles POST /api/v1/bags/:id/exceptions.
func (s *Server) RecordException(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	bagID, err := parseID(c.Param("id"), "bag id")
	if err != nil {
		return s.fail(c, err)
	}

	var req RecordExceptionRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	exceptionType, err := bag.ParseExceptionType(req.Type)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRecordExceptionCommand(actor, bagID, exceptionType, req.ShipmentID, req.Description)
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.h.RecordException.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusCreated, RecordExceptionResponse{
		Bag:       newBagResponse(res.Bag),
		Exception: newExceptionResponse(res.Exception),
	}, err)
}

// ConnectBag handles POST /api/v1/bags/connect.
func (s *Server) ConnectBag(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req ConnectBagRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	sheetID, err := parseID(req.SheetID, "sheet id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConnectBagCommand(actor, req.BagCode, sheetID)
	if err != nil {
		return s.fail(c, err)
	}

	b, err := s.h.ConnectBag.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newBagResponse(b), err)
}

// GetBag handles GET /api/v1/bags/:code.
func (s *Server) GetBag(c echo.Context) error {
	query, err := queries.NewGetBagByCodeQuery(c.Param("code"))
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.h.GetBagByCode.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newBagViewResponse(view))
}

// GetOpenExceptions handles GET /api/v1/exceptions/open?since=RFC3339. The
// window defaults to the last 24 hours.
func (s *Server) GetOpenExceptions(c echo.Context) error {
	since := time.Now().UTC().Add(-24 * time.Hour)
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "since must be an RFC 3339 timestamp",
			})
		}
		since = parsed
	}

	query, err := queries.NewGetOpenExceptionsQuery(since)
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.h.OpenExceptions.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	resp := OpenExceptionsResponse{
		Bags:   make([]OpenExceptionBagResponse, 0, len(res.Bags)),
		ByType: res.ByType,
	}
	for _, b := range res.Bags {
		resp.Bags = append(resp.Bags, OpenExceptionBagResponse{
			BagID:          b.BagID.String(),
			BagCode:        b.BagCode,
			Status:         b.Status,
			LocationID:     b.LocationID,
			ShortageCount:  b.ShortageCount,
			DamageCount:    b.DamageCount,
			LastReportedAt: b.LastReportedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
