package http

import (
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"
	"custody/internal/core/domain/model/sheet"

	"github.com/labstack/echo/v4"
)

// CreateSheet handles POST /api/v1/sheets.
func (s *Server) CreateSheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req CreateSheetRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}
	if req.HubID == "" {
		req.HubID = actor.LinkedEntityID()
	}

	destinationType, err := sheet.ParseDestinationType(req.DestinationType)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateSheetCommand(actor, req.HubID, req.DestinationID, destinationType)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.h.CreateSheet.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusCreated, newSheetResponse(created), err)
}

// AddBagToSheet handles POST /api/v1/sheets/:id/bags.
func (s *Server) AddBagToSheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	sheetID, err := parseID(c.Param("id"), "sheet id")
	if err != nil {
		return s.fail(c, err)
	}

	var req BagCodeRequest
	if err = c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	cmd, err := commands.NewAddBagToSheetCommand(actor, sheetID, req.BagCode)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.h.AddBagToSheet.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newSheetResponse(updated), err)
}

// CloseSheet handles POST /api/v1/sheets/:id/close.
func (s *Server) CloseSheet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	sheetID, err := parseID(c.Param("id"), "sheet id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSheetCommand(actor, sheetID)
	if err != nil {
		return s.fail(c, err)
	}

	closed, err := s.h.CloseSheet.Handle(c.Request().Context(), cmd)
	if failed(err) {
		return s.fail(c, err)
	}
	return s.reply(c, http.StatusOK, newSheetResponse(closed), err)
}

// GetDispatchableSheets handles GET /api/v1/hubs/:hubId/sheets/dispatchable
// with an optional destinationId query parameter.
func (s *Server) GetDispatchableSheets(c echo.Context) error {
	query, err := queries.NewGetDispatchableSheetsQuery(c.Param("hubId"), c.QueryParam("destinationId"))
	if err != nil {
		return s.fail(c, err)
	}

	sheets, err := s.h.DispatchableSheets.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	resp := make([]DispatchableSheetResponse, 0, len(sheets))
	for _, ds := range sheets {
		resp = append(resp, DispatchableSheetResponse{
			ID:              ds.ID.String(),
			Code:            ds.Code,
			DestinationID:   ds.DestinationID,
			DestinationType: ds.DestinationType,
			BagCount:        ds.BagCount,
			ClosedAt:        ds.ClosedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
