package http

import (
	"net/http"
	"strings"

	"custody/internal/core/ports"
	"custody/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// UpsertShipment handles PUT /api/v1/shipments/:awb. The booking side calls it
// to announce a waybill or change its status.
func (s *Server) UpsertShipment(c echo.Context) error {
	if _, err := actorFrom(c); err != nil {
		return s.fail(c, err)
	}

	var req UpsertShipmentRequest
	if err := c.Bind(&req); err != nil {
		return s.badBody(c, err)
	}

	shipment := ports.Shipment{
		AWB:    strings.TrimSpace(c.Param("awb")),
		Status: strings.TrimSpace(req.Status),
	}
	if shipment.Status == "" {
		return s.fail(c, errs.NewValueIsRequiredError("status"))
	}

	if err := s.h.Shipments.Upsert(c.Request().Context(), shipment); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ShipmentResponse{AWB: shipment.AWB, Status: shipment.Status})
}
