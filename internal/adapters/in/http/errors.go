package http

import (
	"errors"
	"net/http"
	"strings"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/trip"
	"custody/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditWarningHeader is set on a successful response whose audit entry could
// not be written.
const AuditWarningHeader = "X-Audit-Warning"

type ErrorResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Unresolved int    `json:"unresolved,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrIntegrityViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	resp := ErrorResponse{Code: status, Message: err.Error()}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		resp.Message = http.StatusText(status)
	}

	var incomplete *trip.IncompleteVerificationError
	if errors.As(err, &incomplete) {
		resp.Unresolved = incomplete.Unresolved
	}

	return c.JSON(status, resp)
}

// failed reports whether a command result must be discarded. A lost audit
// entry is not a failure.
func failed(err error) bool {
	return err != nil && !commands.IsAuditWarning(err)
}

// reply writes body with status. A lost audit entry sets AuditWarningHeader.
func (s *Server) reply(c echo.Context, status int, body any, err error) error {
	if err != nil {
		s.log.Warn("audit entry lost", zap.String("path", c.Path()), zap.Error(err))
		c.Response().Header().Set(AuditWarningHeader, strings.ReplaceAll(err.Error(), "\n", "; "))
	}
	return c.JSON(status, body)
}

func (s *Server) badBody(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "invalid request body: " + err.Error(),
	})
}
