package http

import (
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Actor identity is established upstream and forwarded in these headers.
const (
	HeaderActorID     = "X-Actor-Id"
	HeaderActorRole   = "X-Actor-Role"
	HeaderActorEntity = "X-Actor-Entity"
)

func actorFrom(c echo.Context) (kernel.Actor, error) {
	h := c.Request().Header
	return kernel.NewActor(h.Get(HeaderActorID), h.Get(HeaderActorRole), h.Get(HeaderActorEntity))
}

func parseID(raw, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// RequestLogger logs one line per request at a level chosen by status.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("actor_id", req.Header.Get(HeaderActorID)),
			}
			if warning := res.Header().Get(AuditWarningHeader); warning != "" {
				fields = append(fields, zap.String("audit_warning", warning))
			}

			switch {
			case res.Status >= 500:
				log.Error("request", fields...)
			case res.Status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}
