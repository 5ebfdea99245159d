// Package auditlog decorates an audit sink with structured logging.
package auditlog

import (
	"context"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/ports"

	"go.uber.org/zap"
)

// LoggingAuditLog writes every entry to zap before handing it to the
// underlying sink. A sink failure is logged at error level and returned.
type LoggingAuditLog struct {
	next ports.AuditLog
	log  *zap.Logger
}

func NewLoggingAuditLog(next ports.AuditLog, log *zap.Logger) *LoggingAuditLog {
	return &LoggingAuditLog{next: next, log: log.Named("audit")}
}

func (l *LoggingAuditLog) Record(ctx context.Context, entry audit.Entry) error {
	fields := []zap.Field{
		zap.String("event", string(entry.EventType())),
		zap.String("entity", entry.EntityCode()),
		zap.String("actor_id", entry.ActorID()),
		zap.String("actor_role", entry.ActorRole()),
		zap.Any("detail", entry.Detail()),
	}

	if err := l.next.Record(ctx, entry); err != nil {
		l.log.Error("audit entry not recorded", append(fields, zap.Error(err))...)
		return err
	}

	l.log.Info(entry.Summary(), fields...)
	return nil
}
