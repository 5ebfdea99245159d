package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
)

// ErrAuditNotRecorded marks a committed operation whose audit entry was lost.
var ErrAuditNotRecorded = errors.New("audit entry not recorded")

// AuditWarning is returned together with a successful result when the
// mutation committed but the audit write failed. Callers must not treat it as
// a failure of the operation.
type AuditWarning struct {
	EventType  audit.EventType
	EntityCode string
	Cause      error
}

func (w *AuditWarning) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrAuditNotRecorded, w.EventType, w.EntityCode, w.Cause)
}

// Unwrap exposes both the audit failure and ErrAuditNotRecorded to errors.Is.
func (w *AuditWarning) Unwrap() []error {
	return []error{ErrAuditNotRecorded, w.Cause}
}

// IsAuditWarning reports whether err only signals a lost audit entry.
func IsAuditWarning(err error) bool {
	var w *AuditWarning
	return errors.As(err, &w)
}

type auditRecorder struct {
	log ports.AuditLog
}

func newAuditRecorder(log ports.AuditLog) auditRecorder {
	return auditRecorder{log: log}
}

func (r auditRecorder) record(
	ctx context.Context,
	eventType audit.EventType,
	actor kernel.Actor,
	entityCode string,
	summary string,
	detail audit.Detail,
) error {
	entry, err := audit.NewEntry(eventType, actor, entityCode, summary, detail, time.Now().UTC())
	if err == nil {
		err = r.log.Record(ctx, entry)
	}
	if err != nil {
		return &AuditWarning{EventType: eventType, EntityCode: entityCode, Cause: err}
	}
	return nil
}
