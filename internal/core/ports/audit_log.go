package ports

import (
	"context"

	"custody/internal/core/domain/model/audit"
)

// AuditLog is the append-only event sink. It is written after the entity
// mutation commits; a failed write does not undo the mutation.
type AuditLog interface {
	Record(ctx context.Context, entry audit.Entry) error
}
