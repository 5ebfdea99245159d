package commands

import (
	"context"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/ports"
)

// CreateBagCommandHandler creates an empty bag with a generated code.
type CreateBagCommandHandler struct {
	uowFactory BagUoWFactory
	auditor    auditRecorder
}

// NewCreateBagCommandHandler creates a handler that writes through a
// BagUoWFactory; bag creation touches no other aggregate.
func NewCreateBagCommandHandler(uowFactory BagUoWFactory, auditLog ports.AuditLog) CreateBagCommandHandler {
	return CreateBagCommandHandler{
		uowFactory: uowFactory,
		auditor:    newAuditRecorder(auditLog),
	}
}

// Handle returns the new bag. A non-nil error together with a non-nil bag is
// an *AuditWarning.
func (h CreateBagCommandHandler) Handle(ctx context.Context, cmd CreateBagCommand) (*bag.Bag, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	b, err := bag.NewBag(
		kernel.NewUUID(),
		kernel.NewCode(kernel.BagCodePrefix, cmd.HubID()),
		cmd.BagType(),
		cmd.HubID(),
		cmd.DestinationID(),
		cmd.Actor().ID(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.BagRepository().Add(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, h.auditor.record(ctx, audit.BagOp, cmd.Actor(), b.Code(), "bag created", audit.Detail{
		"action":      "CREATE",
		"type":        b.Type().String(),
		"origin":      b.OriginEntityID(),
		"destination": b.DestinationEntityID(),
	})
}
