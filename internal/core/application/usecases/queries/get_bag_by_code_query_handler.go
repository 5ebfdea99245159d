package queries

import (
	"context"

	"custody/internal/core/ports"
)

// GetBagByCodeQueryHandler reads through the unit of work ports, so it works
// with every store driver. The unit of work is always rolled back.
type GetBagByCodeQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetBagByCodeQueryHandler(uowFactory ports.UnitOfWorkFactory) GetBagByCodeQueryHandler {
	return GetBagByCodeQueryHandler{uowFactory: uowFactory}
}

func (h GetBagByCodeQueryHandler) Handle(ctx context.Context, query GetBagByCodeQuery) (*BagView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	b, err := uow.BagRepository().GetByCode(ctx, query.Code())
	if err != nil {
		return nil, err
	}

	exceptions, err := uow.ExceptionRepository().ListByBag(ctx, b.ID())
	if err != nil {
		return nil, err
	}

	view := &BagView{
		ID:                  b.ID(),
		Code:                b.Code(),
		Type:                b.Type().String(),
		Status:              b.Status().String(),
		OriginEntityID:      b.OriginEntityID(),
		DestinationEntityID: b.DestinationEntityID(),
		CurrentLocationID:   b.CurrentLocationID(),
		ManifestCount:       b.ManifestCount(),
		ActualCount:         b.ActualCount(),
		ShortageCount:       b.ShortageCount(),
		DamageCount:         b.DamageCount(),
		ShipmentIDs:         b.ShipmentIDs(),
		SealNumber:          b.SealNumber(),
		SealedAt:            b.SealedAt(),
		ConnectionSheetID:   b.ConnectionSheetID(),
		TripID:              b.TripID(),
		CreatedBy:           b.CreatedBy(),
		CreatedAt:           b.CreatedAt(),
		Exceptions:          make([]ExceptionView, 0, len(exceptions)),
	}

	for _, e := range exceptions {
		view.Exceptions = append(view.Exceptions, ExceptionView{
			ID:          e.ID(),
			Type:        e.Type().String(),
			ShipmentID:  e.ShipmentID(),
			Description: e.Description(),
			TripID:      e.TripID(),
			ReportedBy:  e.ReportedBy(),
			ReportedAt:  e.ReportedAt(),
		})
	}

	return view, nil
}
