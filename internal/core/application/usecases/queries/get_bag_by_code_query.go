package queries

import (
	"errors"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/guard"
)

var ErrGetBagByCodeQueryIsNotConstructed = errors.New(
	"GetBagByCodeQuery must be created via NewGetBagByCodeQuery constructor",
)

// GetBagByCodeQuery looks up one bag with its contents and exception history.
//
// Example:
//
//	query, err := NewGetBagByCodeQuery("bag-hub-a-0f3c9a1b2d")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetBagByCodeQuery struct {
	code  string
	guard guard.ConstructorGuard
}

func NewGetBagByCodeQuery(code string) (GetBagByCodeQuery, error) {
	normalized, err := kernel.NormalizeCode(code)
	if err != nil {
		return GetBagByCodeQuery{}, err
	}
	return GetBagByCodeQuery{code: normalized, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBagByCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetBagByCodeQueryIsNotConstructed)
}

func (q GetBagByCodeQuery) Code() string {
	return q.code
}

// BagView is the read model of a bag.
type BagView struct {
	ID                  kernel.UUID
	Code                string
	Type                string
	Status              string
	OriginEntityID      string
	DestinationEntityID string
	CurrentLocationID   string
	ManifestCount       int
	ActualCount         int
	ShortageCount       int
	DamageCount         int
	ShipmentIDs         []string
	SealNumber          string
	SealedAt            *time.Time
	ConnectionSheetID   *kernel.UUID
	TripID              *kernel.UUID
	CreatedBy           string
	CreatedAt           time.Time
	Exceptions          []ExceptionView
}

type ExceptionView struct {
	ID          kernel.UUID
	Type        string
	ShipmentID  string
	Description string
	TripID      *kernel.UUID
	ReportedBy  string
	ReportedAt  time.Time
}
