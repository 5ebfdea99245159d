package queries

import (
	"errors"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/pkg/errs"
	"custody/internal/pkg/guard"
)

var ErrGetOpenExceptionsQueryIsNotConstructed = errors.New(
	"GetOpenExceptionsQuery must be created via NewGetOpenExceptionsQuery constructor",
)

// GetOpenExceptionsQuery lists bags parked in SHORTAGE_MARKED or
// DAMAGE_MARKED whose latest exception was reported at or after since.
type GetOpenExceptionsQuery struct {
	since time.Time
	guard guard.ConstructorGuard
}

func NewGetOpenExceptionsQuery(since time.Time) (GetOpenExceptionsQuery, error) {
	if since.IsZero() {
		return GetOpenExceptionsQuery{}, errs.NewValueIsRequiredError("since")
	}
	return GetOpenExceptionsQuery{since: since, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOpenExceptionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenExceptionsQueryIsNotConstructed)
}

func (q GetOpenExceptionsQuery) Since() time.Time {
	return q.since
}

type OpenExceptionBag struct {
	BagID          kernel.UUID
	BagCode        string
	Status         string
	LocationID     string
	ShortageCount  int
	DamageCount    int
	LastReportedAt time.Time
}

// GetOpenExceptionsQueryResponse groups the bags with exception counts by
// type over the same window.
type GetOpenExceptionsQueryResponse struct {
	Bags   []OpenExceptionBag
	ByType map[string]int
}
