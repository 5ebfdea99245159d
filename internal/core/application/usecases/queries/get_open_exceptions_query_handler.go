package queries

import (
	"context"
	"time"

	"custody/internal/core/domain/model/bag"
	"custody/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOpenExceptionsQueryHandler struct {
	db *gorm.DB
}

func NewGetOpenExceptionsQueryHandler(db *gorm.DB) GetOpenExceptionsQueryHandler {
	return GetOpenExceptionsQueryHandler{db: db}
}

func (h GetOpenExceptionsQueryHandler) Handle(
	ctx context.Context,
	query GetOpenExceptionsQuery,
) (*GetOpenExceptionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	marked := []string{bag.ShortageMarked.String(), bag.DamageMarked.String()}
	db := h.db.WithContext(ctx)

	resp := &GetOpenExceptionsQueryResponse{
		Bags:   make([]OpenExceptionBag, 0),
		ByType: make(map[string]int),
	}

	rows, err := db.Raw(`
		SELECT
			b.id,
			b.code,
			b.status,
			b.current_location_id,
			b.shortage_count,
			b.damage_count,
			MAX(e.reported_at)
		FROM bags b
		JOIN bag_exceptions e ON e.bag_id = b.id
		WHERE b.status IN ?
		GROUP BY b.id
		HAVING MAX(e.reported_at) >= ?
		ORDER BY MAX(e.reported_at) DESC, b.code
	`, marked, query.Since()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OpenExceptionBag
		var id uuid.UUID
		var lastReportedAt time.Time

		err = rows.Scan(
			&id,
			&item.BagCode,
			&item.Status,
			&item.LocationID,
			&item.ShortageCount,
			&item.DamageCount,
			&lastReportedAt,
		)
		if err != nil {
			return nil, err
		}

		bagID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.BagID = bagID
		item.LastReportedAt = lastReportedAt
		resp.Bags = append(resp.Bags, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	countRows, err := db.Raw(`
		SELECT e.type, COUNT(*)
		FROM bag_exceptions e
		JOIN bags b ON b.id = e.bag_id
		WHERE b.status IN ?
		  AND e.reported_at >= ?
		GROUP BY e.type
	`, marked, query.Since()).Rows()
	if err != nil {
		return nil, err
	}
	defer countRows.Close()

	for countRows.Next() {
		var exceptionType string
		var count int
		if err = countRows.Scan(&exceptionType, &count); err != nil {
			return nil, err
		}
		resp.ByType[exceptionType] = count
	}
	if err = countRows.Err(); err != nil {
		return nil, err
	}

	return resp, nil
}
