package queries

import (
	"context"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/sheet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDispatchableSheetsQueryHandler struct {
	db *gorm.DB
}

func NewGetDispatchableSheetsQueryHandler(db *gorm.DB) GetDispatchableSheetsQueryHandler {
	return GetDispatchableSheetsQueryHandler{db: db}
}

// Handle returns sheets ordered by closing time, oldest first.
func (h GetDispatchableSheetsQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchableSheetsQuery,
) ([]DispatchableSheet, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sheets := make([]DispatchableSheet, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			hub_id,
			destination_id,
			destination_type,
			cardinality(bag_ids),
			closed_at
		FROM connection_sheets
		WHERE status = ?
		  AND hub_id = ?
		  AND (? = '' OR destination_id = ?)
		ORDER BY closed_at, code
	`, sheet.Closed.String(), query.HubID(), query.DestinationID(), query.DestinationID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp DispatchableSheet
		var id uuid.UUID
		var closedAt *time.Time

		err = rows.Scan(
			&id,
			&resp.Code,
			&resp.HubID,
			&resp.DestinationID,
			&resp.DestinationType,
			&resp.BagCount,
			&closedAt,
		)
		if err != nil {
			return nil, err
		}

		sheetID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = sheetID
		resp.ClosedAt = closedAt
		sheets = append(sheets, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sheets, nil
}
