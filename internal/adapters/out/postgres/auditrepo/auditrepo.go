// Package auditrepo is the postgres audit log. Entries are inserted outside
// the custody transaction, after it commits, and are never updated.
package auditrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType  string    `gorm:"type:varchar(32);not null;index"`
	ActorID    string    `gorm:"type:varchar(64);not null"`
	ActorRole  string    `gorm:"type:varchar(64);not null"`
	EntityCode string    `gorm:"type:varchar(64);not null;index"`
	Summary    string    `gorm:"type:text"`
	Detail     string    `gorm:"type:jsonb;not null;default:'{}'"`
	RecordedAt time.Time `gorm:"not null;index"`
}

func (EntryDTO) TableName() string {
	return "audit_entries"
}

type GormAuditLog struct {
	db *gorm.DB
}

func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

func (l *GormAuditLog) Record(ctx context.Context, entry audit.Entry) error {
	detail := entry.Detail()
	if detail == nil {
		detail = audit.Detail{}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode audit detail: %w", err)
	}

	dto := EntryDTO{
		ID:         entry.ID().Bytes(),
		EventType:  string(entry.EventType()),
		ActorID:    entry.ActorID(),
		ActorRole:  entry.ActorRole(),
		EntityCode: entry.EntityCode(),
		Summary:    entry.Summary(),
		Detail:     string(raw),
		RecordedAt: entry.RecordedAt(),
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}

// ListByEntity returns the entries of one entity code, oldest first.
func (l *GormAuditLog) ListByEntity(ctx context.Context, entityCode string) ([]audit.Entry, error) {
	var dtos []EntryDTO
	err := l.db.WithContext(ctx).
		Where("entity_code = ?", entityCode).
		Order("recorded_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		id, convErr := kernel.UUIDFromBytes(dto.ID[:])
		if convErr != nil {
			return nil, convErr
		}
		var detail audit.Detail
		if convErr = json.Unmarshal([]byte(dto.Detail), &detail); convErr != nil {
			return nil, fmt.Errorf("decode audit detail %s: %w", dto.ID, convErr)
		}
		out = append(out, audit.RestoreEntry(id, audit.EventType(dto.EventType), dto.ActorID, dto.ActorRole,
			dto.EntityCode, dto.Summary, detail, dto.RecordedAt))
	}
	return out, nil
}
