package memory

import (
	"context"
	"slices"
	"sync"

	"custody/internal/core/domain/model/audit"
)

// AuditLog keeps entries in insertion order. Fail, when set, is returned by
// Record instead of storing the entry.
type AuditLog struct {
	mu      sync.Mutex
	entries []audit.Entry
	Fail    error
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Record(_ context.Context, entry audit.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Fail != nil {
		return l.Fail
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *AuditLog) Entries() []audit.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// ByEntity returns the entries recorded for one entity code.
func (l *AuditLog) ByEntity(code string) []audit.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []audit.Entry
	for _, e := range l.entries {
		if e.EntityCode() == code {
			out = append(out, e)
		}
	}
	return out
}
