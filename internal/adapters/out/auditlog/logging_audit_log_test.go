package auditlog_test

import (
	"errors"
	"testing"
	"time"

	"custody/internal/adapters/out/auditlog"
	"custody/internal/adapters/out/memory"
	"custody/internal/core/domain/model/audit"
	"custody/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEntry(t *testing.T) audit.Entry {
	t.Helper()
	actor, err := kernel.NewActor("user-1", "HUB_OPERATOR", "HUB-A")
	require.NoError(t, err)
	entry, err := audit.NewEntry(audit.BagOp, actor, "BAG-HUB-A-1", "bag sealed",
		audit.Detail{"sealNumber": "S-1234"}, time.Now().UTC())
	require.NoError(t, err)
	return entry
}

func TestLoggingAuditLog_Record(t *testing.T) {
	t.Run("should log and forward the entry", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		sink := &memory.AuditLog{}
		l := auditlog.NewLoggingAuditLog(sink, zap.New(core))

		err := l.Record(t.Context(), newEntry(t))

		require.NoError(t, err)
		require.Len(t, sink.Entries(), 1)
		require.Equal(t, 1, logs.Len())
		logged := logs.All()[0]
		assert.Equal(t, "bag sealed", logged.Message)
		assert.Equal(t, "BAG-HUB-A-1", logged.ContextMap()["entity"])
		assert.Equal(t, "BAG_OP", logged.ContextMap()["event"])
	})

	t.Run("should log at error level and return the sink failure", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		sinkErr := errors.New("disk full")
		l := auditlog.NewLoggingAuditLog(&memory.AuditLog{Fail: sinkErr}, zap.New(core))

		err := l.Record(t.Context(), newEntry(t))

		require.ErrorIs(t, err, sinkErr)
		require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	})
}
