// file: internals/features/finance/ledger/service/audit_test.go
package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuditTrailBuffersUntilFlush(t *testing.T) {
	// db nil: aman selama belum Flush, karena Record trail hanya buffering.
	rec := NewAuditRecorder(nil, zap.NewNop())
	trail := rec.Trail()

	trail.Record("invoice.created", "invoice", uuid.New(), uuid.New(), map[string]interface{}{
		"total_bill": "100",
	}, nil)
	trail.Record("invoice.overpayment_correction", "invoice", uuid.New(), uuid.New(), nil, nil)

	require.Len(t, trail.entries, 2)
	assert.Equal(t, "invoice.created", trail.entries[0].action)
	assert.Equal(t, "invoice.overpayment_correction", trail.entries[1].action)

	// trail yang dibuang bersama rollback tidak pernah menulis apa-apa:
	// satu-satunya jalur tulis adalah Flush, yang hanya dipanggil setelah
	// commit
	discarded := rec.Trail()
	discarded.Record("receipt.created", "receipt", uuid.New(), uuid.New(), nil, nil)
	assert.Len(t, discarded.entries, 1)
}
