// file: internals/features/finance/ledger/service/audit.go
package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger/model"
)

// AuditRecorder menulis log mutasi finansial secara best-effort di luar
// transaksi operasi; kegagalan audit tidak pernah membatalkan operasi
// finansial, hanya di-log warn.
//
// Operasi yang bermutasi memakai Trail(): entry ditahan selama transaksi
// dan baru ditulis lewat Flush setelah commit, supaya rollback tidak
// meninggalkan jejak untuk operasi yang tidak pernah terjadi.
type AuditRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuditRecorder(db *gorm.DB, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{db: db, log: log}
}

func (r *AuditRecorder) Record(
	action, entityType string,
	entityID, performedBy uuid.UUID,
	changes map[string]interface{},
	ipAddress *string,
) {
	entry := model.AuditLogEntry{
		AuditAction:      action,
		AuditEntityType:  entityType,
		AuditEntityID:    entityID,
		AuditPerformedBy: performedBy,
		AuditChanges:     datatypes.JSONMap(changes),
		AuditIPAddress:   ipAddress,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.log.Warn("audit record failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}

type auditEntry struct {
	action      string
	entityType  string
	entityID    uuid.UUID
	performedBy uuid.UUID
	changes     map[string]interface{}
	ipAddress   *string
}

// AuditTrail menampung entry audit satu operasi sampai commit.
type AuditTrail struct {
	rec     *AuditRecorder
	entries []auditEntry
}

func (r *AuditRecorder) Trail() *AuditTrail { return &AuditTrail{rec: r} }

// Record menunda penulisan; tidak ada yang menyentuh DB sebelum Flush.
func (t *AuditTrail) Record(
	action, entityType string,
	entityID, performedBy uuid.UUID,
	changes map[string]interface{},
	ipAddress *string,
) {
	t.entries = append(t.entries, auditEntry{
		action:      action,
		entityType:  entityType,
		entityID:    entityID,
		performedBy: performedBy,
		changes:     changes,
		ipAddress:   ipAddress,
	})
}

// Flush menulis semua entry tertunda. Panggil hanya setelah transaksi
// operasi commit; trail yang tidak di-flush hilang bersama rollback-nya.
func (t *AuditTrail) Flush() {
	for _, e := range t.entries {
		t.rec.Record(e.action, e.entityType, e.entityID, e.performedBy, e.changes, e.ipAddress)
	}
	t.entries = nil
}
