// file: internals/features/finance/ledger/model/audit_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogEntry = log append-only untuk setiap mutasi finansial.
// Penulisan best-effort: gagal audit tidak boleh membatalkan operasi.
type AuditLogEntry struct {
	AuditID uuid.UUID `gorm:"column:audit_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_id"`

	AuditAction     string    `gorm:"column:audit_action;type:varchar(40);not null;index" json:"audit_action"`
	AuditEntityType string    `gorm:"column:audit_entity_type;type:varchar(30);not null;index:ix_audit_entity,priority:1" json:"audit_entity_type"`
	AuditEntityID   uuid.UUID `gorm:"column:audit_entity_id;type:uuid;not null;index:ix_audit_entity,priority:2" json:"audit_entity_id"`

	AuditPerformedBy uuid.UUID         `gorm:"column:audit_performed_by;type:uuid;not null;index" json:"audit_performed_by"`
	AuditChanges     datatypes.JSONMap `gorm:"column:audit_changes;type:jsonb" json:"audit_changes,omitempty"`
	AuditIPAddress   *string           `gorm:"column:audit_ip_address;type:varchar(45)" json:"audit_ip_address,omitempty"`

	AuditCreatedAt time.Time `gorm:"column:audit_created_at;not null;default:now();index" json:"audit_created_at"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entries" }
