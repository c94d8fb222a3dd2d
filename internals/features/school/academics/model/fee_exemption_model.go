// file: internals/features/school/academics/model/fee_exemption_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — jenis exemption
// =========================================================

type FeeExemptionType string

const (
	FeeExemptionFixedAmount  FeeExemptionType = "fixed_amount"
	FeeExemptionPercentage   FeeExemptionType = "percentage"
	FeeExemptionStaffSibling FeeExemptionType = "staff_sibling"
)

// =========================================================
// MODEL
// =========================================================

type FeeExemption struct {
	// PK
	FeeExemptionID uuid.UUID `gorm:"column:fee_exemption_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"fee_exemption_id"`

	// FK → students
	FeeExemptionStudentID uuid.UUID `gorm:"column:fee_exemption_student_id;type:uuid;not null;index" json:"fee_exemption_student_id"`

	FeeExemptionType FeeExemptionType `gorm:"column:fee_exemption_type;type:varchar(20);not null" json:"fee_exemption_type"`

	// Terisi sesuai type (fixed_amount → FixedAmount, percentage → Percentage).
	FeeExemptionFixedAmount decimal.Decimal `gorm:"column:fee_exemption_fixed_amount;type:numeric(14,2);not null;default:0" json:"fee_exemption_fixed_amount"`
	FeeExemptionPercentage  decimal.Decimal `gorm:"column:fee_exemption_percentage;type:numeric(5,2);not null;default:0" json:"fee_exemption_percentage"`

	FeeExemptionReason   *string `gorm:"column:fee_exemption_reason;type:varchar(255)" json:"fee_exemption_reason,omitempty"`
	FeeExemptionIsActive bool    `gorm:"column:fee_exemption_is_active;not null;default:true;index" json:"fee_exemption_is_active"`

	FeeExemptionCreatedAt time.Time      `gorm:"column:fee_exemption_created_at;not null;default:now()" json:"fee_exemption_created_at"`
	FeeExemptionUpdatedAt time.Time      `gorm:"column:fee_exemption_updated_at;not null;default:now()" json:"fee_exemption_updated_at"`
	FeeExemptionDeletedAt gorm.DeletedAt `gorm:"column:fee_exemption_deleted_at;index" json:"-"`
}

func (FeeExemption) TableName() string { return "fee_exemptions" }

func (m *FeeExemption) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.FeeExemptionCreatedAt.IsZero() {
		m.FeeExemptionCreatedAt = now
	}
	m.FeeExemptionUpdatedAt = now
	return nil
}

func (m *FeeExemption) BeforeUpdate(tx *gorm.DB) error {
	m.FeeExemptionUpdatedAt = time.Now()
	return nil
}
