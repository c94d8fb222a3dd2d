// file: internals/features/school/academics/model/fee_assignment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeAssignment = satu pos biaya yang dibebankan ke student untuk satu term
// (SPP, makan, buku, dst). Sumber data getBillsForInvoice.
type FeeAssignment struct {
	// PK
	FeeAssignmentID uuid.UUID `gorm:"column:fee_assignment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"fee_assignment_id"`

	// FK → students / terms
	FeeAssignmentStudentID uuid.UUID `gorm:"column:fee_assignment_student_id;type:uuid;not null;index:ix_fee_assignment_student_term,priority:1" json:"fee_assignment_student_id"`
	FeeAssignmentTermID    uuid.UUID `gorm:"column:fee_assignment_term_id;type:uuid;not null;index:ix_fee_assignment_student_term,priority:2" json:"fee_assignment_term_id"`

	FeeAssignmentName   string          `gorm:"column:fee_assignment_name;type:varchar(60);not null" json:"fee_assignment_name"`
	FeeAssignmentAmount decimal.Decimal `gorm:"column:fee_assignment_amount;type:numeric(14,2);not null" json:"fee_assignment_amount"`

	// Penanda fee makan; dipakai aturan exemption staff_sibling.
	FeeAssignmentIsFood bool `gorm:"column:fee_assignment_is_food;not null;default:false" json:"fee_assignment_is_food"`

	FeeAssignmentCreatedAt time.Time      `gorm:"column:fee_assignment_created_at;not null;default:now()" json:"fee_assignment_created_at"`
	FeeAssignmentUpdatedAt time.Time      `gorm:"column:fee_assignment_updated_at;not null;default:now()" json:"fee_assignment_updated_at"`
	FeeAssignmentDeletedAt gorm.DeletedAt `gorm:"column:fee_assignment_deleted_at;index" json:"-"`
}

func (FeeAssignment) TableName() string { return "fee_assignments" }

func (m *FeeAssignment) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.FeeAssignmentCreatedAt.IsZero() {
		m.FeeAssignmentCreatedAt = now
	}
	m.FeeAssignmentUpdatedAt = now
	return nil
}

func (m *FeeAssignment) BeforeUpdate(tx *gorm.DB) error {
	m.FeeAssignmentUpdatedAt = time.Now()
	return nil
}
