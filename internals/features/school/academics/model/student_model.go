// file: internals/features/school/academics/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`

	StudentAdmissionNumber string `gorm:"column:student_admission_number;type:varchar(30);not null;uniqueIndex" json:"student_admission_number"`
	StudentFullName        string `gorm:"column:student_full_name;type:varchar(120);not null" json:"student_full_name"`

	// Kontak wali (untuk notifikasi pembayaran)
	StudentGuardianName  *string `gorm:"column:student_guardian_name;type:varchar(120)" json:"student_guardian_name,omitempty"`
	StudentGuardianEmail *string `gorm:"column:student_guardian_email;type:varchar(120)" json:"student_guardian_email,omitempty"`
	StudentGuardianPhone *string `gorm:"column:student_guardian_phone;type:varchar(30)" json:"student_guardian_phone,omitempty"`

	StudentIsActive bool `gorm:"column:student_is_active;not null;default:true;index" json:"student_is_active"`

	// Timestamps
	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null;default:now()" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null;default:now()" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string { return "students" }

func (m *Student) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) error {
	m.StudentUpdatedAt = time.Now()
	return nil
}
