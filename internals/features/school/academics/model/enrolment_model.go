// file: internals/features/school/academics/model/enrolment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enrolment struct {
	// PK
	EnrolmentID uuid.UUID `gorm:"column:enrolment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"enrolment_id"`

	// FK → students / terms
	EnrolmentStudentID uuid.UUID `gorm:"column:enrolment_student_id;type:uuid;not null;index:uniq_enrolment_student_term,unique,priority:1" json:"enrolment_student_id"`
	EnrolmentTermID    uuid.UUID `gorm:"column:enrolment_term_id;type:uuid;not null;index:uniq_enrolment_student_term,unique,priority:2" json:"enrolment_term_id"`

	EnrolmentClassName string `gorm:"column:enrolment_class_name;type:varchar(60);not null" json:"enrolment_class_name"`

	EnrolmentIsActive bool `gorm:"column:enrolment_is_active;not null;default:true;index" json:"enrolment_is_active"`

	EnrolmentCreatedAt time.Time      `gorm:"column:enrolment_created_at;not null;default:now()" json:"enrolment_created_at"`
	EnrolmentUpdatedAt time.Time      `gorm:"column:enrolment_updated_at;not null;default:now()" json:"enrolment_updated_at"`
	EnrolmentDeletedAt gorm.DeletedAt `gorm:"column:enrolment_deleted_at;index" json:"-"`
}

func (Enrolment) TableName() string { return "enrolments" }

func (m *Enrolment) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.EnrolmentCreatedAt.IsZero() {
		m.EnrolmentCreatedAt = now
	}
	m.EnrolmentUpdatedAt = now
	return nil
}

func (m *Enrolment) BeforeUpdate(tx *gorm.DB) error {
	m.EnrolmentUpdatedAt = time.Now()
	return nil
}
