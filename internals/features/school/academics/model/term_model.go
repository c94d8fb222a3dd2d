// file: internals/features/school/academics/model/term_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Term struct {
	// PK
	TermID uuid.UUID `gorm:"column:term_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`

	TermAcademicYear string `gorm:"column:term_academic_year;type:varchar(9);not null;index:uniq_term_year_name,unique,priority:1" json:"term_academic_year"` // mis. "2025/2026"
	TermName         string `gorm:"column:term_name;type:varchar(30);not null;index:uniq_term_year_name,unique,priority:2" json:"term_name"`

	TermStartDate time.Time `gorm:"column:term_start_date;not null" json:"term_start_date"`
	TermEndDate   time.Time `gorm:"column:term_end_date;not null" json:"term_end_date"`

	// Hanya satu term aktif per tahun ajaran (dijaga di service).
	TermIsActive bool `gorm:"column:term_is_active;not null;default:false;index" json:"term_is_active"`

	TermCreatedAt time.Time      `gorm:"column:term_created_at;not null;default:now()" json:"term_created_at"`
	TermUpdatedAt time.Time      `gorm:"column:term_updated_at;not null;default:now()" json:"term_updated_at"`
	TermDeletedAt gorm.DeletedAt `gorm:"column:term_deleted_at;index" json:"-"`
}

func (Term) TableName() string { return "terms" }

func (m *Term) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if m.TermCreatedAt.IsZero() {
		m.TermCreatedAt = now
	}
	m.TermUpdatedAt = now
	return nil
}

func (m *Term) BeforeUpdate(tx *gorm.DB) error {
	m.TermUpdatedAt = time.Now()
	return nil
}
