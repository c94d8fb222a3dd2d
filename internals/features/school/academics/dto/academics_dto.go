// file: internals/features/school/academics/dto/academics_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ===================== Student ===================== */

type CreateStudentRequest struct {
	AdmissionNumber string  `json:"admission_number" validate:"required,max=30"`
	FullName        string  `json:"full_name" validate:"required,max=120"`
	GuardianName    *string `json:"guardian_name,omitempty" validate:"omitempty,max=120"`
	GuardianEmail   *string `json:"guardian_email,omitempty" validate:"omitempty,email,max=120"`
	GuardianPhone   *string `json:"guardian_phone,omitempty" validate:"omitempty,max=30"`
}

type UpdateStudentRequest struct {
	FullName      *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	GuardianName  *string `json:"guardian_name,omitempty" validate:"omitempty,max=120"`
	GuardianEmail *string `json:"guardian_email,omitempty" validate:"omitempty,email,max=120"`
	GuardianPhone *string `json:"guardian_phone,omitempty" validate:"omitempty,max=30"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

/* ===================== Term ===================== */

type CreateTermRequest struct {
	AcademicYear string    `json:"academic_year" validate:"required,max=9"`
	Name         string    `json:"name" validate:"required,max=30"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
}

/* ===================== Enrolment ===================== */

type CreateEnrolmentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	TermID    uuid.UUID `json:"term_id" validate:"required"`
	ClassName string    `json:"class_name" validate:"required,max=60"`
}

/* ===================== Fee assignment ===================== */

type CreateFeeAssignmentRequest struct {
	StudentID uuid.UUID       `json:"student_id" validate:"required"`
	TermID    uuid.UUID       `json:"term_id" validate:"required"`
	Name      string          `json:"name" validate:"required,max=60"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	IsFood    bool            `json:"is_food"`
}

/* ===================== Fee exemption ===================== */

type CreateFeeExemptionRequest struct {
	StudentID   uuid.UUID        `json:"student_id" validate:"required"`
	Type        string           `json:"type" validate:"required,oneof=fixed_amount percentage staff_sibling"`
	FixedAmount *decimal.Decimal `json:"fixed_amount,omitempty"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	Reason      *string          `json:"reason,omitempty" validate:"omitempty,max=255"`
}
