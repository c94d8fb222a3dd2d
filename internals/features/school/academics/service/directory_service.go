// file: internals/features/school/academics/service/directory_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	ledgersvc "sekolahku_backend/internals/features/finance/ledger/service"
	"sekolahku_backend/internals/features/school/academics/model"
)

// Directory = implementasi GORM dari kontrak lookup yang dibutuhkan engine
// ledger. Semua method mengembalikan nil tanpa error saat data tidak ada;
// pemetaan ke error domain jadi urusan pemanggil.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) GetStudent(ctx context.Context, id uuid.UUID) (*ledgersvc.StudentInfo, error) {
	var st model.Student
	err := d.db.WithContext(ctx).First(&st, "student_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	info := ledgersvc.StudentInfo{
		ID:       st.StudentID,
		FullName: st.StudentFullName,
	}
	if st.StudentGuardianEmail != nil {
		info.GuardianEmail = *st.StudentGuardianEmail
	}
	if st.StudentGuardianPhone != nil {
		info.GuardianPhone = *st.StudentGuardianPhone
	}
	return &info, nil
}

// GetActiveEnrolment mencari enrolment aktif student di term yang sedang
// berjalan. Student boleh punya enrolment di banyak term; hanya pasangan
// (enrolment aktif, term aktif) yang dianggap berlaku.
func (d *Directory) GetActiveEnrolment(ctx context.Context, studentID uuid.UUID) (*ledgersvc.EnrolmentInfo, error) {
	var enr model.Enrolment
	err := d.db.WithContext(ctx).
		Joins("JOIN terms ON terms.term_id = enrolments.enrolment_term_id AND terms.term_is_active = TRUE AND terms.term_deleted_at IS NULL").
		Where("enrolments.enrolment_student_id = ? AND enrolments.enrolment_is_active = TRUE", studentID).
		Order("enrolments.enrolment_created_at DESC").
		First(&enr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ledgersvc.EnrolmentInfo{
		ID:        enr.EnrolmentID,
		StudentID: enr.EnrolmentStudentID,
		TermID:    enr.EnrolmentTermID,
		Active:    enr.EnrolmentIsActive,
	}, nil
}

func (d *Directory) GetBillsForInvoice(ctx context.Context, studentID, termID uuid.UUID) ([]ledgersvc.Bill, error) {
	var fees []model.FeeAssignment
	if err := d.db.WithContext(ctx).
		Where("fee_assignment_student_id = ? AND fee_assignment_term_id = ?", studentID, termID).
		Order("fee_assignment_created_at ASC").
		Find(&fees).Error; err != nil {
		return nil, err
	}

	bills := make([]ledgersvc.Bill, 0, len(fees))
	for _, f := range fees {
		bills = append(bills, ledgersvc.Bill{
			Name:   f.FeeAssignmentName,
			Amount: f.FeeAssignmentAmount,
			IsFood: f.FeeAssignmentIsFood,
		})
	}
	return bills, nil
}

// GetActiveExemption mengambil exemption aktif terbaru. Satu student satu
// exemption berlaku; kalau ada lebih dari satu, yang terbaru menang.
func (d *Directory) GetActiveExemption(ctx context.Context, studentID uuid.UUID) (*ledgersvc.Exemption, error) {
	var ex model.FeeExemption
	err := d.db.WithContext(ctx).
		Where("fee_exemption_student_id = ? AND fee_exemption_is_active = TRUE", studentID).
		Order("fee_exemption_created_at DESC").
		First(&ex).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ledgersvc.Exemption{
		Type:        ledgersvc.ExemptionType(ex.FeeExemptionType),
		FixedAmount: ex.FeeExemptionFixedAmount,
		Percentage:  ex.FeeExemptionPercentage,
	}, nil
}
