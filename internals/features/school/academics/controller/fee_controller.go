// file: internals/features/school/academics/controller/fee_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/academics/dto"
	"sekolahku_backend/internals/features/school/academics/model"
	helper "sekolahku_backend/internals/helpers"
)

// FeeController mengelola fee assignment dan fee exemption. Keduanya
// hanya sumber data untuk invoice engine; perubahan di sini baru terasa
// setelah invoice di-save ulang.
type FeeController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{DB: db, Validate: validator.New()}
}

// POST /api/a/fee-assignments
func (ctrl *FeeController) CreateAssignment(c *fiber.Ctx) error {
	var req dto.CreateFeeAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return helper.JsonError(c, fiber.StatusBadRequest, "amount harus positif")
	}

	fee := model.FeeAssignment{
		FeeAssignmentStudentID: req.StudentID,
		FeeAssignmentTermID:    req.TermID,
		FeeAssignmentName:      strings.TrimSpace(req.Name),
		FeeAssignmentAmount:    req.Amount.Round(2),
		FeeAssignmentIsFood:    req.IsFood,
	}
	if err := ctrl.DB.Create(&fee).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan fee assignment")
	}
	return helper.JsonCreated(c, "Fee assignment dibuat", fee)
}

// GET /api/a/fee-assignments?student_id=&term_id=
func (ctrl *FeeController) ListAssignments(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "fee_assignment_created_at", "asc", helper.DefaultOpts)

	q := ctrl.DB.Model(&model.FeeAssignment{})
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
		}
		q = q.Where("fee_assignment_student_id = ?", id)
	}
	if raw := c.Query("term_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "term_id bukan UUID valid")
		}
		q = q.Where("fee_assignment_term_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung fee assignment")
	}

	allowedSort := map[string]string{
		"created_at":                "fee_assignment_created_at",
		"fee_assignment_created_at": "fee_assignment_created_at",
		"name":                      "fee_assignment_fee_name",
		"amount":                    "fee_assignment_amount",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "fee_assignment_created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "sort_by tidak valid")
	}
	orderExpr := strings.TrimPrefix(orderClause, "ORDER BY ")

	var fees []model.FeeAssignment
	if err := q.
		Order(orderExpr).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&fees).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil fee assignment")
	}
	return helper.JsonList(c, fees, helper.BuildMeta(total, p))
}

// DELETE /api/a/fee-assignments/:id
func (ctrl *FeeController) DeleteAssignment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id bukan UUID valid")
	}

	res := ctrl.DB.Delete(&model.FeeAssignment{}, "fee_assignment_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus fee assignment")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Fee assignment tidak ditemukan")
	}
	return helper.JsonOK(c, "Fee assignment dihapus", nil)
}

// POST /api/a/fee-exemptions
// Exemption baru menonaktifkan exemption aktif sebelumnya; satu student
// satu exemption berlaku.
func (ctrl *FeeController) CreateExemption(c *fiber.Ctx) error {
	var req dto.CreateFeeExemptionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ex := model.FeeExemption{
		FeeExemptionStudentID: req.StudentID,
		FeeExemptionType:      model.FeeExemptionType(req.Type),
		FeeExemptionReason:    req.Reason,
		FeeExemptionIsActive:  true,
	}
	switch ex.FeeExemptionType {
	case model.FeeExemptionFixedAmount:
		if req.FixedAmount == nil || !req.FixedAmount.GreaterThan(decimal.Zero) {
			return helper.JsonError(c, fiber.StatusBadRequest, "fixed_amount wajib positif untuk type fixed_amount")
		}
		ex.FeeExemptionFixedAmount = req.FixedAmount.Round(2)
	case model.FeeExemptionPercentage:
		if req.Percentage == nil || !req.Percentage.GreaterThan(decimal.Zero) ||
			req.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return helper.JsonError(c, fiber.StatusBadRequest, "percentage wajib 0-100 untuk type percentage")
		}
		ex.FeeExemptionPercentage = req.Percentage.Round(2)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.FeeExemption{}).
			Where("fee_exemption_student_id = ? AND fee_exemption_is_active = TRUE", req.StudentID).
			Update("fee_exemption_is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&ex).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan fee exemption")
	}
	return helper.JsonCreated(c, "Fee exemption dibuat", ex)
}

// GET /api/a/fee-exemptions?student_id=
func (ctrl *FeeController) ListExemptions(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "fee_exemption_created_at", "desc", helper.DefaultOpts)

	q := ctrl.DB.Model(&model.FeeExemption{})
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
		}
		q = q.Where("fee_exemption_student_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung fee exemption")
	}

	allowedSort := map[string]string{
		"created_at":               "fee_exemption_created_at",
		"fee_exemption_created_at": "fee_exemption_created_at",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "fee_exemption_created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "sort_by tidak valid")
	}
	orderExpr := strings.TrimPrefix(orderClause, "ORDER BY ")

	var exemptions []model.FeeExemption
	if err := q.
		Order(orderExpr).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&exemptions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil fee exemption")
	}
	return helper.JsonList(c, exemptions, helper.BuildMeta(total, p))
}
