// file: internals/features/school/academics/controller/term_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/academics/dto"
	"sekolahku_backend/internals/features/school/academics/model"
	helper "sekolahku_backend/internals/helpers"
)

type TermController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTermController(db *gorm.DB) *TermController {
	return &TermController{DB: db, Validate: validator.New()}
}

// POST /api/a/terms
func (ctrl *TermController) Create(c *fiber.Ctx) error {
	var req dto.CreateTermRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !req.EndDate.After(req.StartDate) {
		return helper.JsonError(c, fiber.StatusBadRequest, "end_date harus setelah start_date")
	}

	term := model.Term{
		TermAcademicYear: strings.TrimSpace(req.AcademicYear),
		TermName:         strings.TrimSpace(req.Name),
		TermStartDate:    req.StartDate,
		TermEndDate:      req.EndDate,
	}
	if err := ctrl.DB.Create(&term).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Term dengan tahun ajaran & nama tersebut sudah ada")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan term")
	}
	return helper.JsonCreated(c, "Term dibuat", term)
}

// GET /api/a/terms
func (ctrl *TermController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "term_start_date", "desc", helper.DefaultOpts)

	q := ctrl.DB.Model(&model.Term{})
	if year := strings.TrimSpace(c.Query("academic_year")); year != "" {
		q = q.Where("term_academic_year = ?", year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung term")
	}

	allowedSort := map[string]string{
		"start_date":      "term_start_date",
		"term_start_date": "term_start_date",
		"academic_year":   "term_academic_year",
		"created_at":      "term_created_at",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "term_start_date")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "sort_by tidak valid")
	}
	orderExpr := strings.TrimPrefix(orderClause, "ORDER BY ")

	var terms []model.Term
	if err := q.
		Order(orderExpr).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&terms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar term")
	}
	return helper.JsonList(c, terms, helper.BuildMeta(total, p))
}

// POST /api/a/terms/:id/activate
// Hanya satu term aktif pada satu waktu; term lain dinonaktifkan.
func (ctrl *TermController) Activate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id bukan UUID valid")
	}

	var term model.Term
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&term, "term_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Term{}).
			Where("term_is_active = TRUE AND term_id <> ?", id).
			Update("term_is_active", false).Error; err != nil {
			return err
		}
		term.TermIsActive = true
		return tx.Save(&term).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Term tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengaktifkan term")
	}
	return helper.JsonOK(c, "Term diaktifkan", term)
}
