// file: internals/features/school/academics/controller/enrolment_controller.go
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

type EnrolmentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewEnrolmentController(db *gorm.DB) *EnrolmentController {
	return &EnrolmentController{DB: db, Validate: validator.New()}
}

// POST /api/a/enrolments
func (ctrl *EnrolmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrolmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	// Referensi harus ada sebelum insert (FK tidak di-enforce DB).
	var count int64
	if err := ctrl.DB.Model(&model.Student{}).Where("student_id = ?", req.StudentID).Count(&count).Error; err != nil || count == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
	}
	if err := ctrl.DB.Model(&model.Term{}).Where("term_id = ?", req.TermID).Count(&count).Error; err != nil || count == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Term tidak ditemukan")
	}

	enr := model.Enrolment{
		EnrolmentStudentID: req.StudentID,
		EnrolmentTermID:    req.TermID,
		EnrolmentClassName: strings.TrimSpace(req.ClassName),
		EnrolmentIsActive:  true,
	}
	if err := ctrl.DB.Create(&enr).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Student sudah terdaftar di term tersebut")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan enrolment")
	}
	return helper.JsonCreated(c, "Enrolment dibuat", enr)
}

// GET /api/a/enrolments?student_id=&term_id=
func (ctrl *EnrolmentController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "enrolment_created_at", "desc", helper.DefaultOpts)

	q := ctrl.DB.Model(&model.Enrolment{})
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
		}
		q = q.Where("enrolment_student_id = ?", id)
	}
	if raw := c.Query("term_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "term_id bukan UUID valid")
		}
		q = q.Where("enrolment_term_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung enrolment")
	}

	allowedSort := map[string]string{
		"created_at":           "enrolment_created_at",
		"enrolment_created_at": "enrolment_created_at",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "enrolment_created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "sort_by tidak valid")
	}
	orderExpr := strings.TrimPrefix(orderClause, "ORDER BY ")

	var enrolments []model.Enrolment
	if err := q.
		Order(orderExpr).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&enrolments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar enrolment")
	}
	return helper.JsonList(c, enrolments, helper.BuildMeta(total, p))
}

// POST /api/a/enrolments/:id/deactivate
func (ctrl *EnrolmentController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id bukan UUID valid")
	}

	var enr model.Enrolment
	if err := ctrl.DB.First(&enr, "enrolment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Enrolment tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil enrolment")
	}

	enr.EnrolmentIsActive = false
	if err := ctrl.DB.Save(&enr).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan enrolment")
	}
	return helper.JsonOK(c, "Enrolment dinonaktifkan", enr)
}
