// file: internals/features/school/academics/controller/student_controller.go
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

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validate: validator.New()}
}

// POST /api/a/students
func (ctrl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	student := model.Student{
		StudentAdmissionNumber: strings.TrimSpace(req.AdmissionNumber),
		StudentFullName:        strings.TrimSpace(req.FullName),
		StudentGuardianName:    req.GuardianName,
		StudentGuardianEmail:   req.GuardianEmail,
		StudentGuardianPhone:   req.GuardianPhone,
		StudentIsActive:        true,
	}
	if err := ctrl.DB.Create(&student).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Nomor admisi sudah terpakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan student")
	}
	return helper.JsonCreated(c, "Student terdaftar", student)
}

// GET /api/a/students/:id
func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id bukan UUID valid")
	}

	var student model.Student
	if err := ctrl.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil student")
	}
	return helper.JsonOK(c, "OK", student)
}

// GET /api/a/students?search=&active_only=
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "student_full_name", "asc", helper.DefaultOpts)

	q := ctrl.DB.Model(&model.Student{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("student_full_name ILIKE ? OR student_admission_number ILIKE ?", like, like)
	}
	if c.QueryBool("active_only") {
		q = q.Where("student_is_active = TRUE")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung student")
	}

	allowedSort := map[string]string{
		"name":              "student_full_name",
		"student_full_name": "student_full_name",
		"admission_number":  "student_admission_number",
		"created_at":        "student_created_at",
	}
	orderClause, err := p.SafeOrderClause(allowedSort, "student_full_name")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "sort_by tidak valid")
	}
	orderExpr := strings.TrimPrefix(orderClause, "ORDER BY ")

	var students []model.Student
	if err := q.
		Order(orderExpr).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar student")
	}
	return helper.JsonList(c, students, helper.BuildMeta(total, p))
}

// PUT /api/a/students/:id
func (ctrl *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id bukan UUID valid")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var student model.Student
	if err := ctrl.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil student")
	}

	if req.FullName != nil {
		student.StudentFullName = strings.TrimSpace(*req.FullName)
	}
	if req.GuardianName != nil {
		student.StudentGuardianName = req.GuardianName
	}
	if req.GuardianEmail != nil {
		student.StudentGuardianEmail = req.GuardianEmail
	}
	if req.GuardianPhone != nil {
		student.StudentGuardianPhone = req.GuardianPhone
	}
	if req.IsActive != nil {
		student.StudentIsActive = *req.IsActive
	}

	if err := ctrl.DB.Save(&student).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui student")
	}
	return helper.JsonOK(c, "Student diperbarui", student)
}
