// file: internals/features/school/academics/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	"sekolahku_backend/internals/features/school/academics/controller"
	"sekolahku_backend/internals/middlewares/auth"
)

// AcademicsAdminRoutes mendaftarkan endpoint master data akademik. Group
// yang diterima sudah ber-auth; staf finance boleh membaca & mengelola
// karena data ini sumber tagihan.
func AcademicsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	studentCtrl := controller.NewStudentController(db)
	termCtrl := controller.NewTermController(db)
	enrolmentCtrl := controller.NewEnrolmentController(db)
	feeCtrl := controller.NewFeeController(db)

	financeOnly := auth.OnlyRoles(
		constants.RoleErrorFinance("master data akademik"),
		constants.ReceiptStaffRoles...,
	)

	students := admin.Group("/students", financeOnly)
	students.Post("/", studentCtrl.Create)
	students.Get("/", studentCtrl.List)
	students.Get("/:id", studentCtrl.GetByID)
	students.Put("/:id", studentCtrl.Update)

	terms := admin.Group("/terms", financeOnly)
	terms.Post("/", termCtrl.Create)
	terms.Get("/", termCtrl.List)
	terms.Post("/:id/activate", termCtrl.Activate)

	enrolments := admin.Group("/enrolments", financeOnly)
	enrolments.Post("/", enrolmentCtrl.Create)
	enrolments.Get("/", enrolmentCtrl.List)
	enrolments.Post("/:id/deactivate", enrolmentCtrl.Deactivate)

	fees := admin.Group("/fee-assignments", financeOnly)
	fees.Post("/", feeCtrl.CreateAssignment)
	fees.Get("/", feeCtrl.ListAssignments)
	fees.Delete("/:id", feeCtrl.DeleteAssignment)

	exemptions := admin.Group("/fee-exemptions", financeOnly)
	exemptions.Post("/", feeCtrl.CreateExemption)
	exemptions.Get("/", feeCtrl.ListExemptions)
}
