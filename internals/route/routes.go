// file: internals/route/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgerroute "sekolahku_backend/internals/features/finance/ledger/route"
	ledgersvc "sekolahku_backend/internals/features/finance/ledger/service"
	academicsroute "sekolahku_backend/internals/features/school/academics/route"
	academicssvc "sekolahku_backend/internals/features/school/academics/service"
	"sekolahku_backend/internals/middlewares/auth"
)

// SetupRoutes merakit dependency lalu mendaftarkan seluruh route.
// Prefix /api/a = area back-office ber-auth (gating role per feature).
func SetupRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger) {
	directory := academicssvc.NewDirectory(db)
	notifier := ledgersvc.NewLogNotifier(log)
	ledger := ledgersvc.New(db, log, directory, notifier, ledgersvc.ConfigFromEnv())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	admin := app.Group("/api/a", auth.AuthMiddleware())
	academicsroute.AcademicsAdminRoutes(admin, db)
	ledgerroute.LedgerAdminRoutes(admin, ledger)
}
