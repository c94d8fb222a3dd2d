// file: internals/features/finance/ledger/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/constants"
	"sekolahku_backend/internals/features/finance/ledger/controller"
	"sekolahku_backend/internals/features/finance/ledger/service"
	"sekolahku_backend/internals/middlewares/auth"
)

// LedgerAdminRoutes mendaftarkan endpoint billing & pembayaran. Group yang
// diterima sudah ber-auth; gating role finance dipasang di sini karena
// berbeda antara endpoint baca dan mutasi.
func LedgerAdminRoutes(admin fiber.Router, svc *service.Service) {
	invoiceCtrl := controller.NewInvoiceController(svc)
	receiptCtrl := controller.NewReceiptController(svc)
	creditCtrl := controller.NewCreditController(svc)

	financeOnly := auth.OnlyRoles(
		constants.RoleErrorFinance("billing"),
		constants.ReceiptStaffRoles...,
	)
	adminOnly := auth.OnlyRoles(
		constants.RoleErrorAdmin("audit log"),
		constants.AdminAndAbove...,
	)

	invoices := admin.Group("/invoices", financeOnly)
	invoices.Post("/", invoiceCtrl.Save)
	invoices.Get("/", invoiceCtrl.List)
	invoices.Get("/:id", invoiceCtrl.GetByID)
	invoices.Post("/:id/void", invoiceCtrl.Void)

	receipts := admin.Group("/receipts", financeOnly)
	receipts.Post("/", receiptCtrl.Create)
	receipts.Get("/", receiptCtrl.List)
	receipts.Get("/:id", receiptCtrl.GetByID)
	receipts.Post("/:id/void", receiptCtrl.Void)

	students := admin.Group("/students", financeOnly)
	students.Get("/:id/credit", creditCtrl.GetStatement)
	students.Post("/:id/reconcile", creditCtrl.Reconcile)

	admin.Get("/audit-logs", adminOnly, creditCtrl.ListAuditLog)
}
