// file: internals/features/finance/ledger/controller/credit_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/ledger/dto"
	"sekolahku_backend/internals/features/finance/ledger/service"
	helper "sekolahku_backend/internals/helpers"
)

// CreditController melayani statement credit, trigger reconciliation
// manual, dan pembacaan audit log.
type CreditController struct {
	Service *service.Service
}

func NewCreditController(svc *service.Service) *CreditController {
	return &CreditController{Service: svc}
}

// GET /api/a/students/:id/credit
func (ctrl *CreditController) GetStatement(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	statement, err := ctrl.Service.GetCreditStatement(c.Context(), id)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.NewCreditStatementResponse(statement))
}

// POST /api/a/students/:id/reconcile
// Pass penuh on-demand; bersifat idempoten untuk state yang sudah sehat.
func (ctrl *CreditController) Reconcile(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	performer, err := performerFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.Service.Reconcile(c.Context(), id, performer); err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "Reconciliation selesai", nil)
}

// GET /api/a/audit-logs?entity_type=&entity_id=&action=
func (ctrl *CreditController) ListAuditLog(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "audit_created_at", "desc", helper.AdminOpts)

	var filter service.AuditFilter
	if raw := c.Query("entity_type"); raw != "" {
		filter.EntityType = &raw
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "entity_id bukan UUID valid")
		}
		filter.EntityID = &id
	}
	if raw := c.Query("action"); raw != "" {
		filter.Action = &raw
	}

	entries, total, err := ctrl.Service.ListAuditLog(c.Context(), filter, p)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonList(c, entries, helper.BuildMeta(total, p))
}
