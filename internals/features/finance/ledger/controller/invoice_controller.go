// file: internals/features/finance/ledger/controller/invoice_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/ledger/dto"
	"sekolahku_backend/internals/features/finance/ledger/model"
	"sekolahku_backend/internals/features/finance/ledger/service"
	helper "sekolahku_backend/internals/helpers"
)

type InvoiceController struct {
	Service  *service.Service
	Validate *validator.Validate
}

func NewInvoiceController(svc *service.Service) *InvoiceController {
	return &InvoiceController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// POST /api/a/invoices
// Upsert invoice aktif student untuk term berjalan dari fee assignment.
func (ctrl *InvoiceController) Save(c *fiber.Ctx) error {
	var req dto.SaveInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	performer, err := performerFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	bbf := decimal.Zero
	if req.BalanceBroughtForward != nil {
		bbf = *req.BalanceBroughtForward
	}

	inv, err := ctrl.Service.SaveInvoice(c.Context(), service.SaveInvoiceInput{
		StudentID:             req.StudentID,
		DueDate:               req.DueDate,
		InvoiceDate:           req.InvoiceDate,
		BalanceBroughtForward: bbf,
		PerformedBy:           performer,
		IPAddress:             clientIP(c),
	})
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonCreated(c, "Invoice tersimpan", dto.NewInvoiceResponse(inv))
}

// GET /api/a/invoices/:id
func (ctrl *InvoiceController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	inv, err := ctrl.Service.GetInvoice(c.Context(), id)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.NewInvoiceResponse(inv))
}

// GET /api/a/invoices?student_id=&term_id=&status=
func (ctrl *InvoiceController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "invoice_due_date", "asc", helper.AdminOpts)

	var filter service.InvoiceFilter
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
		}
		filter.StudentID = &id
	}
	if raw := c.Query("term_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "term_id bukan UUID valid")
		}
		filter.TermID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := model.InvoiceStatus(raw)
		filter.Status = &st
	}

	invoices, total, err := ctrl.Service.ListInvoices(c.Context(), filter, p)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonList(c, dto.NewInvoiceResponses(invoices), helper.BuildMeta(total, p))
}

// POST /api/a/invoices/:id/void
func (ctrl *InvoiceController) Void(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.VoidInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	performer, err := performerFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	inv, err := ctrl.Service.VoidInvoice(c.Context(), id, performer, req.Reason, clientIP(c))
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "Invoice dibatalkan", dto.NewInvoiceResponse(inv))
}
