// file: internals/features/finance/ledger/controller/receipt_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/ledger/dto"
	"sekolahku_backend/internals/features/finance/ledger/service"
	helper "sekolahku_backend/internals/helpers"
)

type ReceiptController struct {
	Service  *service.Service
	Validate *validator.Validate
}

func NewReceiptController(svc *service.Service) *ReceiptController {
	return &ReceiptController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// POST /api/a/receipts
func (ctrl *ReceiptController) Create(c *fiber.Ctx) error {
	var req dto.CreateReceiptRequest
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

	receipt, err := ctrl.Service.CreateReceipt(c.Context(), service.CreateReceiptInput{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   req.PaymentDate,
		Description:   req.Description,
		ServedBy:      performer,
		ServedByRole:  roleFromLocals(c),
		IPAddress:     clientIP(c),
	})
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonCreated(c, "Pembayaran tercatat", dto.NewReceiptResponse(receipt))
}

// GET /api/a/receipts/:id
func (ctrl *ReceiptController) GetByID(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	receipt, err := ctrl.Service.GetReceipt(c.Context(), id)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.NewReceiptResponse(receipt))
}

// GET /api/a/receipts?student_id=&payment_method=&include_voided=
func (ctrl *ReceiptController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "receipt_payment_date", "desc", helper.AdminOpts)

	var filter service.ReceiptFilter
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id bukan UUID valid")
		}
		filter.StudentID = &id
	}
	if raw := c.Query("payment_method"); raw != "" {
		filter.PaymentMethod = &raw
	}
	filter.IncludeVoided = c.QueryBool("include_voided")

	receipts, total, err := ctrl.Service.ListReceipts(c.Context(), filter, p)
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonList(c, dto.NewReceiptResponses(receipts), helper.BuildMeta(total, p))
}

// POST /api/a/receipts/:id/void
func (ctrl *ReceiptController) Void(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.VoidReceiptRequest
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

	receipt, err := ctrl.Service.VoidReceipt(c.Context(), id, performer, roleFromLocals(c), req.Reason, clientIP(c))
	if err != nil {
		return jsonLedgerError(c, err)
	}
	return helper.JsonOK(c, "Pembayaran dibatalkan", dto.NewReceiptResponse(receipt))
}
