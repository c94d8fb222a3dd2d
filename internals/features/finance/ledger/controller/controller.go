// file: internals/features/finance/ledger/controller/controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/ledger/service"
	helper "sekolahku_backend/internals/helpers"
)

// jsonLedgerError memetakan error domain ke status HTTP. Error non-domain
// dianggap internal dan pesannya tidak dibocorkan ke klien.
func jsonLedgerError(c *fiber.Ctx, err error) error {
	var le *service.LedgerError
	if errors.As(err, &le) {
		return helper.JsonError(c, service.HTTPStatus(le), le.Error())
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

// performerFromLocals membaca user_id hasil auth middleware.
func performerFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: missing user id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: invalid user id")
	}
	return id, nil
}

func roleFromLocals(c *fiber.Ctx) string {
	role, _ := c.Locals("userRole").(string)
	return role
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Parameter "+name+" bukan UUID valid")
	}
	return id, nil
}

func clientIP(c *fiber.Ctx) *string {
	ip := c.IP()
	if ip == "" {
		return nil
	}
	return &ip
}
