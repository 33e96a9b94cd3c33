package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolpay_backend/internals/features/finance/billing/dto"
	service "schoolpay_backend/internals/features/finance/billing/service"
	helper "schoolpay_backend/internals/helpers"
)

type BillingController struct {
	Generator *service.Generator
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{
		Generator: service.NewGenerator(service.NewGormBillingStore(db)),
	}
}

/* ======================= GENERATE ======================= */
// POST /billing/generate-billing
func (h *BillingController) GenerateBilling(c *fiber.Ctx) error {
	var req dto.GenerateBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	plan, err := h.Generator.Generate(c.UserContext(), req.EnrollmentID, req.CreatedBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "billing generated", plan)
}

/* ======================= STATEMENT ======================= */
// GET /billing/billing/:enrollment_id
func (h *BillingController) GetStatement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid enrollment_id")
	}

	st, err := h.Generator.GetStatement(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", st)
}
