package controller

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	configs "schoolpay_backend/internals/configs"
	dto "schoolpay_backend/internals/features/finance/payments/dto"
	model "schoolpay_backend/internals/features/finance/payments/model"
	service "schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

type PaymentController struct {
	Store    service.LedgerStore
	Checkout *service.CheckoutManager
	Engine   *service.CompletionEngine
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	store := service.NewGormLedgerStore(db)

	var gw service.PaymentGateway
	if configs.PayMongoEnabled {
		gw = service.NewPayMongoClient(configs.PayMongoSecretKey)
	}

	return &PaymentController{
		Store:    store,
		Checkout: service.NewCheckoutManager(store, gw, configs.BaseURL),
		Engine:   service.NewCompletionEngine(store),
	}
}

/* ======================= CHECKOUT ======================= */

// POST /billing/create-checkout
func (h *PaymentController) CreateCheckout(c *fiber.Ctx) error {
	var req dto.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := h.Checkout.CreateCheckout(c.UserContext(), req.EnrollmentID, req.CreatedBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "checkout session created", dto.CheckoutResponse{
		Payment:     dto.FromPaymentModel(res.Payment),
		CheckoutID:  res.Transaction.PaymentTransactionCheckoutID,
		CheckoutURL: res.CheckoutURL,
		ExpiresAt:   res.Transaction.PaymentTransactionExpiresAt,
	})
}

/* ======================= GATEWAY REDIRECTS ======================= */
// Endpoint redirect TIDAK pernah balas error mentah ke browser — selalu
// redirect ke frontend dengan query param status/error.

// GET /billing/payment/success?payment_id=...
func (h *PaymentController) PaymentSuccess(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("payment_id"))
	if err != nil {
		return h.redirectFrontend(c, "/payment/result", "error", "invalid payment_id")
	}

	res, err := h.Engine.Complete(c.UserContext(), id, service.CompletionInput{
		Method: model.PaymentMethodGateway,
	})
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return h.redirectFrontend(c, "/payment/result", "error", fe.Message)
		}
		return h.redirectFrontend(c, "/payment/result", "error", "payment completion failed")
	}

	status := "completed"
	if res.AlreadyProcessed {
		status = "already_processed"
	}
	return h.redirectFrontend(c, "/payment/result", "status", status)
}

// GET /billing/payment/cancel?payment_id=...
func (h *PaymentController) PaymentCancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Query("payment_id"))
	if err != nil {
		return h.redirectFrontend(c, "/payment/result", "error", "invalid payment_id")
	}
	if err := h.Engine.Cancel(c.UserContext(), id); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return h.redirectFrontend(c, "/payment/result", "error", fe.Message)
		}
		return h.redirectFrontend(c, "/payment/result", "error", "payment cancel failed")
	}
	return h.redirectFrontend(c, "/payment/result", "status", "cancelled")
}

func (h *PaymentController) redirectFrontend(c *fiber.Ctx, path, key, val string) error {
	target := configs.FrontendURL + path + "?" + key + "=" + url.QueryEscape(val)
	return c.Redirect(target, fiber.StatusFound)
}

/* ======================= MOCK / MANUAL ======================= */

// POST /billing/payment/mock-complete — hanya saat gateway dimatikan.
func (h *PaymentController) MockComplete(c *fiber.Ctx) error {
	if configs.PayMongoEnabled {
		return helper.JsonError(c, fiber.StatusForbidden, "mock completion is disabled when the payment gateway is enabled")
	}

	var req struct {
		PaymentID uuid.UUID `json:"payment_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PaymentID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payment_id is required")
	}

	res, err := h.Engine.Complete(c.UserContext(), req.PaymentID, service.CompletionInput{
		Method: model.PaymentMethodGateway,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "payment completed", res)
}

// POST /billing/payments/manual — pembayaran kasir, langsung complete.
func (h *PaymentController) RecordManualPayment(c *fiber.Ctx) error {
	var req dto.RecordManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	payment, err := h.Checkout.CreateManualPayment(
		c.UserContext(), req.EnrollmentID, req.Amount, req.Method, req.ReferenceNumber, req.CreatedBy)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := h.Engine.Complete(c.UserContext(), payment.PaymentID, service.CompletionInput{
		Method:    req.Method,
		Reference: req.ReferenceNumber,
		ActorID:   req.CreatedBy,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "manual payment recorded", res)
}

/* ======================= ADMIN ======================= */

// POST /billing/payments/:id/cancel
func (h *PaymentController) CancelPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	if err := h.Engine.Cancel(c.UserContext(), id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "payment cancelled", fiber.Map{"payment_id": id})
}

// GET /billing/payments/:id
func (h *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment id")
	}
	p, err := h.Store.GetPayment(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromPaymentModel(p))
}
