package controller

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	configs "schoolpay_backend/internals/configs"
	dto "schoolpay_backend/internals/features/finance/payments/dto"
	model "schoolpay_backend/internals/features/finance/payments/model"
	service "schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

const eventCheckoutPaid = "checkout_session.payment.paid"

type WebhookController struct {
	Store         service.LedgerStore
	Engine        *service.CompletionEngine
	WebhookSecret string
}

func NewWebhookController(db *gorm.DB) *WebhookController {
	store := service.NewGormLedgerStore(db)
	return &WebhookController{
		Store:         store,
		Engine:        service.NewCompletionEngine(store),
		WebhookSecret: configs.PayMongoWebhookSecret,
	}
}

// POST /billing/webhook/paymongo
// Verifikasi signature WAJIB atas raw body persis seperti diterima —
// jangan re-marshal body sebelum verify.
func (h *WebhookController) HandlePayMongo(c *fiber.Ctx) error {
	rawBody := c.Body()
	sigHeader := c.Get("Paymongo-Signature")

	if err := service.VerifyWebhookSignature(rawBody, sigHeader, h.WebhookSecret); err != nil {
		log.Printf("[WEBHOOK] ❌ signature rejected: %v", err)
		return helper.FromFiberError(c, err)
	}

	var env dto.PayMongoWebhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid webhook payload: "+err.Error())
	}

	// audit dulu, proses kemudian
	ev := &model.PaymentGatewayEvent{
		PaymentGatewayEventProvider: "paymongo",
		PaymentGatewayEventPayload:  datatypes.JSON(rawBody),
		PaymentGatewayEventStatus:   model.GatewayEventStatusReceived,
	}
	if t := env.EventType(); t != "" {
		ev.PaymentGatewayEventType = &t
	}
	if cs := env.CheckoutID(); cs != "" {
		ev.PaymentGatewayEventExternalID = &cs
	}
	if sigHeader != "" {
		ev.PaymentGatewayEventSignature = &sigHeader
	}
	if err := h.Store.CreateGatewayEvent(c.UserContext(), ev); err != nil {
		log.Printf("[WEBHOOK] ⚠️ failed to record gateway event: %v", err)
	}

	if env.EventType() != eventCheckoutPaid {
		h.finishEvent(c, ev, model.GatewayEventStatusIgnored, "")
		return helper.JsonOK(c, "event ignored", fiber.Map{"type": env.EventType()})
	}

	paymentID, err := uuid.Parse(env.MetadataValue("payment_id"))
	if err != nil {
		h.finishEvent(c, ev, model.GatewayEventStatusFailed, "missing or invalid payment_id in metadata")
		return helper.JsonError(c, fiber.StatusBadRequest, "missing or invalid payment_id in metadata")
	}
	ev.PaymentGatewayEventPaymentID = &paymentID

	var ref *string
	if gp := env.GatewayPaymentID(); gp != "" {
		ref = &gp
	}

	res, err := h.Engine.Complete(c.UserContext(), paymentID, service.CompletionInput{
		Method:    model.PaymentMethodGateway,
		Reference: ref,
	})
	if err != nil {
		msg := err.Error()
		if fe, ok := err.(*fiber.Error); ok {
			msg = fe.Message
		}
		h.finishEvent(c, ev, model.GatewayEventStatusFailed, msg)
		return helper.FromFiberError(c, err)
	}

	h.finishEvent(c, ev, model.GatewayEventStatusProcessed, "")
	return helper.JsonOK(c, "webhook processed", fiber.Map{
		"payment_id":        res.PaymentID,
		"already_processed": res.AlreadyProcessed,
	})
}

func (h *WebhookController) finishEvent(c *fiber.Ctx, ev *model.PaymentGatewayEvent, status, errMsg string) {
	if ev.PaymentGatewayEventID == uuid.Nil {
		return
	}
	if err := h.Store.UpdateGatewayEventStatus(c.UserContext(), ev.PaymentGatewayEventID, status, errMsg); err != nil {
		log.Printf("[WEBHOOK] ⚠️ failed to update gateway event status: %v", err)
	}
}
