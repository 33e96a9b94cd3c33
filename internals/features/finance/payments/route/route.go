// file: internals/features/finance/payments/route/route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "schoolpay_backend/internals/features/finance/payments/controller"
)

func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewPaymentController(db)
	wh := controller.NewWebhookController(db)

	r.Post("/create-checkout", h.CreateCheckout)

	// redirect dari gateway (browser-facing, selalu redirect ke frontend)
	r.Get("/payment/success", h.PaymentSuccess)
	r.Get("/payment/cancel", h.PaymentCancel)

	// dev only (ditolak saat gateway aktif)
	r.Post("/payment/mock-complete", h.MockComplete)

	payments := r.Group("/payments")
	payments.Post("/manual", h.RecordManualPayment)
	payments.Post("/:id/cancel", h.CancelPayment)
	payments.Get("/:id", h.GetPayment)

	// server-to-server dari PayMongo; raw body diverifikasi HMAC
	r.Post("/webhook/paymongo", wh.HandlePayMongo)
}
