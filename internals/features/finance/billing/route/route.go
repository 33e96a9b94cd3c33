// file: internals/features/finance/billing/route/route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "schoolpay_backend/internals/features/finance/billing/controller"
)

func BillingRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewBillingController(db)

	r.Post("/generate-billing", h.GenerateBilling)
	r.Get("/billing/:enrollment_id", h.GetStatement)
}
