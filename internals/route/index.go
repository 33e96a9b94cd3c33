// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academicsRoute "schoolpay_backend/internals/features/academics/enrollments/route"
	billingRoute "schoolpay_backend/internals/features/finance/billing/route"
	paymentRoute "schoolpay_backend/internals/features/finance/payments/route"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api/v1")

	log.Println("[INFO] Setting up Academics routes...")
	academicsRoute.AcademicsRoutes(api.Group("/academics"), db)

	log.Println("[INFO] Setting up Billing routes...")
	billing := api.Group("/billing")
	billingRoute.BillingRoutes(billing, db)
	paymentRoute.PaymentRoutes(billing, db)
}
