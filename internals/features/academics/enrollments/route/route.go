// file: internals/features/academics/enrollments/route/route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "schoolpay_backend/internals/features/academics/enrollments/controller"
)

func AcademicsRoutes(r fiber.Router, db *gorm.DB) {
	h := controller.NewEnrollmentController(db)

	enrollments := r.Group("/enrollments")
	enrollments.Post("/", h.Create)
	enrollments.Get("/", h.List)
	enrollments.Get("/:id", h.GetByID)

	schemes := r.Group("/tuition-schemes")
	schemes.Post("/", h.CreateScheme)
	schemes.Get("/", h.ListSchemes)

	r.Get("/subjects", h.ListSubjects)
}
