package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type GenerateBillingRequest struct {
	EnrollmentID uuid.UUID  `json:"enrollment_id" validate:"required"`
	CreatedBy    *uuid.UUID `json:"created_by"`
}

func (r *GenerateBillingRequest) Validate() error { return validate.Struct(r) }
