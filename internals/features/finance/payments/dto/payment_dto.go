// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "schoolpay_backend/internals/features/finance/payments/model"
)

var validate = validator.New()

/* ===================== Requests ===================== */

type CreateCheckoutRequest struct {
	EnrollmentID uuid.UUID  `json:"enrollment_id" validate:"required"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
}

func (r *CreateCheckoutRequest) Validate() error { return validate.Struct(r) }

// RecordManualPaymentRequest: pembayaran kasir (cash/bank transfer) yang
// langsung di-complete tanpa lewat gateway.
type RecordManualPaymentRequest struct {
	EnrollmentID    uuid.UUID       `json:"enrollment_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Method          string          `json:"method" validate:"required,oneof=cash bank_transfer"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
}

func (r *RecordManualPaymentRequest) Validate() error { return validate.Struct(r) }

/* ===================== Responses ===================== */

type PaymentResponse struct {
	PaymentID       uuid.UUID       `json:"payment_id"`
	AccountID       uuid.UUID       `json:"account_id"`
	EnrollmentID    *uuid.UUID      `json:"enrollment_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	Type            string          `json:"type"`
	Method          string          `json:"method"`
	Description     *string         `json:"description,omitempty"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func FromPaymentModel(m *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       m.PaymentID,
		AccountID:       m.PaymentAccountID,
		EnrollmentID:    m.PaymentEnrollmentID,
		Amount:          m.PaymentAmount,
		Currency:        m.PaymentCurrency,
		Status:          m.PaymentStatus,
		Type:            m.PaymentType,
		Method:          m.PaymentMethod,
		Description:     m.PaymentDescription,
		ReferenceNumber: m.PaymentReferenceNumber,
		PaymentDate:     m.PaymentDate,
		CreatedAt:       m.CreatedAt,
	}
}

type CheckoutResponse struct {
	Payment     PaymentResponse `json:"payment"`
	CheckoutID  string          `json:"checkout_id"`
	CheckoutURL string          `json:"checkout_url"`
	ExpiresAt   time.Time       `json:"expires_at"`
}
