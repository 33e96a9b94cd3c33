package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL:
   payment_status, payment_type, payment_method
*/

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

const (
	PaymentTypeFullPayment = "full_payment"
	PaymentTypeDownpayment = "downpayment"
	PaymentTypeInstallment = "installment"
	PaymentTypeBalance     = "balance"
	PaymentTypeMonthly     = "monthly"
	PaymentTypeEnrollment  = "enrollment"
)

const (
	PaymentMethodGateway      = "gateway"
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
)

/* ===================== Model ===================== */

type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	PaymentAccountID    uuid.UUID  `gorm:"column:payment_account_id;type:uuid;not null;index" json:"payment_account_id"`
	PaymentEnrollmentID *uuid.UUID `gorm:"column:payment_enrollment_id;type:uuid;index" json:"payment_enrollment_id,omitempty"` // NULL untuk pure balance payment

	PaymentAmount   decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentCurrency string          `gorm:"column:payment_currency;type:varchar(8);not null;default:PHP" json:"payment_currency"`

	PaymentStatus string `gorm:"column:payment_status;type:payment_status;not null;default:'pending'" json:"payment_status"`
	PaymentType   string `gorm:"column:payment_type;type:payment_type;not null" json:"payment_type"`
	PaymentMethod string `gorm:"column:payment_method;type:payment_method;not null;default:'gateway'" json:"payment_method"`

	PaymentDescription     *string `gorm:"column:payment_description" json:"payment_description,omitempty"`
	PaymentReferenceNumber *string `gorm:"column:payment_reference_number" json:"payment_reference_number,omitempty"`
	PaymentIdempotencyKey  *string `gorm:"column:payment_idempotency_key;uniqueIndex" json:"payment_idempotency_key,omitempty"`

	PaymentDate      *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaymentCreatedBy *uuid.UUID `gorm:"column:payment_created_by;type:uuid" json:"payment_created_by,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

/* ===================== Helpers ===================== */

func (p *Payment) IsTerminal() bool {
	switch p.PaymentStatus {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// IsFeeSettlement: completion-nya menandai fee (bukan installment/balance).
func (p *Payment) IsFeeSettlement() bool {
	switch p.PaymentType {
	case PaymentTypeFullPayment, PaymentTypeDownpayment, PaymentTypeEnrollment:
		return true
	default:
		return false
	}
}

// IsInstallmentSettlement: completion-nya menandai satu installment FIFO.
func (p *Payment) IsInstallmentSettlement() bool {
	return p.PaymentType == PaymentTypeInstallment || p.PaymentType == PaymentTypeMonthly
}
