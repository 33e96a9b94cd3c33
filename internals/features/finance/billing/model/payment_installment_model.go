package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentInstallmentStatusPending = "pending"
	PaymentInstallmentStatusPaid    = "paid"
)

// PaymentInstallment: satu dari N cicilan terjadwal untuk skema installment.
// Settlement selalu FIFO by installment_number (invariant, lihat service).
type PaymentInstallment struct {
	PaymentInstallmentID uuid.UUID `gorm:"column:payment_installment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_installment_id"`

	PaymentInstallmentEnrollmentID uuid.UUID `gorm:"column:payment_installment_enrollment_id;type:uuid;not null;index" json:"payment_installment_enrollment_id"`

	// 1..N, unik per enrollment
	PaymentInstallmentNumber int             `gorm:"column:payment_installment_number;not null" json:"payment_installment_number"`
	PaymentInstallmentAmount decimal.Decimal `gorm:"column:payment_installment_amount;type:numeric(12,2);not null" json:"payment_installment_amount"`

	PaymentInstallmentDueDate time.Time `gorm:"column:payment_installment_due_date;not null" json:"payment_installment_due_date"`
	PaymentInstallmentStatus  string    `gorm:"column:payment_installment_status;type:payment_installment_status;not null;default:'pending'" json:"payment_installment_status"`

	PaymentInstallmentPaidAt    *time.Time `gorm:"column:payment_installment_paid_at" json:"payment_installment_paid_at,omitempty"`
	PaymentInstallmentPaymentID *uuid.UUID `gorm:"column:payment_installment_payment_id;type:uuid" json:"payment_installment_payment_id,omitempty"`

	// diisi oleh reminder cron
	PaymentInstallmentRemindedAt *time.Time `gorm:"column:payment_installment_reminded_at" json:"payment_installment_reminded_at,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_installment_created_at;autoCreateTime" json:"payment_installment_created_at"`
}

func (PaymentInstallment) TableName() string { return "payment_installments" }
