package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EnrollmentFeeTypeFullPayment = "full_payment"
	EnrollmentFeeTypeDownpayment = "downpayment"
)

// EnrollmentFee: tagihan one-off per enrollment. Dibuat sekali saat
// generate billing; is_paid flip ke true tepat sekali oleh completion engine.
type EnrollmentFee struct {
	EnrollmentFeeID uuid.UUID `gorm:"column:enrollment_fee_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_fee_id"`

	EnrollmentFeeEnrollmentID uuid.UUID `gorm:"column:enrollment_fee_enrollment_id;type:uuid;not null;index" json:"enrollment_fee_enrollment_id"`

	EnrollmentFeeType        string          `gorm:"column:enrollment_fee_type;type:enrollment_fee_type;not null" json:"enrollment_fee_type"`
	EnrollmentFeeDescription string          `gorm:"column:enrollment_fee_description;not null" json:"enrollment_fee_description"`
	EnrollmentFeeAmount      decimal.Decimal `gorm:"column:enrollment_fee_amount;type:numeric(12,2);not null" json:"enrollment_fee_amount"`

	EnrollmentFeeIsPaid bool       `gorm:"column:enrollment_fee_is_paid;not null;default:false" json:"enrollment_fee_is_paid"`
	EnrollmentFeePaidAt *time.Time `gorm:"column:enrollment_fee_paid_at" json:"enrollment_fee_paid_at,omitempty"`

	CreatedAt time.Time `gorm:"column:enrollment_fee_created_at;autoCreateTime" json:"enrollment_fee_created_at"`
}

func (EnrollmentFee) TableName() string { return "enrollment_fees" }
