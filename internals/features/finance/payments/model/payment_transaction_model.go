package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PaymentTransactionStatusPending = "pending"
	PaymentTransactionStatusPaid    = "paid"
	PaymentTransactionStatusExpired = "expired"
)

// PaymentTransaction: mirror sisi gateway dari satu Payment (1:1).
// Ada supaya callback gateway bisa dicocokkan tanpa re-derive checkout detail.
type PaymentTransaction struct {
	PaymentTransactionID uuid.UUID `gorm:"column:payment_transaction_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_transaction_id"`

	PaymentTransactionPaymentID uuid.UUID `gorm:"column:payment_transaction_payment_id;type:uuid;not null;uniqueIndex" json:"payment_transaction_payment_id"`

	PaymentTransactionCheckoutID  string `gorm:"column:payment_transaction_checkout_id;not null" json:"payment_transaction_checkout_id"`
	PaymentTransactionCheckoutURL string `gorm:"column:payment_transaction_checkout_url;not null" json:"payment_transaction_checkout_url"`

	PaymentTransactionGatewayStatus string     `gorm:"column:payment_transaction_gateway_status;not null;default:'pending'" json:"payment_transaction_gateway_status"`
	PaymentTransactionPaidAt        *time.Time `gorm:"column:payment_transaction_paid_at" json:"payment_transaction_paid_at,omitempty"`
	PaymentTransactionExpiresAt     time.Time  `gorm:"column:payment_transaction_expires_at;not null" json:"payment_transaction_expires_at"`

	PaymentTransactionMetadata datatypes.JSON `gorm:"column:payment_transaction_metadata;type:jsonb" json:"payment_transaction_metadata,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_transaction_created_at;autoCreateTime" json:"payment_transaction_created_at"`
	UpdatedAt time.Time `gorm:"column:payment_transaction_updated_at;autoUpdateTime" json:"payment_transaction_updated_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transactions" }
