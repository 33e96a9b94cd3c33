package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountTransaction: audit log append-only. Satu row per mutasi account oleh
// payment completion. Tidak pernah di-update/di-delete.
type AccountTransaction struct {
	AccountTransactionID uuid.UUID `gorm:"column:account_transaction_id;type:uuid;default:gen_random_uuid();primaryKey" json:"account_transaction_id"`

	AccountTransactionAccountID uuid.UUID  `gorm:"column:account_transaction_account_id;type:uuid;not null;index" json:"account_transaction_account_id"`
	AccountTransactionPaymentID *uuid.UUID `gorm:"column:account_transaction_payment_id;type:uuid" json:"account_transaction_payment_id,omitempty"`

	AccountTransactionAmount        decimal.Decimal `gorm:"column:account_transaction_amount;type:numeric(12,2);not null" json:"account_transaction_amount"`
	AccountTransactionBalanceBefore decimal.Decimal `gorm:"column:account_transaction_balance_before;type:numeric(12,2);not null" json:"account_transaction_balance_before"`
	AccountTransactionBalanceAfter  decimal.Decimal `gorm:"column:account_transaction_balance_after;type:numeric(12,2);not null" json:"account_transaction_balance_after"`

	AccountTransactionDescription string     `gorm:"column:account_transaction_description;not null" json:"account_transaction_description"`
	AccountTransactionCreatedBy   *uuid.UUID `gorm:"column:account_transaction_created_by;type:uuid" json:"account_transaction_created_by,omitempty"`

	CreatedAt time.Time `gorm:"column:account_transaction_created_at;autoCreateTime" json:"account_transaction_created_at"`
}

func (AccountTransaction) TableName() string { return "account_transactions" }
