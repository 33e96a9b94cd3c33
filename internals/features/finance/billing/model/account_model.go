package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account: satu ledger per siswa. account_total_balance = total tagihan
// dikurangi pembayaran balance-type yang completed; tidak boleh negatif.
type Account struct {
	AccountID        uuid.UUID `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey" json:"account_id"`
	AccountStudentID uuid.UUID `gorm:"column:account_student_id;type:uuid;not null;uniqueIndex" json:"account_student_id"`

	AccountTotalBalance decimal.Decimal `gorm:"column:account_total_balance;type:numeric(12,2);not null;default:0" json:"account_total_balance"`
	AccountLastUpdated  time.Time       `gorm:"column:account_last_updated;autoUpdateTime" json:"account_last_updated"`

	CreatedAt time.Time `gorm:"column:account_created_at;autoCreateTime" json:"account_created_at"`
}

func (Account) TableName() string { return "accounts" }
