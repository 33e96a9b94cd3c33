package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TuitionSchemeTypeFullPayment = "full_payment"
	TuitionSchemeTypeInstallment = "installment"
)

// TuitionScheme adalah template rencana pembayaran (reference data, immutable
// setelah dipakai billing).
type TuitionScheme struct {
	TuitionSchemeID uuid.UUID `gorm:"column:tuition_scheme_id;type:uuid;default:gen_random_uuid();primaryKey" json:"tuition_scheme_id"`

	TuitionSchemeName string `gorm:"column:tuition_scheme_name;not null" json:"tuition_scheme_name"`
	TuitionSchemeType string `gorm:"column:tuition_scheme_type;type:tuition_scheme_type;not null" json:"tuition_scheme_type"`

	TuitionSchemeAmount      decimal.Decimal `gorm:"column:tuition_scheme_amount;type:numeric(12,2);not null" json:"tuition_scheme_amount"`
	TuitionSchemeDiscount    decimal.Decimal `gorm:"column:tuition_scheme_discount;type:numeric(12,2);not null;default:0" json:"tuition_scheme_discount"`
	TuitionSchemeDownpayment decimal.Decimal `gorm:"column:tuition_scheme_downpayment;type:numeric(12,2);not null;default:0" json:"tuition_scheme_downpayment"`
	TuitionSchemeMonthly     decimal.Decimal `gorm:"column:tuition_scheme_monthly;type:numeric(12,2);not null;default:0" json:"tuition_scheme_monthly"`
	TuitionSchemeMonths      int             `gorm:"column:tuition_scheme_months;not null;default:0" json:"tuition_scheme_months"`

	CreatedAt time.Time      `gorm:"column:tuition_scheme_created_at;autoCreateTime" json:"tuition_scheme_created_at"`
	UpdatedAt time.Time      `gorm:"column:tuition_scheme_updated_at;autoUpdateTime" json:"tuition_scheme_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:tuition_scheme_deleted_at;index" json:"tuition_scheme_deleted_at,omitempty"`
}

func (TuitionScheme) TableName() string { return "tuition_schemes" }

func (s *TuitionScheme) IsInstallment() bool {
	return s.TuitionSchemeType == TuitionSchemeTypeInstallment
}

// NetAmount = amount - discount, dibulatkan 2 desimal.
func (s *TuitionScheme) NetAmount() decimal.Decimal {
	return s.TuitionSchemeAmount.Sub(s.TuitionSchemeDiscount).Round(2)
}
