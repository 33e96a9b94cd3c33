package dto

import (
	"github.com/shopspring/decimal"

	model "schoolpay_backend/internals/features/academics/enrollments/model"
)

type CreateTuitionSchemeRequest struct {
	TuitionSchemeName        string          `json:"tuition_scheme_name" validate:"required"`
	TuitionSchemeType        string          `json:"tuition_scheme_type" validate:"required,oneof=full_payment installment"`
	TuitionSchemeAmount      decimal.Decimal `json:"tuition_scheme_amount" validate:"required"`
	TuitionSchemeDiscount    decimal.Decimal `json:"tuition_scheme_discount"`
	TuitionSchemeDownpayment decimal.Decimal `json:"tuition_scheme_downpayment"`
	TuitionSchemeMonthly     decimal.Decimal `json:"tuition_scheme_monthly"`
	TuitionSchemeMonths      int             `json:"tuition_scheme_months" validate:"omitempty,min=0,max=60"`
}

func (r *CreateTuitionSchemeRequest) Validate() error { return validate.Struct(r) }

func (r *CreateTuitionSchemeRequest) ToModel() *model.TuitionScheme {
	return &model.TuitionScheme{
		TuitionSchemeName:        r.TuitionSchemeName,
		TuitionSchemeType:        r.TuitionSchemeType,
		TuitionSchemeAmount:      r.TuitionSchemeAmount.Round(2),
		TuitionSchemeDiscount:    r.TuitionSchemeDiscount.Round(2),
		TuitionSchemeDownpayment: r.TuitionSchemeDownpayment.Round(2),
		TuitionSchemeMonthly:     r.TuitionSchemeMonthly.Round(2),
		TuitionSchemeMonths:      r.TuitionSchemeMonths,
	}
}
