// file: internals/features/finance/billing/service/generator.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	model "schoolpay_backend/internals/features/finance/billing/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

var oneCent = decimal.NewFromFloat(0.01)

/* =========================================================
   Billing Generator
   Materialisasi billing plan untuk satu enrollment, tepat sekali.
========================================================= */

type Generator struct {
	Store BillingStore
	Now   func() time.Time
}

func NewGenerator(store BillingStore) *Generator {
	return &Generator{Store: store, Now: time.Now}
}

// BillingPlan adalah hasil generate: account + fee/installment yang dibuat.
type BillingPlan struct {
	EnrollmentID uuid.UUID                  `json:"enrollment_id"`
	SchemeType   string                     `json:"scheme_type"`
	TotalAmount  decimal.Decimal            `json:"total_amount"`
	Account      *model.Account             `json:"account"`
	Fees         []model.EnrollmentFee      `json:"fees"`
	Installments []model.PaymentInstallment `json:"installments"`
}

// Generate menghitung total (amount - discount), inisialisasi account secara
// atomic, lalu membuat fee/installment — semuanya dalam SATU transaksi store.
// Operasi ini sengaja TIDAK idempotent: pengulangan untuk enrollment yang sama
// gagal dengan 409.
func (g *Generator) Generate(ctx context.Context, enrollmentID uuid.UUID, actorID *uuid.UUID) (*BillingPlan, error) {
	enrollment, err := g.Store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	scheme, err := g.Store.GetScheme(ctx, enrollment.EnrollmentSchemeID)
	if err != nil {
		return nil, err
	}

	exists, err := g.Store.BillingExists(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fiber.NewError(fiber.StatusConflict, "billing already generated for this enrollment")
	}

	totalAmount := scheme.NetAmount()
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid billing amount: scheme amount minus discount must be positive")
	}

	now := g.Now()
	plan := &BillingPlan{
		EnrollmentID: enrollmentID,
		SchemeType:   scheme.TuitionSchemeType,
		TotalAmount:  totalAmount,
	}

	err = g.Store.WithTx(ctx, func(tx BillingStore) error {
		account, err := tx.UpsertAccount(ctx, enrollment.EnrollmentStudentID, totalAmount)
		if err != nil {
			return err
		}
		plan.Account = account

		if scheme.IsInstallment() {
			return g.generateInstallmentPlan(ctx, tx, enrollment, scheme, totalAmount, now, plan)
		}
		return g.generateFullPaymentPlan(ctx, tx, enrollment, totalAmount, plan)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[BILLING] generated plan enrollment=%s scheme=%s total=%s fees=%d installments=%d",
		enrollmentID, scheme.TuitionSchemeType, totalAmount.StringFixed(2), len(plan.Fees), len(plan.Installments))
	return plan, nil
}

func (g *Generator) generateFullPaymentPlan(
	ctx context.Context,
	tx BillingStore,
	enrollment *acadModel.Enrollment,
	totalAmount decimal.Decimal,
	plan *BillingPlan,
) error {
	fee := model.EnrollmentFee{
		EnrollmentFeeEnrollmentID: enrollment.EnrollmentID,
		EnrollmentFeeType:         model.EnrollmentFeeTypeFullPayment,
		EnrollmentFeeDescription:  "Full Payment",
		EnrollmentFeeAmount:       totalAmount,
	}
	if err := tx.CreateFee(ctx, &fee); err != nil {
		return err
	}
	plan.Fees = append(plan.Fees, fee)
	return nil
}

func (g *Generator) generateInstallmentPlan(
	ctx context.Context,
	tx BillingStore,
	enrollment *acadModel.Enrollment,
	scheme *acadModel.TuitionScheme,
	totalAmount decimal.Decimal,
	now time.Time,
	plan *BillingPlan,
) error {
	if scheme.TuitionSchemeMonths <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "installment scheme has no months configured")
	}

	// soft validation: downpayment + monthly*months ≈ total (toleransi 1 sen).
	// Mismatch hanya warning, bukan error.
	expected := scheme.TuitionSchemeDownpayment.
		Add(scheme.TuitionSchemeMonthly.Mul(decimal.NewFromInt(int64(scheme.TuitionSchemeMonths)))).
		Round(2)
	if expected.Sub(totalAmount).Abs().GreaterThan(oneCent) {
		log.Printf("[BILLING] ⚠️ scheme %s breakdown mismatch: downpayment+monthly*months=%s vs total=%s",
			scheme.TuitionSchemeID, expected.StringFixed(2), totalAmount.StringFixed(2))
	}

	downpayment := model.EnrollmentFee{
		EnrollmentFeeEnrollmentID: enrollment.EnrollmentID,
		EnrollmentFeeType:         model.EnrollmentFeeTypeDownpayment,
		EnrollmentFeeDescription:  "Downpayment",
		EnrollmentFeeAmount:       scheme.TuitionSchemeDownpayment.Round(2),
	}
	if err := tx.CreateFee(ctx, &downpayment); err != nil {
		return err
	}
	plan.Fees = append(plan.Fees, downpayment)

	rows := make([]model.PaymentInstallment, 0, scheme.TuitionSchemeMonths)
	for i := 1; i <= scheme.TuitionSchemeMonths; i++ {
		rows = append(rows, model.PaymentInstallment{
			PaymentInstallmentEnrollmentID: enrollment.EnrollmentID,
			PaymentInstallmentNumber:       i,
			PaymentInstallmentAmount:       scheme.TuitionSchemeMonthly.Round(2),
			// jatuh tempo per bulan kalender, mulai satu bulan dari sekarang
			PaymentInstallmentDueDate: now.AddDate(0, i, 0),
			PaymentInstallmentStatus:  model.PaymentInstallmentStatusPending,
		})
	}
	if err := tx.CreateInstallments(ctx, rows); err != nil {
		return err
	}
	plan.Installments = rows
	return nil
}

/* =========================================================
   Statement
========================================================= */

// Statement: tampilan billing satu enrollment (account + fees + installments
// + riwayat payment).
type Statement struct {
	Enrollment   *acadModel.Enrollment      `json:"enrollment"`
	Account      *model.Account             `json:"account,omitempty"`
	Fees         []model.EnrollmentFee      `json:"fees"`
	Installments []model.PaymentInstallment `json:"installments"`
	Payments     []paymentModel.Payment     `json:"payments"`
}

func (g *Generator) GetStatement(ctx context.Context, enrollmentID uuid.UUID) (*Statement, error) {
	enrollment, err := g.Store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	st := &Statement{Enrollment: enrollment}

	if account, err := g.Store.GetAccountByStudent(ctx, enrollment.EnrollmentStudentID); err == nil {
		st.Account = account
	}

	if st.Fees, err = g.Store.ListFees(ctx, enrollmentID); err != nil {
		return nil, err
	}
	if st.Installments, err = g.Store.ListInstallments(ctx, enrollmentID); err != nil {
		return nil, err
	}
	if st.Payments, err = g.Store.ListPayments(ctx, enrollmentID); err != nil {
		return nil, err
	}
	return st, nil
}
