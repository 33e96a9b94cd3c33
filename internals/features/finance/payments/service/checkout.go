// file: internals/features/finance/payments/service/checkout.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

const checkoutSessionTTL = 24 * time.Hour

// CheckoutManager: resolve "apa yang harus dibayar berikutnya" untuk satu
// enrollment, buat Payment pending + checkout session di gateway (atau mock
// bila gateway dimatikan).
type CheckoutManager struct {
	Store   LedgerStore
	Gateway PaymentGateway
	BaseURL string
	Now     func() time.Time
}

func NewCheckoutManager(store LedgerStore, gw PaymentGateway, baseURL string) *CheckoutManager {
	return &CheckoutManager{Store: store, Gateway: gw, BaseURL: baseURL, Now: time.Now}
}

type CheckoutResult struct {
	Payment     *model.Payment            `json:"payment"`
	Transaction *model.PaymentTransaction `json:"transaction"`
	CheckoutURL string                    `json:"checkout_url"`
}

// CreateCheckout: urutan resolusi amount —
// full_payment scheme  : total semua fee unpaid (400 bila tidak ada)
// installment scheme   : downpayment unpaid dulu, lalu installment pending
//                        paling awal (400 bila semuanya lunas).
func (m *CheckoutManager) CreateCheckout(ctx context.Context, enrollmentID uuid.UUID, createdBy *uuid.UUID) (*CheckoutResult, error) {
	now := m.Now()

	enr, err := m.Store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	scheme, err := m.Store.GetScheme(ctx, enr.EnrollmentSchemeID)
	if err != nil {
		return nil, err
	}
	// 404 bila billing belum pernah di-generate
	acct, err := m.Store.GetAccountByStudent(ctx, enr.EnrollmentStudentID)
	if err != nil {
		return nil, err
	}

	amount, paymentType, description, err := m.resolveDue(ctx, enrollmentID, scheme.IsInstallment())
	if err != nil {
		return nil, err
	}
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "resolved payment amount must be positive")
	}

	idemKey := fmt.Sprintf("%s-%s-%d", enrollmentID, paymentType, now.Unix())
	payment := &model.Payment{
		PaymentAccountID:      acct.AccountID,
		PaymentEnrollmentID:   &enrollmentID,
		PaymentAmount:         amount,
		PaymentCurrency:       "PHP",
		PaymentStatus:         model.PaymentStatusPending,
		PaymentType:           paymentType,
		PaymentMethod:         model.PaymentMethodGateway,
		PaymentDescription:    &description,
		PaymentIdempotencyKey: &idemKey,
		PaymentCreatedBy:      createdBy,
	}
	if err := m.Store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	category := "tuition"
	if payment.IsFeeSettlement() {
		category = "enrollment"
	}
	metadata := map[string]string{
		"payment_id":       payment.PaymentID.String(),
		"enrollment_id":    enrollmentID.String(),
		"student_id":       enr.EnrollmentStudentID.String(),
		"scheme_id":        scheme.TuitionSchemeID.String(),
		"payment_type":     paymentType,
		"payment_category": category,
	}

	successURL := fmt.Sprintf("%s/api/v1/billing/payment/success?payment_id=%s", m.BaseURL, payment.PaymentID)
	cancelURL := fmt.Sprintf("%s/api/v1/billing/payment/cancel?payment_id=%s", m.BaseURL, payment.PaymentID)

	var session *CheckoutSession
	if m.Gateway != nil && m.Gateway.Enabled() {
		session, err = m.Gateway.CreateCheckoutSession(ctx, CheckoutSessionInput{
			Description: description,
			Currency:    payment.PaymentCurrency,
			LineItems: []CheckoutLineItem{
				{Name: description, Amount: amount, Quantity: 1},
			},
			SuccessURL: successURL,
			CancelURL:  cancelURL,
			Metadata:   metadata,
		})
		if err != nil {
			// payment tetap pending; bisa di-retry atau di-cancel manual
			log.Printf("[CHECKOUT] ❌ gateway error payment=%s: %v", payment.PaymentID, err)
			return nil, fiber.NewError(fiber.StatusBadGateway, "payment gateway error: "+err.Error())
		}
	} else {
		session = &CheckoutSession{
			CheckoutID:  "mock_cs_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
			CheckoutURL: fmt.Sprintf("%s/mock-checkout/%s", m.BaseURL, payment.PaymentID),
		}
	}

	metaJSON, _ := json.Marshal(metadata)
	trx := &model.PaymentTransaction{
		PaymentTransactionPaymentID:     payment.PaymentID,
		PaymentTransactionCheckoutID:    session.CheckoutID,
		PaymentTransactionCheckoutURL:   session.CheckoutURL,
		PaymentTransactionGatewayStatus: model.PaymentTransactionStatusPending,
		PaymentTransactionExpiresAt:     now.Add(checkoutSessionTTL),
		PaymentTransactionMetadata:      datatypes.JSON(metaJSON),
	}
	if err := m.Store.CreatePaymentTransaction(ctx, trx); err != nil {
		return nil, err
	}

	log.Printf("[CHECKOUT] 🧾 payment=%s type=%s amount=%s checkout=%s",
		payment.PaymentID, paymentType, amount.StringFixed(2), session.CheckoutID)

	return &CheckoutResult{
		Payment:     payment,
		Transaction: trx,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

// CreateManualPayment: jalur kasir (cash/bank transfer). Payment dibuat
// pending dengan type hasil resolusi yang sama seperti checkout; amount harus
// persis sama dengan tagihan yang resolved. Completion-nya tetap lewat engine.
func (m *CheckoutManager) CreateManualPayment(ctx context.Context, enrollmentID uuid.UUID, amount decimal.Decimal, method string, reference *string, createdBy *uuid.UUID) (*model.Payment, error) {
	now := m.Now()

	enr, err := m.Store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	scheme, err := m.Store.GetScheme(ctx, enr.EnrollmentSchemeID)
	if err != nil {
		return nil, err
	}
	acct, err := m.Store.GetAccountByStudent(ctx, enr.EnrollmentStudentID)
	if err != nil {
		return nil, err
	}

	due, paymentType, description, err := m.resolveDue(ctx, enrollmentID, scheme.IsInstallment())
	if err != nil {
		return nil, err
	}
	if !amount.Round(2).Equal(due.Round(2)) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("amount mismatch: next due is %s (%s)", due.StringFixed(2), description))
	}

	idemKey := fmt.Sprintf("%s-%s-%d", enrollmentID, paymentType, now.Unix())
	payment := &model.Payment{
		PaymentAccountID:       acct.AccountID,
		PaymentEnrollmentID:    &enrollmentID,
		PaymentAmount:          due.Round(2),
		PaymentCurrency:        "PHP",
		PaymentStatus:          model.PaymentStatusPending,
		PaymentType:            paymentType,
		PaymentMethod:          method,
		PaymentDescription:     &description,
		PaymentReferenceNumber: reference,
		PaymentIdempotencyKey:  &idemKey,
		PaymentCreatedBy:       createdBy,
	}
	if err := m.Store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (m *CheckoutManager) resolveDue(ctx context.Context, enrollmentID uuid.UUID, installmentScheme bool) (decimal.Decimal, string, string, error) {
	if !installmentScheme {
		fees, err := m.Store.ListUnpaidFees(ctx, enrollmentID)
		if err != nil {
			return decimal.Zero, "", "", err
		}
		if len(fees) == 0 {
			return decimal.Zero, "", "", fiber.NewError(fiber.StatusBadRequest, "no unpaid fees remain for this enrollment")
		}
		total := decimal.Zero
		for _, f := range fees {
			total = total.Add(f.EnrollmentFeeAmount)
		}
		return total, model.PaymentTypeFullPayment, "Tuition Full Payment", nil
	}

	// installment scheme: downpayment dulu
	fees, err := m.Store.ListUnpaidFees(ctx, enrollmentID)
	if err != nil {
		return decimal.Zero, "", "", err
	}
	for _, f := range fees {
		if f.EnrollmentFeeType == billModel.EnrollmentFeeTypeDownpayment {
			return f.EnrollmentFeeAmount, model.PaymentTypeDownpayment, "Tuition Downpayment", nil
		}
	}

	inst, err := m.Store.NextPendingInstallment(ctx, enrollmentID)
	if err != nil {
		return decimal.Zero, "", "", err
	}
	if inst == nil {
		return decimal.Zero, "", "", fiber.NewError(fiber.StatusBadRequest, "no pending installments remain for this enrollment")
	}
	desc := fmt.Sprintf("Tuition Installment #%d", inst.PaymentInstallmentNumber)
	return inst.PaymentInstallmentAmount, model.PaymentTypeInstallment, desc, nil
}
