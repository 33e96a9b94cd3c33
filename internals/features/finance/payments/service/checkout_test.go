package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

type stubGateway struct {
	session *CheckoutSession
	err     error
	calls   int
}

func (g *stubGateway) Enabled() bool { return true }
func (g *stubGateway) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.session, nil
}

func newManager(store LedgerStore, gw PaymentGateway) *CheckoutManager {
	m := NewCheckoutManager(store, gw, "http://localhost:3000")
	m.Now = func() time.Time { return time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) }
	return m
}

// full_payment scheme: amount = total semua fee unpaid
func seedFullPaymentLedger() *ledgerFixture {
	f := seedInstallmentLedger()
	f.scheme.TuitionSchemeType = acadModel.TuitionSchemeTypeFullPayment
	for id := range f.store.installments {
		delete(f.store.installments, id)
	}
	for id := range f.store.fees {
		delete(f.store.fees, id)
	}
	fee := &billModel.EnrollmentFee{
		EnrollmentFeeID:           uuid.New(),
		EnrollmentFeeEnrollmentID: f.enrollment.EnrollmentID,
		EnrollmentFeeType:         billModel.EnrollmentFeeTypeFullPayment,
		EnrollmentFeeDescription:  "Full Payment",
		EnrollmentFeeAmount:       decimal.NewFromInt(9000),
	}
	f.store.fees[fee.EnrollmentFeeID] = fee
	return f
}

func TestCheckoutFullPaymentResolvesUnpaidFees(t *testing.T) {
	f := seedFullPaymentLedger()
	m := newManager(f.store, nil) // gateway off → mock session

	res, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentTypeFullPayment, res.Payment.PaymentType)
	assert.True(t, res.Payment.PaymentAmount.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, model.PaymentStatusPending, res.Payment.PaymentStatus)
	assert.Contains(t, res.Transaction.PaymentTransactionCheckoutID, "mock_cs_")
	assert.Contains(t, res.CheckoutURL, "/mock-checkout/")
	assert.Equal(t, m.Now().Add(24*time.Hour), res.Transaction.PaymentTransactionExpiresAt)
}

func TestCheckoutDownpaymentBeforeInstallments(t *testing.T) {
	f := seedInstallmentLedger()
	m := newManager(f.store, nil)

	res, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentTypeDownpayment, res.Payment.PaymentType)
	assert.True(t, res.Payment.PaymentAmount.Equal(decimal.NewFromInt(1000)))
}

func TestCheckoutPicksEarliestInstallmentAfterDownpayment(t *testing.T) {
	f := seedInstallmentLedger()
	now := time.Now()
	for _, fee := range f.store.fees {
		fee.EnrollmentFeeIsPaid = true
		fee.EnrollmentFeePaidAt = &now
	}
	m := newManager(f.store, nil)

	res, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentTypeInstallment, res.Payment.PaymentType)
	assert.True(t, res.Payment.PaymentAmount.Equal(decimal.NewFromInt(2000)))
	require.NotNil(t, res.Payment.PaymentDescription)
	assert.Equal(t, "Tuition Installment #1", *res.Payment.PaymentDescription)
}

func TestCheckoutRejectsWhenNothingDue(t *testing.T) {
	f := seedFullPaymentLedger()
	now := time.Now()
	for _, fee := range f.store.fees {
		fee.EnrollmentFeeIsPaid = true
		fee.EnrollmentFeePaidAt = &now
	}
	m := newManager(f.store, nil)

	_, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestCheckoutWithoutAccountIs404(t *testing.T) {
	f := seedInstallmentLedger()
	for id := range f.store.accounts {
		delete(f.store.accounts, id)
	}
	m := newManager(f.store, nil)

	_, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestCheckoutGatewayFailureLeavesPaymentPending(t *testing.T) {
	f := seedInstallmentLedger()
	gw := &stubGateway{err: errors.New("paymongo: status 500")}
	m := newManager(f.store, gw)

	_, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadGateway, fe.Code)

	// payment sudah terlanjur dibuat dan tetap pending (bisa di-cancel/retry)
	require.Len(t, f.store.payments, 1)
	for _, p := range f.store.payments {
		assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	}
	assert.Empty(t, f.store.transactions)
}

func TestCheckoutRealGatewaySession(t *testing.T) {
	f := seedInstallmentLedger()
	gw := &stubGateway{session: &CheckoutSession{
		CheckoutID:  "cs_live_123",
		CheckoutURL: "https://checkout.paymongo.com/cs_live_123",
	}}
	m := newManager(f.store, gw)

	res, err := m.CreateCheckout(context.Background(), f.enrollment.EnrollmentID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, "cs_live_123", res.Transaction.PaymentTransactionCheckoutID)
	assert.Equal(t, "https://checkout.paymongo.com/cs_live_123", res.CheckoutURL)
}

func TestManualPaymentAmountMustMatchDue(t *testing.T) {
	f := seedInstallmentLedger()
	m := newManager(f.store, nil)

	_, err := m.CreateManualPayment(context.Background(), f.enrollment.EnrollmentID,
		decimal.NewFromInt(999), model.PaymentMethodCash, nil, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	p, err := m.CreateManualPayment(context.Background(), f.enrollment.EnrollmentID,
		decimal.NewFromInt(1000), model.PaymentMethodCash, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentTypeDownpayment, p.PaymentType)
	assert.Equal(t, model.PaymentMethodCash, p.PaymentMethod)
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
}
