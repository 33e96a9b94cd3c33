package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	model "schoolpay_backend/internals/features/finance/billing/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

/* ===================== in-memory store ===================== */

type memBillingStore struct {
	enrollments  map[uuid.UUID]*acadModel.Enrollment
	schemes      map[uuid.UUID]*acadModel.TuitionScheme
	accounts     map[uuid.UUID]*model.Account // by student id
	fees         []model.EnrollmentFee
	installments []model.PaymentInstallment
}

func newMemBillingStore() *memBillingStore {
	return &memBillingStore{
		enrollments: map[uuid.UUID]*acadModel.Enrollment{},
		schemes:     map[uuid.UUID]*acadModel.TuitionScheme{},
		accounts:    map[uuid.UUID]*model.Account{},
	}
}

func (s *memBillingStore) WithTx(ctx context.Context, fn func(BillingStore) error) error {
	return fn(s)
}

func (s *memBillingStore) GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error) {
	e, ok := s.enrollments[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "enrollment not found")
	}
	return e, nil
}

func (s *memBillingStore) GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error) {
	sc, ok := s.schemes[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "tuition scheme not found")
	}
	return sc, nil
}

func (s *memBillingStore) BillingExists(ctx context.Context, enrollmentID uuid.UUID) (bool, error) {
	for _, f := range s.fees {
		if f.EnrollmentFeeEnrollmentID == enrollmentID {
			return true, nil
		}
	}
	for _, i := range s.installments {
		if i.PaymentInstallmentEnrollmentID == enrollmentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memBillingStore) UpsertAccount(ctx context.Context, studentID uuid.UUID, balance decimal.Decimal) (*model.Account, error) {
	if a, ok := s.accounts[studentID]; ok {
		a.AccountTotalBalance = balance
		return a, nil
	}
	a := &model.Account{
		AccountID:           uuid.New(),
		AccountStudentID:    studentID,
		AccountTotalBalance: balance,
	}
	s.accounts[studentID] = a
	return a, nil
}

func (s *memBillingStore) CreateFee(ctx context.Context, fee *model.EnrollmentFee) error {
	fee.EnrollmentFeeID = uuid.New()
	s.fees = append(s.fees, *fee)
	return nil
}

func (s *memBillingStore) CreateInstallments(ctx context.Context, rows []model.PaymentInstallment) error {
	for i := range rows {
		rows[i].PaymentInstallmentID = uuid.New()
	}
	s.installments = append(s.installments, rows...)
	return nil
}

func (s *memBillingStore) GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*model.Account, error) {
	a, ok := s.accounts[studentID]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "account not found — generate billing first")
	}
	return a, nil
}

func (s *memBillingStore) ListFees(ctx context.Context, enrollmentID uuid.UUID) ([]model.EnrollmentFee, error) {
	var out []model.EnrollmentFee
	for _, f := range s.fees {
		if f.EnrollmentFeeEnrollmentID == enrollmentID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memBillingStore) ListInstallments(ctx context.Context, enrollmentID uuid.UUID) ([]model.PaymentInstallment, error) {
	var out []model.PaymentInstallment
	for _, i := range s.installments {
		if i.PaymentInstallmentEnrollmentID == enrollmentID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *memBillingStore) ListPayments(ctx context.Context, enrollmentID uuid.UUID) ([]paymentModel.Payment, error) {
	return nil, nil
}

/* ===================== fixtures ===================== */

func seedEnrollment(s *memBillingStore, scheme *acadModel.TuitionScheme) *acadModel.Enrollment {
	scheme.TuitionSchemeID = uuid.New()
	s.schemes[scheme.TuitionSchemeID] = scheme
	e := &acadModel.Enrollment{
		EnrollmentID:        uuid.New(),
		EnrollmentStudentID: uuid.New(),
		EnrollmentSchemeID:  scheme.TuitionSchemeID,
		EnrollmentStatus:    acadModel.EnrollmentStatusPending,
	}
	s.enrollments[e.EnrollmentID] = e
	return e
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
}

/* ===================== tests ===================== */

func TestGenerateFullPaymentPlan(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:     acadModel.TuitionSchemeTypeFullPayment,
		TuitionSchemeAmount:   decimal.NewFromInt(10000),
		TuitionSchemeDiscount: decimal.NewFromInt(500),
	})

	g := &Generator{Store: store, Now: fixedNow}
	plan, err := g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.NoError(t, err)

	assert.True(t, plan.TotalAmount.Equal(decimal.NewFromInt(9500)))
	require.Len(t, plan.Fees, 1)
	assert.Equal(t, model.EnrollmentFeeTypeFullPayment, plan.Fees[0].EnrollmentFeeType)
	assert.True(t, plan.Fees[0].EnrollmentFeeAmount.Equal(decimal.NewFromInt(9500)))
	assert.Empty(t, plan.Installments)

	require.NotNil(t, plan.Account)
	assert.True(t, plan.Account.AccountTotalBalance.Equal(decimal.NewFromInt(9500)))
}

func TestGenerateInstallmentPlan(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:        acadModel.TuitionSchemeTypeInstallment,
		TuitionSchemeAmount:      decimal.NewFromInt(9000),
		TuitionSchemeDownpayment: decimal.NewFromInt(1000),
		TuitionSchemeMonthly:     decimal.NewFromInt(2000),
		TuitionSchemeMonths:      4,
	})

	g := &Generator{Store: store, Now: fixedNow}
	plan, err := g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.NoError(t, err)

	require.Len(t, plan.Fees, 1)
	assert.Equal(t, model.EnrollmentFeeTypeDownpayment, plan.Fees[0].EnrollmentFeeType)
	assert.True(t, plan.Fees[0].EnrollmentFeeAmount.Equal(decimal.NewFromInt(1000)))

	require.Len(t, plan.Installments, 4)
	for i, inst := range plan.Installments {
		assert.Equal(t, i+1, inst.PaymentInstallmentNumber)
		assert.True(t, inst.PaymentInstallmentAmount.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, model.PaymentInstallmentStatusPending, inst.PaymentInstallmentStatus)
		// jatuh tempo bulanan mulai satu bulan setelah generate
		assert.Equal(t, fixedNow().AddDate(0, i+1, 0), inst.PaymentInstallmentDueDate)
	}
}

func TestGenerateTwiceConflicts(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:   acadModel.TuitionSchemeTypeFullPayment,
		TuitionSchemeAmount: decimal.NewFromInt(5000),
	})

	g := &Generator{Store: store, Now: fixedNow}
	_, err := g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestGenerateRejectsNonPositiveAmount(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:     acadModel.TuitionSchemeTypeFullPayment,
		TuitionSchemeAmount:   decimal.NewFromInt(1000),
		TuitionSchemeDiscount: decimal.NewFromInt(1000),
	})

	g := &Generator{Store: store, Now: fixedNow}
	_, err := g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Empty(t, store.fees)
}

// breakdown mismatch (downpayment + monthly*months ≠ total) hanya warning
func TestGenerateBreakdownMismatchStillSucceeds(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:        acadModel.TuitionSchemeTypeInstallment,
		TuitionSchemeAmount:      decimal.NewFromInt(9000),
		TuitionSchemeDownpayment: decimal.NewFromInt(1000),
		TuitionSchemeMonthly:     decimal.NewFromInt(1500), // 1000+1500*4 = 7000 ≠ 9000
		TuitionSchemeMonths:      4,
	})

	g := &Generator{Store: store, Now: fixedNow}
	plan, err := g.Generate(context.Background(), enr.EnrollmentID, nil)
	require.NoError(t, err)
	assert.Len(t, plan.Installments, 4)
}

func TestGetStatementWithoutAccount(t *testing.T) {
	store := newMemBillingStore()
	enr := seedEnrollment(store, &acadModel.TuitionScheme{
		TuitionSchemeType:   acadModel.TuitionSchemeTypeFullPayment,
		TuitionSchemeAmount: decimal.NewFromInt(5000),
	})

	g := &Generator{Store: store, Now: fixedNow}
	st, err := g.GetStatement(context.Background(), enr.EnrollmentID)
	require.NoError(t, err)
	assert.Nil(t, st.Account)
	assert.Empty(t, st.Fees)
}
