package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

// memLedgerStore meniru semantik conditional-update dari GormLedgerStore
// (pending-guard, FIFO installment, balance floor) tanpa database.
type memLedgerStore struct {
	enrollments  map[uuid.UUID]*acadModel.Enrollment
	schemes      map[uuid.UUID]*acadModel.TuitionScheme
	accounts     map[uuid.UUID]*billModel.Account // by account id
	fees         map[uuid.UUID]*billModel.EnrollmentFee
	installments map[uuid.UUID]*billModel.PaymentInstallment
	payments     map[uuid.UUID]*model.Payment
	transactions map[uuid.UUID]*model.PaymentTransaction // by payment id
	accountTxs   []billModel.AccountTransaction
	events       map[uuid.UUID]*model.PaymentGatewayEvent

	subjectsEnsured []uuid.UUID // enrollment ids
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{
		enrollments:  map[uuid.UUID]*acadModel.Enrollment{},
		schemes:      map[uuid.UUID]*acadModel.TuitionScheme{},
		accounts:     map[uuid.UUID]*billModel.Account{},
		fees:         map[uuid.UUID]*billModel.EnrollmentFee{},
		installments: map[uuid.UUID]*billModel.PaymentInstallment{},
		payments:     map[uuid.UUID]*model.Payment{},
		transactions: map[uuid.UUID]*model.PaymentTransaction{},
		events:       map[uuid.UUID]*model.PaymentGatewayEvent{},
	}
}

func (s *memLedgerStore) WithTx(ctx context.Context, fn func(LedgerStore) error) error {
	return fn(s)
}

func (s *memLedgerStore) GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error) {
	e, ok := s.enrollments[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "enrollment not found")
	}
	cp := *e
	return &cp, nil
}

func (s *memLedgerStore) GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error) {
	sc, ok := s.schemes[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "tuition scheme not found")
	}
	return sc, nil
}

func (s *memLedgerStore) GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*billModel.Account, error) {
	for _, a := range s.accounts {
		if a.AccountStudentID == studentID {
			return a, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusNotFound, "account not found — generate billing first")
}

func (s *memLedgerStore) ListUnpaidFees(ctx context.Context, enrollmentID uuid.UUID) ([]billModel.EnrollmentFee, error) {
	var out []billModel.EnrollmentFee
	for _, f := range s.fees {
		if f.EnrollmentFeeEnrollmentID == enrollmentID && !f.EnrollmentFeeIsPaid {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memLedgerStore) pendingInstallments(enrollmentID uuid.UUID) []*billModel.PaymentInstallment {
	var out []*billModel.PaymentInstallment
	for _, i := range s.installments {
		if i.PaymentInstallmentEnrollmentID == enrollmentID && i.PaymentInstallmentStatus == billModel.PaymentInstallmentStatusPending {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].PaymentInstallmentNumber < out[b].PaymentInstallmentNumber
	})
	return out
}

func (s *memLedgerStore) NextPendingInstallment(ctx context.Context, enrollmentID uuid.UUID) (*billModel.PaymentInstallment, error) {
	pend := s.pendingInstallments(enrollmentID)
	if len(pend) == 0 {
		return nil, nil
	}
	cp := *pend[0]
	return &cp, nil
}

func (s *memLedgerStore) CountOutstanding(ctx context.Context, enrollmentID uuid.UUID) (int64, int64, error) {
	var fees int64
	for _, f := range s.fees {
		if f.EnrollmentFeeEnrollmentID == enrollmentID && !f.EnrollmentFeeIsPaid {
			fees++
		}
	}
	return fees, int64(len(s.pendingInstallments(enrollmentID))), nil
}

func (s *memLedgerStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	cp := *p
	s.payments[p.PaymentID] = &cp
	return nil
}

func (s *memLedgerStore) GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (s *memLedgerStore) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, method string, reference *string, at time.Time) (bool, error) {
	p, ok := s.payments[id]
	if !ok || p.PaymentStatus != model.PaymentStatusPending {
		return false, nil
	}
	p.PaymentStatus = model.PaymentStatusCompleted
	p.PaymentMethod = method
	if reference != nil {
		p.PaymentReferenceNumber = reference
	}
	p.PaymentDate = &at
	return true, nil
}

func (s *memLedgerStore) MarkPaymentCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	p, ok := s.payments[id]
	if !ok || p.PaymentStatus != model.PaymentStatusPending {
		return false, nil
	}
	p.PaymentStatus = model.PaymentStatusCancelled
	return true, nil
}

func (s *memLedgerStore) CreatePaymentTransaction(ctx context.Context, t *model.PaymentTransaction) error {
	if t.PaymentTransactionID == uuid.Nil {
		t.PaymentTransactionID = uuid.New()
	}
	cp := *t
	s.transactions[t.PaymentTransactionPaymentID] = &cp
	return nil
}

func (s *memLedgerStore) GetTransactionByPayment(ctx context.Context, paymentID uuid.UUID) (*model.PaymentTransaction, error) {
	t, ok := s.transactions[paymentID]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "payment transaction not found")
	}
	cp := *t
	return &cp, nil
}

func (s *memLedgerStore) MarkTransactionPaid(ctx context.Context, paymentID uuid.UUID, at time.Time) error {
	if t, ok := s.transactions[paymentID]; ok && t.PaymentTransactionGatewayStatus != model.PaymentTransactionStatusPaid {
		t.PaymentTransactionGatewayStatus = model.PaymentTransactionStatusPaid
		t.PaymentTransactionPaidAt = &at
	}
	return nil
}

func (s *memLedgerStore) MarkFeesPaid(ctx context.Context, enrollmentID uuid.UUID, feeType string, at time.Time) (int64, error) {
	var n int64
	for _, f := range s.fees {
		if f.EnrollmentFeeEnrollmentID != enrollmentID || f.EnrollmentFeeIsPaid {
			continue
		}
		if feeType != "" && f.EnrollmentFeeType != feeType {
			continue
		}
		f.EnrollmentFeeIsPaid = true
		f.EnrollmentFeePaidAt = &at
		n++
	}
	return n, nil
}

func (s *memLedgerStore) SettleNextInstallment(ctx context.Context, enrollmentID, paymentID uuid.UUID, at time.Time) (*billModel.PaymentInstallment, error) {
	pend := s.pendingInstallments(enrollmentID)
	if len(pend) == 0 {
		return nil, nil
	}
	inst := pend[0]
	inst.PaymentInstallmentStatus = billModel.PaymentInstallmentStatusPaid
	inst.PaymentInstallmentPaidAt = &at
	inst.PaymentInstallmentPaymentID = &paymentID
	cp := *inst
	return &cp, nil
}

func (s *memLedgerStore) LockAccount(ctx context.Context, accountID uuid.UUID) (*billModel.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	cp := *a
	return &cp, nil
}

func (s *memLedgerStore) ReduceBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return decimal.Zero, fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	next := a.AccountTotalBalance.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}
	a.AccountTotalBalance = next
	return next, nil
}

func (s *memLedgerStore) AppendAccountTransaction(ctx context.Context, t *billModel.AccountTransaction) error {
	s.accountTxs = append(s.accountTxs, *t)
	return nil
}

func (s *memLedgerStore) SetEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error {
	if e, ok := s.enrollments[enrollmentID]; ok {
		e.EnrollmentStatus = status
	}
	return nil
}

func (s *memLedgerStore) SetEnrollmentPaymentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error {
	if e, ok := s.enrollments[enrollmentID]; ok {
		e.EnrollmentPaymentStatus = status
	}
	return nil
}

func (s *memLedgerStore) EnsureEnrollmentSubjects(ctx context.Context, enrollmentID uuid.UUID) error {
	s.subjectsEnsured = append(s.subjectsEnsured, enrollmentID)
	return nil
}

func (s *memLedgerStore) CreateGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEvent) error {
	if ev.PaymentGatewayEventID == uuid.Nil {
		ev.PaymentGatewayEventID = uuid.New()
	}
	cp := *ev
	s.events[ev.PaymentGatewayEventID] = &cp
	return nil
}

func (s *memLedgerStore) UpdateGatewayEventStatus(ctx context.Context, eventID uuid.UUID, status string, errMsg string) error {
	if ev, ok := s.events[eventID]; ok {
		ev.PaymentGatewayEventStatus = status
		if errMsg != "" {
			ev.PaymentGatewayEventError = &errMsg
		}
	}
	return nil
}

/* ===================== fixtures ===================== */

type ledgerFixture struct {
	store      *memLedgerStore
	enrollment *acadModel.Enrollment
	scheme     *acadModel.TuitionScheme
	account    *billModel.Account
}

// seedInstallmentLedger: enrollment dengan skema 1000 DP + 4 x 2000 (total 9000),
// billing sudah ter-generate.
func seedInstallmentLedger() *ledgerFixture {
	s := newMemLedgerStore()

	scheme := &acadModel.TuitionScheme{
		TuitionSchemeID:          uuid.New(),
		TuitionSchemeType:        acadModel.TuitionSchemeTypeInstallment,
		TuitionSchemeAmount:      decimal.NewFromInt(9000),
		TuitionSchemeDownpayment: decimal.NewFromInt(1000),
		TuitionSchemeMonthly:     decimal.NewFromInt(2000),
		TuitionSchemeMonths:      4,
	}
	s.schemes[scheme.TuitionSchemeID] = scheme

	enr := &acadModel.Enrollment{
		EnrollmentID:            uuid.New(),
		EnrollmentStudentID:     uuid.New(),
		EnrollmentSchemeID:      scheme.TuitionSchemeID,
		EnrollmentStatus:        acadModel.EnrollmentStatusPending,
		EnrollmentPaymentStatus: acadModel.EnrollmentPaymentStatusUnpaid,
	}
	s.enrollments[enr.EnrollmentID] = enr

	acct := &billModel.Account{
		AccountID:           uuid.New(),
		AccountStudentID:    enr.EnrollmentStudentID,
		AccountTotalBalance: decimal.NewFromInt(9000),
	}
	s.accounts[acct.AccountID] = acct

	dp := &billModel.EnrollmentFee{
		EnrollmentFeeID:           uuid.New(),
		EnrollmentFeeEnrollmentID: enr.EnrollmentID,
		EnrollmentFeeType:         billModel.EnrollmentFeeTypeDownpayment,
		EnrollmentFeeDescription:  "Downpayment",
		EnrollmentFeeAmount:       decimal.NewFromInt(1000),
	}
	s.fees[dp.EnrollmentFeeID] = dp

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		inst := &billModel.PaymentInstallment{
			PaymentInstallmentID:           uuid.New(),
			PaymentInstallmentEnrollmentID: enr.EnrollmentID,
			PaymentInstallmentNumber:       i,
			PaymentInstallmentAmount:       decimal.NewFromInt(2000),
			PaymentInstallmentDueDate:      base.AddDate(0, i, 0),
			PaymentInstallmentStatus:       billModel.PaymentInstallmentStatusPending,
		}
		s.installments[inst.PaymentInstallmentID] = inst
	}

	return &ledgerFixture{store: s, enrollment: enr, scheme: scheme, account: acct}
}

func (f *ledgerFixture) addPendingPayment(paymentType string, amount int64) *model.Payment {
	p := &model.Payment{
		PaymentID:           uuid.New(),
		PaymentAccountID:    f.account.AccountID,
		PaymentEnrollmentID: &f.enrollment.EnrollmentID,
		PaymentAmount:       decimal.NewFromInt(amount),
		PaymentCurrency:     "PHP",
		PaymentStatus:       model.PaymentStatusPending,
		PaymentType:         paymentType,
		PaymentMethod:       model.PaymentMethodGateway,
	}
	f.store.payments[p.PaymentID] = p
	return p
}
