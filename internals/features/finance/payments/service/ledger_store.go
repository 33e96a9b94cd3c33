// file: internals/features/finance/payments/service/ledger_store.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

// LedgerStore adalah akses ledger untuk checkout manager + completion engine.
// Semua primitive mutasinya single-statement conditional update; serialisasi
// check-then-act ada di statement-nya, bukan read-then-write di aplikasi.
type LedgerStore interface {
	WithTx(ctx context.Context, fn func(LedgerStore) error) error

	GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error)
	GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error)
	GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*billModel.Account, error)

	ListUnpaidFees(ctx context.Context, enrollmentID uuid.UUID) ([]billModel.EnrollmentFee, error)
	// NextPendingInstallment: pending paling awal by installment_number; nil jika habis.
	NextPendingInstallment(ctx context.Context, enrollmentID uuid.UUID) (*billModel.PaymentInstallment, error)
	// CountOutstanding: sisa fee unpaid + installment pending untuk enrollment.
	CountOutstanding(ctx context.Context, enrollmentID uuid.UUID) (unpaidFees, pendingInstallments int64, err error)

	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	// MarkPaymentCompleted: UPDATE ... WHERE payment_status='pending'.
	// false = tidak ada row ter-update (sudah terminal) — INI idempotency guard.
	MarkPaymentCompleted(ctx context.Context, id uuid.UUID, method string, reference *string, at time.Time) (bool, error)
	// MarkPaymentCancelled: pending → cancelled, conditional juga.
	MarkPaymentCancelled(ctx context.Context, id uuid.UUID) (bool, error)

	CreatePaymentTransaction(ctx context.Context, t *model.PaymentTransaction) error
	GetTransactionByPayment(ctx context.Context, paymentID uuid.UUID) (*model.PaymentTransaction, error)
	MarkTransactionPaid(ctx context.Context, paymentID uuid.UUID, at time.Time) error

	// MarkFeesPaid: feeType kosong = semua fee unpaid milik enrollment.
	MarkFeesPaid(ctx context.Context, enrollmentID uuid.UUID, feeType string, at time.Time) (int64, error)
	// SettleNextInstallment: tandai paid SATU installment pending paling awal
	// (FIFO by number) dan link ke payment. nil jika tidak ada yang pending.
	SettleNextInstallment(ctx context.Context, enrollmentID, paymentID uuid.UUID, at time.Time) (*billModel.PaymentInstallment, error)

	// LockAccount: SELECT ... FOR UPDATE di dalam transaksi berjalan.
	LockAccount(ctx context.Context, accountID uuid.UUID) (*billModel.Account, error)
	// ReduceBalance: balance = GREATEST(balance - amount, 0); return balance baru.
	ReduceBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	AppendAccountTransaction(ctx context.Context, t *billModel.AccountTransaction) error

	SetEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error
	SetEnrollmentPaymentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error

	// EnsureEnrollmentSubjects: auto-assign subject kurikulum bila belum ada.
	// Dipanggil best-effort di luar transaksi completion.
	EnsureEnrollmentSubjects(ctx context.Context, enrollmentID uuid.UUID) error

	CreateGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEvent) error
	UpdateGatewayEventStatus(ctx context.Context, eventID uuid.UUID, status string, errMsg string) error
}
