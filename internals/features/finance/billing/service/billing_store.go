// file: internals/features/finance/billing/service/billing_store.go
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	model "schoolpay_backend/internals/features/finance/billing/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

// BillingStore adalah akses ledger yang dibutuhkan billing generator.
// Controller/route tidak pernah pegang store global; dependency di-inject
// lewat constructor.
type BillingStore interface {
	// WithTx menjalankan fn dalam satu transaksi store. Semua mutasi billing
	// generation lewat sini supaya partial failure tidak mungkin.
	WithTx(ctx context.Context, fn func(BillingStore) error) error

	GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error)
	GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error)

	// BillingExists cek apakah sudah ada fee/installment untuk enrollment ini.
	BillingExists(ctx context.Context, enrollmentID uuid.UUID) (bool, error)

	// UpsertAccount: create-or-reset balance dalam SATU statement atomic
	// (INSERT ... ON CONFLICT), bukan read-then-write dari caller.
	UpsertAccount(ctx context.Context, studentID uuid.UUID, balance decimal.Decimal) (*model.Account, error)

	CreateFee(ctx context.Context, fee *model.EnrollmentFee) error
	CreateInstallments(ctx context.Context, rows []model.PaymentInstallment) error

	GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*model.Account, error)
	ListFees(ctx context.Context, enrollmentID uuid.UUID) ([]model.EnrollmentFee, error)
	ListInstallments(ctx context.Context, enrollmentID uuid.UUID) ([]model.PaymentInstallment, error)
	ListPayments(ctx context.Context, enrollmentID uuid.UUID) ([]paymentModel.Payment, error)
}
