// file: internals/features/finance/billing/service/gorm_store.go
package service

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	model "schoolpay_backend/internals/features/finance/billing/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

type GormBillingStore struct {
	db *gorm.DB
}

func NewGormBillingStore(db *gorm.DB) *GormBillingStore {
	return &GormBillingStore{db: db}
}

func (s *GormBillingStore) WithTx(ctx context.Context, fn func(BillingStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormBillingStore{db: tx})
	})
}

func (s *GormBillingStore) GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error) {
	var m acadModel.Enrollment
	if err := s.db.WithContext(ctx).
		First(&m, "enrollment_id = ? AND enrollment_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "enrollment not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormBillingStore) GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error) {
	var m acadModel.TuitionScheme
	if err := s.db.WithContext(ctx).
		First(&m, "tuition_scheme_id = ? AND tuition_scheme_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "tuition scheme not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormBillingStore) BillingExists(ctx context.Context, enrollmentID uuid.UUID) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM enrollment_fees WHERE enrollment_fee_enrollment_id = ?)
			+
			(SELECT COUNT(*) FROM payment_installments WHERE payment_installment_enrollment_id = ?)
	`, enrollmentID, enrollmentID).Scan(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpsertAccount: satu statement atomic — aman terhadap generate billing
// concurrent untuk siswa yang sama.
func (s *GormBillingStore) UpsertAccount(ctx context.Context, studentID uuid.UUID, balance decimal.Decimal) (*model.Account, error) {
	var m model.Account
	if err := s.db.WithContext(ctx).Raw(`
		INSERT INTO accounts (account_student_id, account_total_balance, account_last_updated)
		VALUES (?, ?, NOW())
		ON CONFLICT (account_student_id) DO UPDATE
		   SET account_total_balance = EXCLUDED.account_total_balance,
		       account_last_updated  = NOW()
		RETURNING account_id, account_student_id, account_total_balance, account_last_updated, account_created_at
	`, studentID, balance).Scan(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormBillingStore) CreateFee(ctx context.Context, fee *model.EnrollmentFee) error {
	return s.db.WithContext(ctx).Create(fee).Error
}

func (s *GormBillingStore) CreateInstallments(ctx context.Context, rows []model.PaymentInstallment) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

func (s *GormBillingStore) GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*model.Account, error) {
	var m model.Account
	if err := s.db.WithContext(ctx).
		First(&m, "account_student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "account not found — generate billing first")
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormBillingStore) ListFees(ctx context.Context, enrollmentID uuid.UUID) ([]model.EnrollmentFee, error) {
	var rows []model.EnrollmentFee
	err := s.db.WithContext(ctx).
		Where("enrollment_fee_enrollment_id = ?", enrollmentID).
		Order("enrollment_fee_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormBillingStore) ListInstallments(ctx context.Context, enrollmentID uuid.UUID) ([]model.PaymentInstallment, error) {
	var rows []model.PaymentInstallment
	err := s.db.WithContext(ctx).
		Where("payment_installment_enrollment_id = ?", enrollmentID).
		Order("payment_installment_number ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormBillingStore) ListPayments(ctx context.Context, enrollmentID uuid.UUID) ([]paymentModel.Payment, error) {
	var rows []paymentModel.Payment
	err := s.db.WithContext(ctx).
		Where("payment_enrollment_id = ?", enrollmentID).
		Order("payment_created_at DESC").
		Find(&rows).Error
	return rows, err
}
