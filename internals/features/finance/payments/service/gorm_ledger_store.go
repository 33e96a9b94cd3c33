// file: internals/features/finance/payments/service/gorm_ledger_store.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

type GormLedgerStore struct {
	db *gorm.DB
}

func NewGormLedgerStore(db *gorm.DB) *GormLedgerStore {
	return &GormLedgerStore{db: db}
}

func (s *GormLedgerStore) WithTx(ctx context.Context, fn func(LedgerStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormLedgerStore{db: tx})
	})
}

/* ===================== Lookups ===================== */

func (s *GormLedgerStore) GetEnrollment(ctx context.Context, id uuid.UUID) (*acadModel.Enrollment, error) {
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

func (s *GormLedgerStore) GetScheme(ctx context.Context, id uuid.UUID) (*acadModel.TuitionScheme, error) {
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

func (s *GormLedgerStore) GetAccountByStudent(ctx context.Context, studentID uuid.UUID) (*billModel.Account, error) {
	var m billModel.Account
	if err := s.db.WithContext(ctx).
		First(&m, "account_student_id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "account not found — generate billing first")
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormLedgerStore) ListUnpaidFees(ctx context.Context, enrollmentID uuid.UUID) ([]billModel.EnrollmentFee, error) {
	var rows []billModel.EnrollmentFee
	err := s.db.WithContext(ctx).
		Where("enrollment_fee_enrollment_id = ? AND enrollment_fee_is_paid = FALSE", enrollmentID).
		Order("enrollment_fee_created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormLedgerStore) NextPendingInstallment(ctx context.Context, enrollmentID uuid.UUID) (*billModel.PaymentInstallment, error) {
	var m billModel.PaymentInstallment
	err := s.db.WithContext(ctx).
		Where("payment_installment_enrollment_id = ? AND payment_installment_status = ?",
			enrollmentID, billModel.PaymentInstallmentStatusPending).
		Order("payment_installment_number ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormLedgerStore) CountOutstanding(ctx context.Context, enrollmentID uuid.UUID) (int64, int64, error) {
	var row struct {
		UnpaidFees          int64 `gorm:"column:unpaid_fees"`
		PendingInstallments int64 `gorm:"column:pending_installments"`
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM enrollment_fees
			  WHERE enrollment_fee_enrollment_id = ? AND enrollment_fee_is_paid = FALSE) AS unpaid_fees,
			(SELECT COUNT(*) FROM payment_installments
			  WHERE payment_installment_enrollment_id = ? AND payment_installment_status = 'pending') AS pending_installments
	`, enrollmentID, enrollmentID).Scan(&row).Error
	return row.UnpaidFees, row.PendingInstallments, err
}

/* ===================== Payments ===================== */

func (s *GormLedgerStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormLedgerStore) GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var m model.Payment
	if err := s.db.WithContext(ctx).
		First(&m, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return nil, err
	}
	return &m, nil
}

// MarkPaymentCompleted: guard utamanya ada di WHERE payment_status='pending'.
// Dua request concurrent untuk payment yang sama → tepat satu yang dapat
// RowsAffected=1, sisanya false.
func (s *GormLedgerStore) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, method string, reference *string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE payments
		   SET payment_status           = 'completed',
		       payment_method           = ?,
		       payment_reference_number = COALESCE(?, payment_reference_number),
		       payment_date             = ?,
		       payment_updated_at       = NOW()
		 WHERE payment_id = ?
		   AND payment_status = 'pending'
		   AND payment_deleted_at IS NULL
	`, method, reference, at, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormLedgerStore) MarkPaymentCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE payments
		   SET payment_status     = 'cancelled',
		       payment_updated_at = NOW()
		 WHERE payment_id = ?
		   AND payment_status = 'pending'
		   AND payment_deleted_at IS NULL
	`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

/* ===================== Payment transactions ===================== */

func (s *GormLedgerStore) CreatePaymentTransaction(ctx context.Context, t *model.PaymentTransaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormLedgerStore) GetTransactionByPayment(ctx context.Context, paymentID uuid.UUID) (*model.PaymentTransaction, error) {
	var m model.PaymentTransaction
	if err := s.db.WithContext(ctx).
		First(&m, "payment_transaction_payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "payment transaction not found")
		}
		return nil, err
	}
	return &m, nil
}

// MarkTransactionPaid: no-op bila payment tidak punya transaction
// (mis. pembayaran cash manual).
func (s *GormLedgerStore) MarkTransactionPaid(ctx context.Context, paymentID uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Exec(`
		UPDATE payment_transactions
		   SET payment_transaction_gateway_status = 'paid',
		       payment_transaction_paid_at        = ?,
		       payment_transaction_updated_at     = NOW()
		 WHERE payment_transaction_payment_id = ?
		   AND payment_transaction_gateway_status <> 'paid'
	`, at, paymentID).Error
}

/* ===================== Settlement primitives ===================== */

func (s *GormLedgerStore) MarkFeesPaid(ctx context.Context, enrollmentID uuid.UUID, feeType string, at time.Time) (int64, error) {
	q := s.db.WithContext(ctx).Model(&billModel.EnrollmentFee{}).
		Where("enrollment_fee_enrollment_id = ? AND enrollment_fee_is_paid = FALSE", enrollmentID)
	if feeType != "" {
		q = q.Where("enrollment_fee_type = ?", feeType)
	}
	res := q.Updates(map[string]interface{}{
		"enrollment_fee_is_paid": true,
		"enrollment_fee_paid_at": at,
	})
	return res.RowsAffected, res.Error
}

// SettleNextInstallment: subquery + FOR UPDATE supaya dua completion
// concurrent tidak pernah settle installment yang sama. nil = tidak ada
// installment pending tersisa.
func (s *GormLedgerStore) SettleNextInstallment(ctx context.Context, enrollmentID, paymentID uuid.UUID, at time.Time) (*billModel.PaymentInstallment, error) {
	var m billModel.PaymentInstallment
	err := s.db.WithContext(ctx).Raw(`
		UPDATE payment_installments
		   SET payment_installment_status     = 'paid',
		       payment_installment_paid_at    = ?,
		       payment_installment_payment_id = ?
		 WHERE payment_installment_id = (
		       SELECT payment_installment_id
		         FROM payment_installments
		        WHERE payment_installment_enrollment_id = ?
		          AND payment_installment_status = 'pending'
		        ORDER BY payment_installment_number ASC
		        LIMIT 1
		        FOR UPDATE
		 )
		RETURNING *
	`, at, paymentID, enrollmentID).Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.PaymentInstallmentID == uuid.Nil {
		return nil, nil
	}
	return &m, nil
}

func (s *GormLedgerStore) LockAccount(ctx context.Context, accountID uuid.UUID) (*billModel.Account, error) {
	var m billModel.Account
	err := s.db.WithContext(ctx).Raw(`
		SELECT * FROM accounts WHERE account_id = ? FOR UPDATE
	`, accountID).Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.AccountID == uuid.Nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	return &m, nil
}

// ReduceBalance: floor di nol ada di SQL, bukan di aplikasi.
func (s *GormLedgerStore) ReduceBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var row struct {
		Balance decimal.Decimal `gorm:"column:account_total_balance"`
	}
	err := s.db.WithContext(ctx).Raw(`
		UPDATE accounts
		   SET account_total_balance = GREATEST(account_total_balance - ?, 0),
		       account_last_updated  = NOW()
		 WHERE account_id = ?
		RETURNING account_total_balance
	`, amount, accountID).Scan(&row).Error
	return row.Balance, err
}

func (s *GormLedgerStore) AppendAccountTransaction(ctx context.Context, t *billModel.AccountTransaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

/* ===================== Enrollment side-effects ===================== */

func (s *GormLedgerStore) SetEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error {
	return s.db.WithContext(ctx).Exec(`
		UPDATE enrollments
		   SET enrollment_status     = ?,
		       enrollment_updated_at = NOW()
		 WHERE enrollment_id = ?
		   AND enrollment_deleted_at IS NULL
	`, status, enrollmentID).Error
}

func (s *GormLedgerStore) SetEnrollmentPaymentStatus(ctx context.Context, enrollmentID uuid.UUID, status string) error {
	return s.db.WithContext(ctx).Exec(`
		UPDATE enrollments
		   SET enrollment_payment_status = ?,
		       enrollment_updated_at     = NOW()
		 WHERE enrollment_id = ?
		   AND enrollment_deleted_at IS NULL
	`, status, enrollmentID).Error
}

// EnsureEnrollmentSubjects: insert subject kurikulum yang match program +
// semester + year level, skip kalau enrollment sudah punya subject.
func (s *GormLedgerStore) EnsureEnrollmentSubjects(ctx context.Context, enrollmentID uuid.UUID) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO enrollment_subjects (enrollment_subject_enrollment_id, enrollment_subject_subject_id)
		SELECT e.enrollment_id, s.subject_id
		  FROM enrollments e
		  JOIN subjects s
		    ON s.subject_program_id  = e.enrollment_program_id
		   AND s.subject_semester_id = e.enrollment_semester_id
		   AND s.subject_year_level  = e.enrollment_year_level
		   AND s.subject_deleted_at IS NULL
		 WHERE e.enrollment_id = ?
		   AND NOT EXISTS (
		       SELECT 1 FROM enrollment_subjects es
		        WHERE es.enrollment_subject_enrollment_id = e.enrollment_id
		 )
	`, enrollmentID).Error
}

/* ===================== Gateway events ===================== */

func (s *GormLedgerStore) CreateGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *GormLedgerStore) UpdateGatewayEventStatus(ctx context.Context, eventID uuid.UUID, status string, errMsg string) error {
	vals := map[string]interface{}{
		"payment_gateway_event_status":       status,
		"payment_gateway_event_processed_at": time.Now(),
	}
	if errMsg != "" {
		vals["payment_gateway_event_error"] = errMsg
	}
	return s.db.WithContext(ctx).Model(&model.PaymentGatewayEvent{}).
		Where("payment_gateway_event_id = ?", eventID).
		Updates(vals).Error
}
