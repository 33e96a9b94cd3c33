// file: internals/features/finance/payments/service/completion.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	acadModel "schoolpay_backend/internals/features/academics/enrollments/model"
	billModel "schoolpay_backend/internals/features/finance/billing/model"
	model "schoolpay_backend/internals/features/finance/payments/model"
)

// CompletionEngine: satu-satunya jalur yang boleh menandai payment completed
// dan menerapkan efek ledger-nya. Semua entry point (success redirect, webhook,
// mock-complete, pembayaran manual) konvergen ke Complete.
type CompletionEngine struct {
	Store LedgerStore
	Now   func() time.Time
}

func NewCompletionEngine(store LedgerStore) *CompletionEngine {
	return &CompletionEngine{Store: store, Now: time.Now}
}

type CompletionInput struct {
	Method    string // gateway | cash | bank_transfer
	Reference *string
	ActorID   *uuid.UUID
}

type CompletionResult struct {
	PaymentID          uuid.UUID       `json:"payment_id"`
	AlreadyProcessed   bool            `json:"already_processed"`
	EnrollmentEnrolled bool            `json:"enrollment_enrolled"`
	BalanceBefore      decimal.Decimal `json:"balance_before"`
	BalanceAfter       decimal.Decimal `json:"balance_after"`
}

// Complete menerapkan payment tepat sekali. Guard-nya bukan read-then-write:
// conditional UPDATE pending→completed yang menang menentukan siapa yang
// boleh lanjut; pemanggil lain dapat AlreadyProcessed=true (bukan error).
func (e *CompletionEngine) Complete(ctx context.Context, paymentID uuid.UUID, in CompletionInput) (*CompletionResult, error) {
	if in.Method == "" {
		in.Method = model.PaymentMethodGateway
	}
	now := e.Now()

	res := &CompletionResult{PaymentID: paymentID}
	var enrolledEnrollmentID *uuid.UUID

	err := e.Store.WithTx(ctx, func(tx LedgerStore) error {
		won, err := tx.MarkPaymentCompleted(ctx, paymentID, in.Method, in.Reference, now)
		if err != nil {
			return err
		}
		if !won {
			p, err := tx.GetPayment(ctx, paymentID)
			if err != nil {
				return err
			}
			if p.PaymentStatus == model.PaymentStatusCompleted {
				res.AlreadyProcessed = true
				return nil
			}
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("payment is %s and cannot be completed", p.PaymentStatus))
		}

		p, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := tx.MarkTransactionPaid(ctx, paymentID, now); err != nil {
			return err
		}

		acct, err := tx.LockAccount(ctx, p.PaymentAccountID)
		if err != nil {
			return err
		}
		before := acct.AccountTotalBalance
		after := before

		switch {
		case p.IsFeeSettlement():
			if p.PaymentEnrollmentID == nil {
				return fiber.NewError(fiber.StatusConflict, "fee payment has no enrollment")
			}
			feeType := "" // full_payment/enrollment melunasi semua fee
			if p.PaymentType == model.PaymentTypeDownpayment {
				feeType = billModel.EnrollmentFeeTypeDownpayment
			}
			n, err := tx.MarkFeesPaid(ctx, *p.PaymentEnrollmentID, feeType, now)
			if err != nil {
				return err
			}
			if n == 0 {
				return fiber.NewError(fiber.StatusConflict, "no unpaid fees to settle")
			}
			enrolled, err := e.refreshEnrollmentAfterSettlement(ctx, tx, *p.PaymentEnrollmentID, p.PaymentType)
			if err != nil {
				return err
			}
			res.EnrollmentEnrolled = enrolled

		case p.IsInstallmentSettlement():
			if p.PaymentEnrollmentID == nil {
				return fiber.NewError(fiber.StatusConflict, "installment payment has no enrollment")
			}
			inst, err := tx.SettleNextInstallment(ctx, *p.PaymentEnrollmentID, p.PaymentID, now)
			if err != nil {
				return err
			}
			if inst == nil {
				return fiber.NewError(fiber.StatusConflict, "no pending installments to settle")
			}
			log.Printf("[PAYMENT] 💳 settled installment #%d enrollment=%s payment=%s",
				inst.PaymentInstallmentNumber, *p.PaymentEnrollmentID, p.PaymentID)
			enrolled, err := e.refreshEnrollmentAfterSettlement(ctx, tx, *p.PaymentEnrollmentID, p.PaymentType)
			if err != nil {
				return err
			}
			res.EnrollmentEnrolled = enrolled

		case p.PaymentType == model.PaymentTypeBalance:
			after, err = tx.ReduceBalance(ctx, acct.AccountID, p.PaymentAmount)
			if err != nil {
				return err
			}

		default:
			return fiber.NewError(fiber.StatusConflict, "unknown payment type "+p.PaymentType)
		}

		desc := fmt.Sprintf("%s payment via %s", p.PaymentType, in.Method)
		if err := tx.AppendAccountTransaction(ctx, &billModel.AccountTransaction{
			AccountTransactionAccountID:     acct.AccountID,
			AccountTransactionPaymentID:     &p.PaymentID,
			AccountTransactionAmount:        p.PaymentAmount,
			AccountTransactionBalanceBefore: before,
			AccountTransactionBalanceAfter:  after,
			AccountTransactionDescription:   desc,
			AccountTransactionCreatedBy:     in.ActorID,
		}); err != nil {
			return err
		}

		res.BalanceBefore = before
		res.BalanceAfter = after
		if res.EnrollmentEnrolled {
			enrolledEnrollmentID = p.PaymentEnrollmentID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.AlreadyProcessed {
		return res, nil
	}

	// best-effort di luar transaksi: gagal di sini tidak membatalkan completion
	if enrolledEnrollmentID != nil {
		if err := e.Store.EnsureEnrollmentSubjects(ctx, *enrolledEnrollmentID); err != nil {
			log.Printf("[PAYMENT] ⚠️ subject auto-assign failed enrollment=%s: %v", *enrolledEnrollmentID, err)
		}
	}

	log.Printf("[PAYMENT] ✅ completed payment=%s method=%s", paymentID, in.Method)
	return res, nil
}

// refreshEnrollmentAfterSettlement: sinkronkan status enrollment setelah
// fee/installment berubah. Downpayment = qualifying payment → langsung
// enrolled; selain itu enrolled hanya bila seluruh tagihan lunas.
func (e *CompletionEngine) refreshEnrollmentAfterSettlement(ctx context.Context, tx LedgerStore, enrollmentID uuid.UUID, paymentType string) (bool, error) {
	unpaidFees, pendingInst, err := tx.CountOutstanding(ctx, enrollmentID)
	if err != nil {
		return false, err
	}

	payStatus := acadModel.EnrollmentPaymentStatusPartial
	if unpaidFees == 0 && pendingInst == 0 {
		payStatus = acadModel.EnrollmentPaymentStatusPaid
	}
	if err := tx.SetEnrollmentPaymentStatus(ctx, enrollmentID, payStatus); err != nil {
		return false, err
	}

	settled := unpaidFees == 0 && pendingInst == 0
	qualifying := paymentType == model.PaymentTypeDownpayment
	if !settled && !qualifying {
		return false, nil
	}

	enr, err := tx.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return false, err
	}
	if enr.IsEnrolled() {
		return false, nil
	}
	if err := tx.SetEnrollmentStatus(ctx, enrollmentID, acadModel.EnrollmentStatusEnrolled); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel: pending → cancelled. Idempotent untuk yang sudah cancelled;
// completed/failed ditolak.
func (e *CompletionEngine) Cancel(ctx context.Context, paymentID uuid.UUID) error {
	ok, err := e.Store.MarkPaymentCancelled(ctx, paymentID)
	if err != nil {
		return err
	}
	if ok {
		log.Printf("[PAYMENT] 🚫 cancelled payment=%s", paymentID)
		return nil
	}
	p, err := e.Store.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if p.PaymentStatus == model.PaymentStatusCancelled {
		return nil
	}
	return fiber.NewError(fiber.StatusBadRequest,
		fmt.Sprintf("payment is %s and cannot be cancelled", p.PaymentStatus))
}
