// file: internals/features/finance/payments/scheduler/reminder.go
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	billModel "schoolpay_backend/internals/features/finance/billing/model"
)

const reminderWindowDays = 3

// StartInstallmentReminderCron: tiap hari jam 08:00 cari installment pending
// yang jatuh tempo ≤3 hari dan belum pernah diingatkan, log + stamp
// reminded_at supaya tidak dobel.
func StartInstallmentReminderCron(db *gorm.DB) {
	c := cron.New()

	_, err := c.AddFunc("0 8 * * *", func() {
		runReminderPass(db)
	})
	if err != nil {
		log.Printf("[REMINDER] ❌ failed to schedule cron: %v", err)
		return
	}

	c.Start()
	log.Println("✅ Installment reminder cron started (daily 08:00)")
}

func runReminderPass(db *gorm.DB) {
	cutoff := time.Now().AddDate(0, 0, reminderWindowDays)

	var due []billModel.PaymentInstallment
	if err := db.
		Where("payment_installment_status = ?", billModel.PaymentInstallmentStatusPending).
		Where("payment_installment_due_date <= ?", cutoff).
		Where("payment_installment_reminded_at IS NULL").
		Order("payment_installment_due_date ASC").
		Find(&due).Error; err != nil {
		log.Printf("[REMINDER] ❌ query failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	now := time.Now()
	for _, inst := range due {
		log.Printf("[REMINDER] 🔔 installment #%d enrollment=%s amount=%s due=%s",
			inst.PaymentInstallmentNumber,
			inst.PaymentInstallmentEnrollmentID,
			inst.PaymentInstallmentAmount.StringFixed(2),
			inst.PaymentInstallmentDueDate.Format("2006-01-02"))

		if err := db.Model(&billModel.PaymentInstallment{}).
			Where("payment_installment_id = ? AND payment_installment_reminded_at IS NULL", inst.PaymentInstallmentID).
			Update("payment_installment_reminded_at", now).Error; err != nil {
			log.Printf("[REMINDER] ⚠️ failed to stamp reminder installment=%s: %v", inst.PaymentInstallmentID, err)
		}
	}
	log.Printf("[REMINDER] ✅ pass done, %d installment(s) reminded", len(due))
}
