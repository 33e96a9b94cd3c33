package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL:
   enrollment_status, enrollment_payment_status
*/

const (
	EnrollmentStatusPending   = "pending"
	EnrollmentStatusEnrolled  = "enrolled"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

const (
	EnrollmentPaymentStatusUnpaid  = "unpaid"
	EnrollmentPaymentStatusPartial = "partial"
	EnrollmentPaymentStatusPaid    = "paid"
)

/* ===================== Model ===================== */

type Enrollment struct {
	EnrollmentID uuid.UUID `gorm:"column:enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_id"`

	EnrollmentStudentID  uuid.UUID `gorm:"column:enrollment_student_id;type:uuid;not null" json:"enrollment_student_id"`
	EnrollmentProgramID  uuid.UUID `gorm:"column:enrollment_program_id;type:uuid;not null" json:"enrollment_program_id"`
	EnrollmentSchemeID   uuid.UUID `gorm:"column:enrollment_scheme_id;type:uuid;not null" json:"enrollment_scheme_id"`
	EnrollmentSemesterID uuid.UUID `gorm:"column:enrollment_semester_id;type:uuid;not null" json:"enrollment_semester_id"`
	EnrollmentYearLevel  int       `gorm:"column:enrollment_year_level;not null;default:1" json:"enrollment_year_level"`

	EnrollmentStatus        string `gorm:"column:enrollment_status;type:enrollment_status;not null;default:'pending'" json:"enrollment_status"`
	EnrollmentPaymentStatus string `gorm:"column:enrollment_payment_status;type:enrollment_payment_status;not null;default:'unpaid'" json:"enrollment_payment_status"`

	EnrollmentCreatedBy *uuid.UUID `gorm:"column:enrollment_created_by;type:uuid" json:"enrollment_created_by,omitempty"`

	CreatedAt time.Time      `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	UpdatedAt time.Time      `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"enrollment_deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }

/* ===================== Helpers ===================== */

func (e *Enrollment) IsEnrolled() bool {
	return e.EnrollmentStatus == EnrollmentStatusEnrolled || e.EnrollmentStatus == EnrollmentStatusCompleted
}
