package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	model "schoolpay_backend/internals/features/academics/enrollments/model"
)

var validate = validator.New()

/* ===================== Requests ===================== */

type CreateEnrollmentRequest struct {
	EnrollmentStudentID  uuid.UUID  `json:"enrollment_student_id" validate:"required"`
	EnrollmentProgramID  uuid.UUID  `json:"enrollment_program_id" validate:"required"`
	EnrollmentSchemeID   uuid.UUID  `json:"enrollment_scheme_id" validate:"required"`
	EnrollmentSemesterID uuid.UUID  `json:"enrollment_semester_id" validate:"required"`
	EnrollmentYearLevel  int        `json:"enrollment_year_level" validate:"omitempty,min=1,max=10"`
	CreatedBy            *uuid.UUID `json:"created_by"`
}

func (r *CreateEnrollmentRequest) Validate() error { return validate.Struct(r) }

func (r *CreateEnrollmentRequest) ToModel() *model.Enrollment {
	year := r.EnrollmentYearLevel
	if year < 1 {
		year = 1
	}
	return &model.Enrollment{
		EnrollmentStudentID:     r.EnrollmentStudentID,
		EnrollmentProgramID:     r.EnrollmentProgramID,
		EnrollmentSchemeID:      r.EnrollmentSchemeID,
		EnrollmentSemesterID:    r.EnrollmentSemesterID,
		EnrollmentYearLevel:     year,
		EnrollmentStatus:        model.EnrollmentStatusPending,
		EnrollmentPaymentStatus: model.EnrollmentPaymentStatusUnpaid,
		EnrollmentCreatedBy:     r.CreatedBy,
	}
}

/* ===================== Responses ===================== */

type EnrollmentResponse struct {
	EnrollmentID            uuid.UUID `json:"enrollment_id"`
	EnrollmentStudentID     uuid.UUID `json:"enrollment_student_id"`
	EnrollmentProgramID     uuid.UUID `json:"enrollment_program_id"`
	EnrollmentSchemeID      uuid.UUID `json:"enrollment_scheme_id"`
	EnrollmentSemesterID    uuid.UUID `json:"enrollment_semester_id"`
	EnrollmentYearLevel     int       `json:"enrollment_year_level"`
	EnrollmentStatus        string    `json:"enrollment_status"`
	EnrollmentPaymentStatus string    `json:"enrollment_payment_status"`
	EnrollmentCreatedAt     time.Time `json:"enrollment_created_at"`
}

func FromEnrollmentModel(m *model.Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{
		EnrollmentID:            m.EnrollmentID,
		EnrollmentStudentID:     m.EnrollmentStudentID,
		EnrollmentProgramID:     m.EnrollmentProgramID,
		EnrollmentSchemeID:      m.EnrollmentSchemeID,
		EnrollmentSemesterID:    m.EnrollmentSemesterID,
		EnrollmentYearLevel:     m.EnrollmentYearLevel,
		EnrollmentStatus:        m.EnrollmentStatus,
		EnrollmentPaymentStatus: m.EnrollmentPaymentStatus,
		EnrollmentCreatedAt:     m.CreatedAt,
	}
}
