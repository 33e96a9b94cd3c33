package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject: kurikulum per program/semester/year level.
type Subject struct {
	SubjectID uuid.UUID `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`

	SubjectProgramID  uuid.UUID `gorm:"column:subject_program_id;type:uuid;not null" json:"subject_program_id"`
	SubjectSemesterID uuid.UUID `gorm:"column:subject_semester_id;type:uuid;not null" json:"subject_semester_id"`
	SubjectYearLevel  int       `gorm:"column:subject_year_level;not null;default:1" json:"subject_year_level"`

	SubjectCode  string `gorm:"column:subject_code;not null" json:"subject_code"`
	SubjectName  string `gorm:"column:subject_name;not null" json:"subject_name"`
	SubjectUnits int    `gorm:"column:subject_units;not null;default:3" json:"subject_units"`

	CreatedAt time.Time      `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	UpdatedAt time.Time      `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"subject_deleted_at,omitempty"`
}

func (Subject) TableName() string { return "subjects" }

// EnrollmentSubject: subject yang ter-assign ke satu enrollment. Dibuat lazy
// oleh completion engine begitu enrollment berstatus enrolled.
type EnrollmentSubject struct {
	EnrollmentSubjectID uuid.UUID `gorm:"column:enrollment_subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_subject_id"`

	EnrollmentSubjectEnrollmentID uuid.UUID `gorm:"column:enrollment_subject_enrollment_id;type:uuid;not null;index" json:"enrollment_subject_enrollment_id"`
	EnrollmentSubjectSubjectID    uuid.UUID `gorm:"column:enrollment_subject_subject_id;type:uuid;not null" json:"enrollment_subject_subject_id"`

	CreatedAt time.Time `gorm:"column:enrollment_subject_created_at;autoCreateTime" json:"enrollment_subject_created_at"`
}

func (EnrollmentSubject) TableName() string { return "enrollment_subjects" }
