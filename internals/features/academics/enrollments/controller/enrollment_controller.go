package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "schoolpay_backend/internals/features/academics/enrollments/dto"
	model "schoolpay_backend/internals/features/academics/enrollments/model"
	helper "schoolpay_backend/internals/helpers"
)

type EnrollmentController struct {
	DB *gorm.DB
}

func NewEnrollmentController(db *gorm.DB) *EnrollmentController {
	return &EnrollmentController{DB: db}
}

/* ======================= CREATE ======================= */
// POST /academics/enrollments
func (h *EnrollmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// scheme harus ada sebelum enrollment dibuat
	var scheme model.TuitionScheme
	if err := h.DB.WithContext(c.UserContext()).
		First(&scheme, "tuition_scheme_id = ? AND tuition_scheme_deleted_at IS NULL", req.EnrollmentSchemeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "tuition scheme not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
			return helper.JsonError(c, fiber.StatusConflict, "enrollment for this student and semester already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "create enrollment failed")
	}

	return helper.JsonCreated(c, "enrollment created", dto.FromEnrollmentModel(m))
}

/* ======================= GET BY ID ======================= */
// GET /academics/enrollments/:id
func (h *EnrollmentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.Enrollment
	if err := h.DB.WithContext(c.UserContext()).
		First(&m, "enrollment_id = ? AND enrollment_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "enrollment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", dto.FromEnrollmentModel(&m))
}

/* ======================= LIST ======================= */
// GET /academics/enrollments?student_id=&semester_id=&status=&page=&per_page=
func (h *EnrollmentController) List(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext()).
		Model(&model.Enrollment{}).
		Where("enrollment_deleted_at IS NULL")

	if sid := strings.TrimSpace(c.Query("student_id")); sid != "" {
		id, err := uuid.Parse(sid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		db = db.Where("enrollment_student_id = ?", id)
	}
	if sem := strings.TrimSpace(c.Query("semester_id")); sem != "" {
		id, err := uuid.Parse(sem)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid semester_id")
		}
		db = db.Where("enrollment_semester_id = ?", id)
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		db = db.Where("enrollment_status = ?", strings.ToLower(st))
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Enrollment
	if err := db.Order("enrollment_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.EnrollmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromEnrollmentModel(&rows[i]))
	}

	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

/* ======================= TUITION SCHEMES ======================= */

// POST /academics/tuition-schemes
func (h *EnrollmentController) CreateScheme(c *fiber.Ctx) error {
	var req dto.CreateTuitionSchemeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.TuitionSchemeType == model.TuitionSchemeTypeInstallment && req.TuitionSchemeMonths <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "tuition_scheme_months wajib > 0 untuk skema installment")
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "create tuition scheme failed")
	}
	return helper.JsonCreated(c, "tuition scheme created", m)
}

// GET /academics/tuition-schemes
func (h *EnrollmentController) ListSchemes(c *fiber.Ctx) error {
	var rows []model.TuitionScheme
	if err := h.DB.WithContext(c.UserContext()).
		Where("tuition_scheme_deleted_at IS NULL").
		Order("tuition_scheme_created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /academics/subjects?program_id=&semester_id=&year_level=
func (h *EnrollmentController) ListSubjects(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext()).
		Model(&model.Subject{}).
		Where("subject_deleted_at IS NULL")

	if pid := strings.TrimSpace(c.Query("program_id")); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid program_id")
		}
		db = db.Where("subject_program_id = ?", id)
	}
	if sem := strings.TrimSpace(c.Query("semester_id")); sem != "" {
		id, err := uuid.Parse(sem)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid semester_id")
		}
		db = db.Where("subject_semester_id = ?", id)
	}
	if yl := strings.TrimSpace(c.Query("year_level")); yl != "" {
		db = db.Where("subject_year_level = ?", yl)
	}

	var rows []model.Subject
	if err := db.Order("subject_code ASC").Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", rows)
}
