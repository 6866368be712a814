package handler

import (
	"net/http"

	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EnrollmentHandler handles class applications and their review.
type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
	log               zerolog.Logger
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService, log zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		log:               log.With().Str("component", "enrollment_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/enrollments?class_id=&student_id=&status=&page=&per_page=
// Students only see their own enrollments and teachers those of their classes.
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status := model.EnrollmentStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"status": "status must be one of [pending approved rejected]"})
		return
	}
	classID, ok := optionalID(c, "class_id")
	if !ok {
		return
	}
	studentID, ok := optionalID(c, "student_id")
	if !ok {
		return
	}

	f := model.EnrollmentFilter{
		StudentID: studentID,
		ClassID:   classID,
		Status:    status,
		PageQuery: pageQuery(c),
	}
	enrollments, total, err := h.enrollmentService.List(c.Request.Context(), claims.Role, claims.RelatedID, f)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}

	listResponse(c, "enrollments", enrollments, f.PageQuery, total)
}

// Apply godoc
// POST /api/v1/enrollments
// Charges the course price to the caller's balance and files a pending application.
func (h *EnrollmentHandler) Apply(c *gin.Context) {
	studentID, ok := ownStudentID(c)
	if !ok {
		return
	}

	var req model.ApplyEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	enrollment, err := h.enrollmentService.Apply(c.Request.Context(), studentID, req.ClassID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Review godoc
// PUT /api/v1/enrollments/:id/review
func (h *EnrollmentHandler) Review(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.ReviewEnrollmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.enrollmentService.Review(c.Request.Context(), id, req.Status)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, outcome)
}
