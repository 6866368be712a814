package handler

import (
	"net/http"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ClassHandler handles class scheduling.
type ClassHandler struct {
	classService *service.ClassService
	log          zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		log:          log.With().Str("component", "class_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/classes?course_id=&teacher_id=&status=&page=&per_page=
func (h *ClassHandler) List(c *gin.Context) {
	status := model.ClassStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"status": "status must be one of [not_started in_progress completed]"})
		return
	}
	courseID, ok := optionalID(c, "course_id")
	if !ok {
		return
	}
	teacherID, ok := optionalID(c, "teacher_id")
	if !ok {
		return
	}

	f := model.ClassFilter{
		CourseID:  courseID,
		TeacherID: teacherID,
		Status:    status,
		PageQuery: pageQuery(c),
	}
	classes, total, err := h.classService.List(c.Request.Context(), f)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	listResponse(c, "classes", classes, f.PageQuery, total)
}

// Available godoc
// GET /api/v1/classes/available
// Lists classes the calling student can still apply to.
func (h *ClassHandler) Available(c *gin.Context) {
	studentID, ok := ownStudentID(c)
	if !ok {
		return
	}

	classes, err := h.classService.ListAvailable(c.Request.Context(), studentID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Get godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Create godoc
// POST /api/v1/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PUT /api/v1/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Delete godoc
// DELETE /api/v1/classes/:id
// Enrollments of the class are removed with it.
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}
