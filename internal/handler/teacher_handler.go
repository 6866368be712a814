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

type TeacherHandler struct {
	teacherService *service.TeacherService
	log            zerolog.Logger
}

func NewTeacherHandler(teacherService *service.TeacherService, log zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		teacherService: teacherService,
		log:            log.With().Str("component", "teacher_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/teachers?name=&department_id=&status=&page=&per_page=
func (h *TeacherHandler) List(c *gin.Context) {
	status := model.TeacherStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"status": "status must be one of [employed departed]"})
		return
	}
	departmentID, ok := optionalID(c, "department_id")
	if !ok {
		return
	}

	f := model.TeacherFilter{
		Name:         c.Query("name"),
		DepartmentID: departmentID,
		Status:       status,
		PageQuery:    pageQuery(c),
	}
	teachers, total, err := h.teacherService.List(c.Request.Context(), f)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}

	listResponse(c, "teachers", teachers, f.PageQuery, total)
}

// Get godoc
// GET /api/v1/teachers/:id
func (h *TeacherHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	teacher, err := h.teacherService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// Create godoc
// POST /api/v1/teachers
func (h *TeacherHandler) Create(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, account, err := h.teacherService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"teacher": teacher, "account": account})
}

// Update godoc
// PUT /api/v1/teachers/:id
func (h *TeacherHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teacher": teacher})
}

// Delete godoc
// DELETE /api/v1/teachers/:id
// Classes taught by the teacher keep existing without a teacher.
func (h *TeacherHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.teacherService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "teacher deleted successfully"})
}
