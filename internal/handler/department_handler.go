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

type DepartmentHandler struct {
	departmentService *service.DepartmentService
	log               zerolog.Logger
}

func NewDepartmentHandler(departmentService *service.DepartmentService, log zerolog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
		log:               log.With().Str("component", "department_handler").Logger(),
	}
}

// GetAll godoc
// GET /api/v1/departments
func (h *DepartmentHandler) GetAll(c *gin.Context) {
	departments, err := h.departmentService.GetAll(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	if departments == nil {
		departments = []model.Department{}
	}

	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// Get godoc
// GET /api/v1/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	department, err := h.departmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"department": department})
}

// Create godoc
// POST /api/v1/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req model.DepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	department, err := h.departmentService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"department": department})
}

// Update godoc
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.DepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	department, err := h.departmentService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"department": department})
}

// Delete godoc
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "department deleted successfully"})
}
