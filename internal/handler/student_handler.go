package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/edutrain/training-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StudentHandler serves student management for admins and the self-service
// endpoints of student accounts.
type StudentHandler struct {
	studentService *service.StudentService
	rosterService  *service.RosterService
	maxImportBytes int64
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(
	studentService *service.StudentService,
	rosterService *service.RosterService,
	maxImportBytes int64,
	log zerolog.Logger,
) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		rosterService:  rosterService,
		maxImportBytes: maxImportBytes,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/students?name=&status=&page=&per_page=
func (h *StudentHandler) List(c *gin.Context) {
	status := model.StudentStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"status": "status must be one of [enrolled graduated withdrawn]"})
		return
	}

	f := model.StudentFilter{Name: c.Query("name"), Status: status, PageQuery: pageQuery(c)}
	students, total, err := h.studentService.List(c.Request.Context(), f)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}

	listResponse(c, "students", students, f.PageQuery, total)
}

// Get godoc
// GET /api/v1/students/:id
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Create godoc
// POST /api/v1/students
// Creates the student together with a login account named after its code.
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, account, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"student": student, "account": account})
}

// Update godoc
// PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Delete godoc
// DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "student deleted successfully"})
}

// Me godoc
// GET /api/v1/students/me
func (h *StudentHandler) Me(c *gin.Context) {
	studentID, ok := ownStudentID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), studentID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// Recharge godoc
// POST /api/v1/students/me/recharge
// Adds funds to the caller's balance and returns the new balance.
func (h *StudentHandler) Recharge(c *gin.Context) {
	studentID, ok := ownStudentID(c)
	if !ok {
		return
	}

	var req model.RechargeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	balance, err := h.studentService.Recharge(c.Request.Context(), studentID, req.Amount)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

// Export godoc
// GET /api/v1/students/export
// Streams every student as an .xlsx workbook.
func (h *StudentHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.rosterService.Export(c.Request.Context(), &buf); err != nil {
		failWith(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import godoc
// POST /api/v1/students/import (multipart, field "file")
// Creates a student and account for every valid row. Invalid rows are
// reported back with their row number.
func (h *StudentHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Size > h.maxImportBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	}

	result, err := h.rosterService.Import(c.Request.Context(), file)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("skipped", len(result.Skipped)).
		Msg("Student roster imported")
	response.Success(c, http.StatusOK, result)
}

// ownStudentID returns the student record bound to the caller's account.
func ownStudentID(c *gin.Context) (uint64, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return 0, false
	}
	if claims.Role != model.RoleStudent || claims.RelatedID == nil {
		response.Fail(c, http.StatusForbidden, response.ErrStudentAccessOnly)
		return 0, false
	}
	return *claims.RelatedID, true
}
