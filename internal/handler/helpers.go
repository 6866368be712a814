package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/repository"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// errorMapping translates domain errors into HTTP responses. The first match
// wins, so specific errors come before the generic repository ones.
var errorMapping = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrAccountDisabled, http.StatusForbidden, response.ErrAccountDisabled},
	{service.ErrSessionInvalidated, http.StatusUnauthorized, response.ErrSessionInvalidated},
	{service.ErrNotStudentAccount, http.StatusForbidden, response.ErrStudentAccessOnly},
	{service.ErrNotTeacherAccount, http.StatusForbidden, response.ErrTeacherAccessOnly},
	{service.ErrInvalidDate, http.StatusBadRequest, response.ErrInvalidDate},
	{service.ErrCourseActive, http.StatusConflict, response.ErrCourseActive},
	{service.ErrDepartmentNotFound, http.StatusUnprocessableEntity, response.ErrReferenceMissing},
	{service.ErrCourseNotFound, http.StatusUnprocessableEntity, response.ErrReferenceMissing},
	{service.ErrTeacherNotFound, http.StatusUnprocessableEntity, response.ErrReferenceMissing},
	{service.ErrRosterInvalid, http.StatusBadRequest, response.ErrUnsupportedFile},

	{repository.ErrCourseCodeTaken, http.StatusConflict, response.ErrCourseCodeTaken},
	{repository.ErrUsernameTaken, http.StatusConflict, response.ErrUsernameTaken},
	{repository.ErrInvalidDateRange, http.StatusBadRequest, response.ErrInvalidDateRange},
	{repository.ErrCapacityBelowCount, http.StatusConflict, response.ErrCapacityTooLow},
	{repository.ErrAlreadyEnrolled, http.StatusConflict, response.ErrAlreadyEnrolled},
	{repository.ErrInsufficientBalance, http.StatusPaymentRequired, response.ErrInsufficientBalance},
	{repository.ErrClassFull, http.StatusConflict, response.ErrClassFull},
	{repository.ErrClassCompleted, http.StatusConflict, response.ErrClassCompleted},
	{repository.ErrCourseUnavailable, http.StatusConflict, response.ErrCourseUnavailable},
	{repository.ErrEnrollmentClosed, http.StatusConflict, response.ErrEnrollmentClosed},
	{repository.ErrValueOutOfRange, http.StatusUnprocessableEntity, response.ErrValueTooLarge},
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrDuplicate, http.StatusConflict, response.ErrConflict},
	{repository.ErrReferenced, http.StatusUnprocessableEntity, response.ErrReferenceMissing},
}

// failWith writes the response for err, logging anything unexpected.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// optionalID reads an optional positive numeric query parameter.
func optionalID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	return &id, true
}

// pageQuery reads ?page= and ?per_page= with defaults applied.
func pageQuery(c *gin.Context) model.PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return model.PageQuery{Page: page, PerPage: perPage}.Normalize()
}

func listResponse(c *gin.Context, key string, items interface{}, page model.PageQuery, total int64) {
	response.SuccessWithPagination(c, http.StatusOK, gin.H{key: items}, response.NewPagination(page.Page, page.PerPage, total))
}
