package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrSessionInvalidated = errors.New("session invalidated")

	ErrCourseActive       = errors.New("course must be disabled before deletion")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrInvalidDate        = errors.New("invalid date")
	ErrNotStudentAccount  = errors.New("account is not linked to a student")
	ErrNotTeacherAccount  = errors.New("account is not linked to a teacher")

	ErrRosterInvalid = errors.New("roster file is not a valid spreadsheet")
)
