package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidDate    ErrCode = "INVALID_DATE"
	ErrValueTooLarge  ErrCode = "VALUE_TOO_LARGE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrReferenceMissing ErrCode = "REFERENCE_MISSING"

	// ─── Courses & classes ─────────────────────────────────────────────
	ErrCourseCodeTaken  ErrCode = "COURSE_CODE_TAKEN"
	ErrCourseActive     ErrCode = "COURSE_ACTIVE"
	ErrInvalidDateRange ErrCode = "INVALID_DATE_RANGE"
	ErrCapacityTooLow   ErrCode = "CAPACITY_BELOW_COUNT"
	ErrUsernameTaken    ErrCode = "USERNAME_TAKEN"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrAlreadyEnrolled     ErrCode = "ALREADY_ENROLLED"
	ErrInsufficientBalance ErrCode = "INSUFFICIENT_BALANCE"
	ErrClassFull           ErrCode = "CLASS_FULL"
	ErrClassCompleted      ErrCode = "CLASS_COMPLETED"
	ErrCourseUnavailable   ErrCode = "COURSE_UNAVAILABLE"
	ErrEnrollmentClosed    ErrCode = "ENROLLMENT_CLOSED"

	// ─── Files ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

var messages = map[ErrCode]string{
	ErrInvalidCredentials: "Incorrect username or password.",
	ErrAccountDisabled:    "This account has been disabled.",
	ErrSessionInvalidated: "Your session has ended. Please log in again.",
	ErrTokenRequired:      "An authentication token is required.",
	ErrTokenInvalid:       "The authentication token is invalid.",
	ErrTokenExpired:       "The authentication token has expired.",

	ErrForbidden:         "You do not have permission to access this resource.",
	ErrStudentAccessOnly: "This resource is restricted to students.",
	ErrTeacherAccessOnly: "This account is not linked to a teacher.",
	ErrAdminAccessOnly:   "This resource is restricted to administrators.",

	ErrValidation:     "The request contains invalid fields.",
	ErrInvalidID:      "The ID must be a positive integer.",
	ErrInvalidPayload: "The request body could not be read.",
	ErrInvalidDate:    "Dates must use the YYYY-MM-DD format.",
	ErrValueTooLarge:  "The amount exceeds the largest value that can be stored.",

	ErrNotFound:         "The requested resource was not found.",
	ErrConflict:         "The resource already exists.",
	ErrReferenceMissing: "A referenced record does not exist.",

	ErrCourseCodeTaken:  "A course with this code already exists.",
	ErrCourseActive:     "Disable the course before deleting it.",
	ErrInvalidDateRange: "The end date cannot be earlier than the start date.",
	ErrCapacityTooLow:   "Capacity cannot be lower than the number of approved students.",
	ErrUsernameTaken:    "This username is already registered.",

	ErrAlreadyEnrolled:     "You already have an active enrollment in this class.",
	ErrInsufficientBalance: "Your balance is not enough to pay for this course.",
	ErrClassFull:           "The class has no free seats.",
	ErrClassCompleted:      "The class has already finished.",
	ErrCourseUnavailable:   "The course is not open for enrollment.",
	ErrEnrollmentClosed:    "A rejected enrollment cannot be reopened.",

	ErrFileRequired:    "A file is required.",
	ErrUnsupportedFile: "Only .xlsx spreadsheets are supported.",
	ErrFileTooLarge:    "The file exceeds the maximum upload size.",

	ErrRateLimitExceeded: "Too many requests. Please try again later.",

	ErrInternal: "An internal server error occurred.",
}

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}
