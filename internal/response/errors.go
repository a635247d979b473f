package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Course / import-specific ──────────────────────────────────────
	ErrCourseLimitReached ErrCode = "COURSE_LIMIT_REACHED"
	ErrDuplicateCourse    ErrCode = "DUPLICATE_COURSE"
	ErrInvalidSheet       ErrCode = "INVALID_SHEET"
	ErrScheduleInvalid    ErrCode = "SCHEDULE_INVALID"
	ErrScheduleConflict   ErrCode = "SCHEDULE_CONFLICT"
	ErrWizardNotFound     ErrCode = "WIZARD_NOT_FOUND"
	ErrWizardStep         ErrCode = "WIZARD_STEP_UNAVAILABLE"
	ErrImportExpired      ErrCode = "IMPORT_EXPIRED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionActive:
		return "You are already signed in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please sign in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Course / import-specific ──────────────────────────────────────
	case ErrCourseLimitReached:
		return "You have reached the maximum number of active courses."
	case ErrDuplicateCourse:
		return "A course with the same code, section, year and semester already exists."
	case ErrInvalidSheet:
		return "The uploaded spreadsheet could not be read."
	case ErrScheduleInvalid:
		return "The schedule entries are invalid."
	case ErrScheduleConflict:
		return "The schedule collides with another course."
	case ErrWizardNotFound:
		return "The schedule wizard session was not found or has expired."
	case ErrWizardStep:
		return "This action is not available at the current wizard step."
	case ErrImportExpired:
		return "The pending import has expired. Please upload the sheet again."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
