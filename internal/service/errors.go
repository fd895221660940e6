package service

type ErrorCode string

const (
	ErrorCodeOrgExists        ErrorCode = "ORG_EXISTS"
	ErrorCodeTeamExists       ErrorCode = "TEAM_EXISTS"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrorCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrorCodeUnknownMetric    ErrorCode = "UNKNOWN_METRIC"
	ErrorCodeValueOutOfRange  ErrorCode = "VALUE_OUT_OF_RANGE"
	ErrorCodeInviteExpired    ErrorCode = "INVITE_EXPIRED"
	ErrorCodeInviteRedeemed   ErrorCode = "INVITE_REDEEMED"
	ErrorCodeAthleteInactive  ErrorCode = "ATHLETE_INACTIVE"
	ErrorCodeUploadTooLarge   ErrorCode = "UPLOAD_TOO_LARGE"
	ErrorCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA"
	ErrorCodeUnspecified      ErrorCode = "UNSPECIFIED"
)

// Error carries a machine-readable code; Field is set when the failure
// belongs to one form field (e.g. a duplicate team name) so clients can
// attach it to the input instead of a generic toast.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func NewServiceError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewFieldError(code ErrorCode, field, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

func (e *Error) Error() string {
	return e.Message
}
