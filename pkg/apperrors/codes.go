package apperrors

// Code is a stable machine-readable error kind. Handlers map codes to HTTP
// statuses; clients switch on codes, never on message text.
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeNotConfigured   Code = "NOT_CONFIGURED"
	CodeTokenInvalid    Code = "TOKEN_INVALID"
	CodeTokenRevoked    Code = "TOKEN_REVOKED"
	CodeTokenExpired    Code = "TOKEN_EXPIRED"
	CodeInternal        Code = "INTERNAL"
)
