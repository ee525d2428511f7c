package apperrors

// Auth domain errors. ErrInvalidCredentials deliberately covers a missing
// account, a wrong password and a rejected Google assertion so responses do
// not reveal whether an email is registered.
var (
	ErrAccountExists      = AlreadyExists("account already exists")
	ErrInvalidCredentials = Unauthorized("invalid credentials")
	ErrGoogleNotEnabled   = New(CodeNotConfigured, "google sign-in is not configured")
	ErrEmailMissing       = InvalidArg("google account has no email")
	ErrRefreshRequired    = Unauthorized("refresh token required")
	ErrTokenUnknown       = New(CodeTokenInvalid, "unknown refresh token")
	ErrTokenRevoked       = New(CodeTokenRevoked, "refresh token revoked")
	ErrTokenExpired       = New(CodeTokenExpired, "refresh token expired")
	ErrUserNotFound       = NotFound("user not found")
)

func ErrStore(cause error) error {
	return Wrap(CodeInternal, "storage failure", cause)
}
