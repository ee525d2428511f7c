package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparklewash/carwash-api/internal/auth"
	"github.com/sparklewash/carwash-api/pkg/apperrors"
)

const oauthStateCookie = "g_oauth_state"

// AuthHandler is the thin HTTP surface over the auth service. All business
// rules live in the service; handlers only bind, delegate and translate
// error codes into HTTP statuses.
type AuthHandler struct {
	Svc  *auth.Service
	Flow *auth.GoogleCodeFlow // nil when Google sign-in is not configured
}

func NewAuthHandler(svc *auth.Service, flow *auth.GoogleCodeFlow) *AuthHandler {
	return &AuthHandler{Svc: svc, Flow: flow}
}

// ----- DTOs -----

type registerReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"` // CUSTOMER | MANAGER
}
type loginReq struct {
	Identifier string `json:"identifier"` // email or phone
	Password   string `json:"password"`
}
type googleReq struct {
	IDToken string `json:"id_token"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register creates a password account and returns the public user view.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperrors.InvalidArg("invalid body"))
	}
	view, err := h.Svc.Register(c.Request().Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": view})
}

// Login authenticates by email or phone and returns a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperrors.InvalidArg("invalid body"))
	}
	sess, err := h.Svc.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// GoogleLogin accepts a raw Google ID token (the One Tap / GIS flow posts it
// directly) and returns a session.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		return errJSON(c, apperrors.InvalidArg("id_token required"))
	}
	sess, err := h.Svc.GoogleLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// GoogleAuthURL starts the redirect flow: it hands back the consent URL and
// parks the CSRF state in a short-lived HttpOnly cookie.
func (h *AuthHandler) GoogleAuthURL(c echo.Context) error {
	if h.Flow == nil {
		return errJSON(c, apperrors.ErrGoogleNotEnabled)
	}
	url, state, err := h.Flow.AuthURL()
	if err != nil {
		return errJSON(c, apperrors.Internal("could not start google sign-in"))
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/v1/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// GoogleCallback finishes the redirect flow: state check, code exchange, then
// the exchanged id_token goes through the same verification path as a posted
// assertion.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.Flow == nil {
		return errJSON(c, apperrors.ErrGoogleNotEnabled)
	}
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		return errJSON(c, apperrors.ErrInvalidCredentials)
	}
	idToken, err := h.Flow.ExchangeIDToken(c.Request().Context(), code)
	if err != nil {
		return errJSON(c, apperrors.ErrInvalidCredentials)
	}
	sess, err := h.Svc.GoogleLogin(c.Request().Context(), idToken)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// Refresh returns a fresh access token for a live refresh token. The refresh
// token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	res, err := h.Svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Logout revokes the session behind the supplied refresh token. Always 204:
// revoking an unknown or already-revoked token is a no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	if err := h.Svc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return errJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return errJSON(c, apperrors.Unauthorized("unauthorized"))
	}
	if err := h.Svc.LogoutAll(c.Request().Context(), uid); err != nil {
		return errJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword updates the authenticated user's password. Google-only
// accounts set their first password here; no current password is required
// for them.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return errJSON(c, apperrors.Unauthorized("unauthorized"))
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperrors.InvalidArg("invalid body"))
	}
	if err := h.Svc.ChangePassword(c.Request().Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "password updated"})
}

// Me returns the authenticated user's public view.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return errJSON(c, apperrors.Unauthorized("unauthorized"))
	}
	view, err := h.Svc.GetUser(c.Request().Context(), uid)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": view})
}

// errJSON maps an error's code to an HTTP status and writes the stable
// code/message pair. Internal causes never reach the response body.
func errJSON(c echo.Context, err error) error {
	code := apperrors.CodeOf(err)
	msg := "internal error"
	var ae *apperrors.AppError
	if errors.As(err, &ae) && code != apperrors.CodeInternal && code != apperrors.CodeUnknown {
		msg = ae.Message
	}
	return c.JSON(statusOf(code), echo.Map{"code": code, "error": msg})
}

func statusOf(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeAlreadyExists:
		return http.StatusConflict
	case apperrors.CodeUnauthenticated,
		apperrors.CodeTokenInvalid,
		apperrors.CodeTokenRevoked,
		apperrors.CodeTokenExpired:
		return http.StatusUnauthorized
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
