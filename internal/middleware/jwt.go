package middleware // reusable HTTP middleware shared by protected routes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sparklewash/carwash-api/internal/auth"
)

// JWTAuth validates the Bearer access token with the issuer and injects the
// caller's identity into the echo context under "user_id" (uint64), "email",
// "role" and, when present, "company_id" (uint64). An expired token gets a
// distinct code so clients know to hit /v1/auth/refresh instead of
// re-authenticating.
func JWTAuth(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"code": "UNAUTHENTICATED", "error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				if errors.Is(err, auth.ErrAccessTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"code": "TOKEN_EXPIRED", "error": "access token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"code": "UNAUTHENTICATED", "error": "invalid token"})
			}

			uid, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"code": "UNAUTHENTICATED", "error": "invalid token"})
			}

			c.Set("user_id", uid)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			if claims.CompanyID != nil {
				c.Set("company_id", *claims.CompanyID)
			}
			return next(c)
		}
	}
}
