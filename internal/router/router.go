// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sparklewash/carwash-api/internal/auth"
	"github.com/sparklewash/carwash-api/internal/handler"
	"github.com/sparklewash/carwash-api/internal/middleware"
	"github.com/sparklewash/carwash-api/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Token-exchange operations live
// under /v1/auth and need no session; account operations live under /v1
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, issuer *auth.TokenIssuer) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/google", a.GoogleLogin)
	g.GET("/google/url", a.GoogleAuthURL)
	g.GET("/google/callback", a.GoogleCallback)
	// Refresh deliberately does not rotate: it only mints a new access token
	// and the presented refresh token stays valid until it expires or is
	// revoked through logout.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body and works without a JWT, so
	// a session can always be terminated even after the access token expired.
	g.POST("/logout", a.Logout)

	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(issuer))
	protected.Use(middleware.RequireRole(model.RoleCustomer, model.RoleManager, model.RoleAdmin))
	protected.GET("/me", a.Me)
	protected.POST("/logout-all", a.LogoutAll)
	protected.POST("/change-password", a.ChangePassword)
}
