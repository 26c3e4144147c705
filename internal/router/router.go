// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstay/property-rental/internal/handler"
	"github.com/roamstay/property-rental/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication. Currently
// it exposes only a health check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Signup, login,
// refresh and logout live under /auth without middleware; /auth/me requires
// a valid access token. Logout also works behind JWTAuth so a client can
// revoke every session without presenting a refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	protected := e.Group("/auth")
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.GET("/me", a.Me)
	protected.POST("/logout-all", a.Logout)
}

// RegisterProperties registers the listing endpoints. Reads are public and
// go through the response cache; mutations require an authenticated host.
func RegisterProperties(e *echo.Echo, p *handler.PropertyHandler, b *handler.BookingHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/properties", p.Search, cache)
	e.GET("/properties/:id", p.GetByID, cache)
	e.GET("/properties/:id/bookings", b.ListByProperty, cache)

	host := e.Group("/properties")
	host.Use(middleware.JWTAuth(jwtSecret))
	host.Use(middleware.RequireHost())
	host.POST("", p.Create)
	host.PUT("/:id", p.Update)
	host.DELETE("/:id", p.Delete)
}

// RegisterBookings registers the reservation endpoints, all of which
// require an authenticated user.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", b.Create)
	g.GET("", b.List)
	g.DELETE("/:id", b.Delete)
}
