package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireHost aborts the request with 403 Forbidden unless the
// authenticated user carries the host flag. It assumes JWTAuth has already
// stored the claim under "host".
func RequireHost() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			host, ok := c.Get("host").(bool)
			if !ok || !host {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "host account required"})
			}
			return next(c)
		}
	}
}
