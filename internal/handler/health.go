// Package handler contains the HTTP endpoints. Handlers translate request
// payloads into service and repository calls and map domain errors onto
// status codes; the business rules themselves live in internal/service.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness. It intentionally touches no backing
// store so a degraded database never flaps the load balancer.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
