package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/queue"
	"github.com/roamstay/property-rental/internal/repository"
	"github.com/roamstay/property-rental/internal/service"
)

// BookingHandler serves the reservation endpoints.
type BookingHandler struct {
	Service    *service.BookingService
	Bookings   *repository.BookingRepo
	Properties *repository.PropertyRepo
}

func NewBookingHandler(svc *service.BookingService, b *repository.BookingRepo, p *repository.PropertyRepo) *BookingHandler {
	return &BookingHandler{Service: svc, Bookings: b, Properties: p}
}

// Create handles POST /bookings. A successful create publishes a
// booking.created event; publish failures are logged and never fail the
// request.
func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Service.Create(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "All booking details are required."})
		case errors.Is(err, service.ErrInvalidRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must be after startDate."})
		case errors.Is(err, repository.ErrPropertyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		case errors.Is(err, service.ErrBookingConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Property is already booked for the selected dates."})
		default:
			c.Logger().Errorf("booking create failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	ev := queue.BookingCreatedEvent{
		BookingID:  b.ID.Hex(),
		PropertyID: b.PropertyID.Hex(),
		UserID:     b.UserID.Hex(),
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
	if p, err := h.Properties.GetByID(ctx, b.PropertyID); err == nil {
		ev.PropertyTitle = p.Title
	}
	if err := queue.PublishBookingCreated(ctx, ev); err != nil {
		c.Logger().Warnf("booking event publish failed: %v", err)
	}

	return c.JSON(http.StatusCreated, b)
}

// List handles GET /bookings.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("booking list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// ListByProperty handles GET /properties/:id/bookings.
func (h *BookingHandler) ListByProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid property ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Properties.Exists(ctx, id); err != nil {
		c.Logger().Errorf("property lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
	}

	bookings, err := h.Bookings.ListByProperty(ctx, id)
	if err != nil {
		c.Logger().Errorf("booking list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Delete handles DELETE /bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid booking ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Bookings.Delete(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}
	if err != nil {
		c.Logger().Errorf("booking delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
