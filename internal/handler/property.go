package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/model"
	"github.com/roamstay/property-rental/internal/repository"
	"github.com/roamstay/property-rental/internal/service"
)

// bookingExcluder computes the set of property ids with a booking
// overlapping a date window. Satisfied by repository.BookingRepo.
type bookingExcluder interface {
	PropertyIDsBookedBetween(ctx context.Context, start, end time.Time) ([]primitive.ObjectID, error)
}

// PropertyHandler serves the listing endpoints: the write pipeline through
// PropertyService, reads and search straight from the repositories.
type PropertyHandler struct {
	Service            *service.PropertyService
	Properties         *repository.PropertyRepo
	Bookings           bookingExcluder
	DefaultRadiusMiles float64
}

func NewPropertyHandler(svc *service.PropertyService, p *repository.PropertyRepo, b *repository.BookingRepo, defaultRadiusMiles float64) *PropertyHandler {
	return &PropertyHandler{Service: svc, Properties: p, Bookings: b, DefaultRadiusMiles: defaultRadiusMiles}
}

// Create handles POST /properties. The authenticated user becomes the host.
func (h *PropertyHandler) Create(c echo.Context) error {
	var in service.PropertyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hostID, err := currentUserObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	p, err := h.Service.Create(ctx, in, hostID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /properties/:id with a partial payload.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid property ID format"})
	}
	var in service.PropertyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hostID, err := currentUserObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	p, err := h.Service.Update(ctx, id, in, hostID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// writeError maps write-pipeline failures onto status codes. Geocoder
// causes are logged server-side; the caller only sees the generic message.
func (h *PropertyHandler) writeError(c echo.Context, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, service.ErrMissingLocation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Location data is required."})
	case errors.Is(err, service.ErrGeocodingFailed):
		c.Logger().Warnf("geocoding failed: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Could not determine coordinates for the provided address."})
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation failed.", "fields": verr.Fields})
	case errors.Is(err, repository.ErrPropertyNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
	default:
		c.Logger().Errorf("property write failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// GetByID handles GET /properties/:id.
func (h *PropertyHandler) GetByID(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid property ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
	}
	if err != nil {
		c.Logger().Errorf("property load failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /properties/:id. Bookings referencing the property
// are left in place.
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid property ID format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Properties.Delete(ctx, id)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
	}
	if err != nil {
		c.Logger().Errorf("property delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Search handles GET /properties. Every filter is optional; malformed
// numeric parameters silently drop the filter they belong to, while an
// invalid date window is the one case that rejects the request.
func (h *PropertyHandler) Search(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	q, err := h.buildSearch(ctx, c)
	if errors.Is(err, service.ErrInvalidDateRange) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid check-in or check-out dates provided."})
	}
	if err != nil {
		c.Logger().Errorf("search exclusion query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	results, err := h.Properties.Search(ctx, q)
	if err != nil {
		c.Logger().Errorf("property search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, results)
}

// buildSearch assembles the repository query from the raw query string.
func (h *PropertyHandler) buildSearch(ctx context.Context, c echo.Context) (repository.PropertySearch, error) {
	var q repository.PropertySearch

	checkIn := c.QueryParam("checkIn")
	checkOut := c.QueryParam("checkOut")
	// Date filtering applies only when both bounds are supplied; a single
	// bound is ignored rather than treated as open-ended.
	if checkIn != "" && checkOut != "" {
		start, end, err := service.ParseDateRange(checkIn, checkOut)
		if err != nil {
			return q, err
		}
		ids, err := h.Bookings.PropertyIDsBookedBetween(ctx, start, end)
		if err != nil {
			return q, err
		}
		q.ExcludeIDs = ids
	}

	latStr, lonStr := c.QueryParam("latitude"), c.QueryParam("longitude")
	if latStr != "" && lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		// The default radius covers only an absent parameter; a radius that
		// is supplied but malformed or non-positive drops the whole geo
		// filter, like every other malformed numeric input here.
		radius := h.DefaultRadiusMiles
		radiusOK := true
		if s := c.QueryParam("radius"); s != "" {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil || r <= 0 {
				radiusOK = false
			} else {
				radius = r
			}
		}
		if errLat == nil && errLon == nil && radiusOK {
			q.Near = &repository.NearFilter{
				Longitude:         lon,
				Latitude:          lat,
				MaxDistanceMeters: radius * repository.MetersPerMile,
			}
		}
	}

	var minPrice *float64
	if v, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil && v >= 0 {
		minPrice = &v
		q.MinPrice = minPrice
	}
	// Unlike minPrice, maxPrice carries no sign check: any parsable ceiling
	// applies, so a negative one simply matches nothing.
	if v, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		if minPrice != nil && v < *minPrice {
			c.Logger().Warnf("search: maxPrice %v below minPrice %v, dropping maxPrice", v, *minPrice)
		} else {
			q.MaxPrice = &v
		}
	}

	q.PropertyType = c.QueryParam("propertyType")
	return q, nil
}
