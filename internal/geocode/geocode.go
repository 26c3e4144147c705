// Package geocode resolves structured postal addresses into geographic
// points via a Nominatim-compatible lookup service. The adapter performs a
// single request for the top match and never retries; a failed lookup is
// terminal for the write that triggered it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/roamstay/property-rental/internal/model"
)

// The caller must distinguish these outcomes for logging, but the write
// pipeline collapses all of them into a single geocoding-failed error.
var (
	ErrInsufficientAddress = errors.New("geocode: insufficient address details")
	ErrLookupFailed        = errors.New("geocode: lookup request failed")
	ErrNoResults           = errors.New("geocode: no results for address")
	ErrBadCoordinates      = errors.New("geocode: result coordinates are not finite numbers")
)

// Point is a resolved coordinate pair in geodetic longitude/latitude.
type Point struct {
	Longitude float64
	Latitude  float64
}

// Resolver is the lookup contract the write pipeline depends on.
type Resolver interface {
	Resolve(ctx context.Context, loc model.Location) (Point, error)
}

// Client resolves addresses against a Nominatim search endpoint.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// NewClient returns a Client for the given endpoint. Nominatim's usage
// policy requires an identifying User-Agent on every request.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// QueryString concatenates the non-empty address components with ", "
// separators. An empty result means there is nothing worth sending to the
// lookup service.
func QueryString(loc model.Location) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{loc.Address, loc.City, loc.State, loc.Zip, loc.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve performs a single lookup capped at one result and returns the top
// match as a numeric coordinate pair. It fails without a network call when
// the address components are all empty.
func (c *Client) Resolve(ctx context.Context, loc model.Location) (Point, error) {
	q := QueryString(loc)
	if !searchable(q) {
		return Point{}, ErrInsufficientAddress
	}

	u := c.BaseURL + "?format=json&q=" + url.QueryEscape(q) + "&limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if len(results) == 0 {
		return Point{}, ErrNoResults
	}

	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	if lonErr != nil || latErr != nil || !finite(lon) || !finite(lat) {
		return Point{}, ErrBadCoordinates
	}
	return Point{Longitude: lon, Latitude: lat}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// searchable reports whether the query holds at least one letter or digit.
// A query of bare punctuation would only waste a lookup request.
func searchable(q string) bool {
	for _, r := range q {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
