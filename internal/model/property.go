package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON point as stored in the properties collection.
// Coordinates are ordered [longitude, latitude], which is what the
// 2dsphere index expects.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// Longitude returns the first coordinate, or 0 when the point is malformed.
func (g GeoPoint) Longitude() float64 {
	if len(g.Coordinates) == 2 {
		return g.Coordinates[0]
	}
	return 0
}

// Latitude returns the second coordinate, or 0 when the point is malformed.
func (g GeoPoint) Latitude() float64 {
	if len(g.Coordinates) == 2 {
		return g.Coordinates[1]
	}
	return 0
}

// Location groups the postal address of a property together with the
// geocoded point derived from it. The five text components come from the
// client; Geo is populated exclusively by the write pipeline and any
// client-supplied value is overwritten.
type Location struct {
	Address string   `bson:"address" json:"address"`
	City    string   `bson:"city" json:"city"`
	State   string   `bson:"state" json:"state"`
	Zip     string   `bson:"zip" json:"zip"`
	Country string   `bson:"country" json:"country"`
	Geo     GeoPoint `bson:"geo" json:"coordinates"`
}

// Property is a rentable listing stored in the properties collection.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Location     Location           `bson:"location" json:"location"`
	Price        float64            `bson:"price" json:"price"`
	Images       []string           `bson:"images" json:"images"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Rooms        int                `bson:"rooms" json:"rooms"`
	HostID       primitive.ObjectID `bson:"hostId" json:"hostId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// propertyTypes is the closed set of accepted propertyType values.
var propertyTypes = map[string]bool{
	"House":     true,
	"Apartment": true,
	"Cabin":     true,
	"Studio":    true,
	"Villa":     true,
	"Townhouse": true,
	"Condo":     true,
	"Loft":      true,
	"Mansion":   true,
	"Other":     true,
}

// ValidPropertyType reports whether t is one of the accepted property types.
func ValidPropertyType(t string) bool { return propertyTypes[t] }

// PropertyTypeList returns the accepted property types in stable order,
// used when composing validation messages.
func PropertyTypeList() []string {
	out := make([]string, 0, len(propertyTypes))
	for t := range propertyTypes {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ValidationError carries field-level schema violations detected before a
// property is persisted. Handlers surface Fields to the caller alongside a
// 400 status.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		parts = append(parts, f)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate checks the persisted-schema constraints: required text fields,
// a complete address, a finite geo point, non-negative price, enum
// membership and a positive room count. It returns a *ValidationError
// listing every violated field, or nil.
func (p *Property) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		fields["description"] = "description is required"
	}
	addr := map[string]string{
		"location.address": p.Location.Address,
		"location.city":    p.Location.City,
		"location.state":   p.Location.State,
		"location.zip":     p.Location.Zip,
		"location.country": p.Location.Country,
	}
	for name, v := range addr {
		if strings.TrimSpace(v) == "" {
			fields[name] = name + " is required"
		}
	}
	if len(p.Location.Geo.Coordinates) != 2 ||
		!isFinite(p.Location.Geo.Coordinates[0]) || !isFinite(p.Location.Geo.Coordinates[1]) {
		fields["location.geo"] = "geo point must be a [longitude, latitude] pair"
	}
	if p.Price < 0 {
		fields["price"] = "price must be >= 0"
	}
	if !ValidPropertyType(p.PropertyType) {
		fields["propertyType"] = fmt.Sprintf("propertyType must be one of: %s", strings.Join(PropertyTypeList(), ", "))
	}
	if p.Rooms < 1 {
		fields["rooms"] = "rooms must be >= 1"
	}
	if p.HostID.IsZero() {
		fields["hostId"] = "hostId is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
