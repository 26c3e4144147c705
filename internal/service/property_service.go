// Package service implements the business rules between the HTTP handlers
// and the repositories: the listing write pipeline, the booking conflict
// check and the availability window parsing. Services depend on small
// store interfaces so tests can exercise the rules against in-memory
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/geocode"
	"github.com/roamstay/property-rental/internal/model"
)

var (
	// ErrMissingLocation is returned when a create request has no location object.
	ErrMissingLocation = errors.New("location data is required")

	// ErrGeocodingFailed wraps every geocoder outcome the pipeline aborts
	// on. The underlying cause stays attached for server-side logging but
	// callers only see the umbrella error.
	ErrGeocodingFailed = errors.New("could not determine coordinates for the provided address")
)

// PropertyStore is the subset of the property repository the write
// pipeline needs.
type PropertyStore interface {
	Insert(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error)
	Replace(ctx context.Context, p *model.Property) error
}

// PropertyService is the listing write pipeline: it geocodes addresses,
// attributes ownership and validates listings before they are persisted.
// When bypass is set the geocoder is never invoked and the fixed default
// point (0, 0) is attached instead; the flag is wired from configuration
// by the constructor caller and nothing else can enable it.
type PropertyService struct {
	store  PropertyStore
	geo    geocode.Resolver
	bypass bool
}

func NewPropertyService(store PropertyStore, geo geocode.Resolver, bypass bool) *PropertyService {
	return &PropertyService{store: store, geo: geo, bypass: bypass}
}

// LocationInput is the client-supplied address. Pointer fields distinguish
// "absent" from "set to empty" in partial updates. Any client-supplied
// coordinates are ignored; the pipeline is the only writer of the geo point.
type LocationInput struct {
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Country *string `json:"country"`
}

// PropertyInput carries the client-supplied listing fields for create and
// update. Absent fields are nil and leave the stored value untouched on
// update.
type PropertyInput struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Location     *LocationInput `json:"location"`
	Price        *float64       `json:"price"`
	Images       []string       `json:"images"`
	Amenities    []string       `json:"amenities"`
	PropertyType *string        `json:"propertyType"`
	Rooms        *int           `json:"rooms"`
}

// Create runs the full write pipeline: require a location, resolve it to a
// point (or substitute the default in bypass mode), attribute the host,
// validate the assembled listing and persist it. Nothing is written when
// any step fails.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput, hostID primitive.ObjectID) (*model.Property, error) {
	if in.Location == nil {
		return nil, ErrMissingLocation
	}

	loc := model.Location{
		Address: deref(in.Location.Address),
		City:    deref(in.Location.City),
		State:   deref(in.Location.State),
		Zip:     deref(in.Location.Zip),
		Country: deref(in.Location.Country),
	}
	pt, err := s.resolvePoint(ctx, loc)
	if err != nil {
		return nil, err
	}
	loc.Geo = model.NewGeoPoint(pt.Longitude, pt.Latitude)

	p := &model.Property{
		Title:        deref(in.Title),
		Description:  deref(in.Description),
		Location:     loc,
		Price:        derefFloat(in.Price),
		Images:       orEmpty(in.Images),
		Amenities:    orEmpty(in.Amenities),
		PropertyType: deref(in.PropertyType),
		Rooms:        derefInt(in.Rooms),
		HostID:       hostID,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update loads the stored listing, re-geocodes only when an address
// component actually changed, applies the partial input and persists the
// result. A partial address update is merged over the stored address
// before geocoding so the composite query stays complete.
func (s *PropertyService) Update(ctx context.Context, id primitive.ObjectID, in PropertyInput, hostID primitive.ObjectID) (*model.Property, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Location != nil && addressChanged(p.Location, *in.Location) {
		merged := mergeLocation(p.Location, *in.Location)
		pt, err := s.resolvePoint(ctx, merged)
		if err != nil {
			return nil, err
		}
		merged.Geo = model.NewGeoPoint(pt.Longitude, pt.Latitude)
		p.Location = merged
	} else if in.Location != nil {
		// Fields present but identical to stored values: keep the existing
		// point, skip the lookup.
		kept := p.Location.Geo
		p.Location = mergeLocation(p.Location, *in.Location)
		p.Location.Geo = kept
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Amenities != nil {
		p.Amenities = in.Amenities
	}
	if in.PropertyType != nil {
		p.PropertyType = *in.PropertyType
	}
	if in.Rooms != nil {
		p.Rooms = *in.Rooms
	}
	if !hostID.IsZero() {
		p.HostID = hostID
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolvePoint is the single geocode-or-bypass-or-fail branch shared by
// create and update. The branch is decided by configuration alone, never
// by the kind of geocoder error.
func (s *PropertyService) resolvePoint(ctx context.Context, loc model.Location) (geocode.Point, error) {
	if s.bypass {
		return geocode.Point{}, nil
	}
	pt, err := s.geo.Resolve(ctx, loc)
	if err != nil {
		return geocode.Point{}, fmt.Errorf("%w: %v", ErrGeocodingFailed, err)
	}
	return pt, nil
}

// addressChanged reports whether any address component present in the
// update payload differs from the stored value. Absent fields are not
// compared.
func addressChanged(stored model.Location, in LocationInput) bool {
	for _, pair := range []struct {
		in     *string
		stored string
	}{
		{in.Address, stored.Address},
		{in.City, stored.City},
		{in.State, stored.State},
		{in.Zip, stored.Zip},
		{in.Country, stored.Country},
	} {
		if pair.in != nil && *pair.in != pair.stored {
			return true
		}
	}
	return false
}

// mergeLocation overlays the present fields of in over the stored address.
func mergeLocation(stored model.Location, in LocationInput) model.Location {
	out := stored
	if in.Address != nil {
		out.Address = *in.Address
	}
	if in.City != nil {
		out.City = *in.City
	}
	if in.State != nil {
		out.State = *in.State
	}
	if in.Zip != nil {
		out.Zip = *in.Zip
	}
	if in.Country != nil {
		out.Country = *in.Country
	}
	return out
}

func deref(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

func derefFloat(f *float64) float64 {
	if f != nil {
		return *f
	}
	return 0
}

func derefInt(i *int) int {
	if i != nil {
		return *i
	}
	return 0
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
