package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/geocode"
	"github.com/roamstay/property-rental/internal/model"
	"github.com/roamstay/property-rental/internal/repository"
)

// fakeGeocoder counts calls and returns a fixed point or error.
type fakeGeocoder struct {
	calls int
	point geocode.Point
	err   error
}

func (g *fakeGeocoder) Resolve(ctx context.Context, loc model.Location) (geocode.Point, error) {
	g.calls++
	if g.err != nil {
		return geocode.Point{}, g.err
	}
	return g.point, nil
}

// fakePropertyStore keeps properties in a map.
type fakePropertyStore struct {
	byID    map[primitive.ObjectID]*model.Property
	inserts int
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{byID: map[primitive.ObjectID]*model.Property{}}
}

func (s *fakePropertyStore) Insert(ctx context.Context, p *model.Property) error {
	s.inserts++
	p.ID = primitive.NewObjectID()
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func (s *fakePropertyStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePropertyStore) Replace(ctx context.Context, p *model.Property) error {
	if _, ok := s.byID[p.ID]; !ok {
		return repository.ErrPropertyNotFound
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

func str(s string) *string    { return &s }
func fl(f float64) *float64   { return &f }
func in(i int) *int           { return &i }

func validInput() PropertyInput {
	return PropertyInput{
		Title:       str("Lakeside cabin"),
		Description: str("Quiet cabin by the lake"),
		Location: &LocationInput{
			Address: str("1 Shore Rd"),
			City:    str("Tahoe City"),
			State:   str("CA"),
			Zip:     str("96145"),
			Country: str("USA"),
		},
		Price:        fl(180),
		PropertyType: str("Cabin"),
		Rooms:        in(3),
	}
}

func TestCreateRequiresLocation(t *testing.T) {
	svc := NewPropertyService(newFakePropertyStore(), &fakeGeocoder{}, false)
	input := validInput()
	input.Location = nil

	_, err := svc.Create(context.Background(), input, primitive.NewObjectID())
	if !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("want ErrMissingLocation, got %v", err)
	}
}

func TestCreateGeocodeFailureAbortsWrite(t *testing.T) {
	store := newFakePropertyStore()
	geo := &fakeGeocoder{err: geocode.ErrNoResults}
	svc := NewPropertyService(store, geo, false)

	_, err := svc.Create(context.Background(), validInput(), primitive.NewObjectID())
	if !errors.Is(err, ErrGeocodingFailed) {
		t.Fatalf("want ErrGeocodingFailed, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatal("no write must happen when geocoding fails")
	}
}

func TestCreateBypassSubstitutesDefaultPoint(t *testing.T) {
	store := newFakePropertyStore()
	geo := &fakeGeocoder{err: geocode.ErrNoResults}
	svc := NewPropertyService(store, geo, true)

	p, err := svc.Create(context.Background(), validInput(), primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if geo.calls != 0 {
		t.Fatal("geocoder must not be invoked in bypass mode")
	}
	if p.Location.Geo.Longitude() != 0 || p.Location.Geo.Latitude() != 0 {
		t.Fatalf("bypass must attach (0,0), got %v", p.Location.Geo)
	}
	if len(p.Location.Geo.Coordinates) != 2 {
		t.Fatal("geo point must always be a coordinate pair")
	}
}

func TestCreateAttachesResolvedPointAndHost(t *testing.T) {
	store := newFakePropertyStore()
	geo := &fakeGeocoder{point: geocode.Point{Longitude: -120.14, Latitude: 39.17}}
	svc := NewPropertyService(store, geo, false)
	host := primitive.NewObjectID()

	p, err := svc.Create(context.Background(), validInput(), host)
	if err != nil {
		t.Fatal(err)
	}
	if p.Location.Geo.Longitude() != -120.14 || p.Location.Geo.Latitude() != 39.17 {
		t.Fatalf("got geo %v", p.Location.Geo)
	}
	if p.HostID != host {
		t.Fatalf("hostId must come from the caller identity, got %s", p.HostID.Hex())
	}
	if p.ID.IsZero() {
		t.Fatal("persisted property must have an id")
	}
}

func TestCreateValidationErrorDistinctFromGeocoding(t *testing.T) {
	store := newFakePropertyStore()
	svc := NewPropertyService(store, &fakeGeocoder{}, true)

	input := validInput()
	input.PropertyType = str("Castle") // not in the enum
	input.Rooms = in(0)

	_, err := svc.Create(context.Background(), input, primitive.NewObjectID())
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *model.ValidationError, got %v", err)
	}
	if errors.Is(err, ErrGeocodingFailed) {
		t.Fatal("validation failure must not be a geocoding failure")
	}
	if _, ok := verr.Fields["propertyType"]; !ok {
		t.Errorf("missing propertyType violation: %v", verr.Fields)
	}
	if _, ok := verr.Fields["rooms"]; !ok {
		t.Errorf("missing rooms violation: %v", verr.Fields)
	}
	if store.inserts != 0 {
		t.Fatal("invalid property must not be written")
	}
}

func seedProperty(t *testing.T, store *fakePropertyStore, svc *PropertyService) *model.Property {
	t.Helper()
	p, err := svc.Create(context.Background(), validInput(), primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUpdateWithoutAddressChangeSkipsGeocoder(t *testing.T) {
	store := newFakePropertyStore()
	geo := &fakeGeocoder{point: geocode.Point{Longitude: -120.14, Latitude: 39.17}}
	svc := NewPropertyService(store, geo, false)
	p := seedProperty(t, store, svc)
	callsAfterCreate := geo.calls

	updated, err := svc.Update(context.Background(), p.ID, PropertyInput{Price: fl(220)}, p.HostID)
	if err != nil {
		t.Fatal(err)
	}
	if geo.calls != callsAfterCreate {
		t.Fatal("geocoder must not run when no address field changed")
	}
	if updated.Price != 220 {
		t.Fatalf("price: got %v", updated.Price)
	}
	if updated.Location.Geo.Longitude() != p.Location.Geo.Longitude() ||
		updated.Location.Geo.Latitude() != p.Location.Geo.Latitude() {
		t.Fatalf("geo point must be unchanged, got %v", updated.Location.Geo)
	}
}

func TestUpdateSameAddressValuesSkipsGeocoder(t *testing.T) {
	store := newFakePropertyStore()
	geo := &fakeGeocoder{point: geocode.Point{Longitude: 1, Latitude: 2}}
	svc := NewPropertyService(store, geo, false)
	p := seedProperty(t, store, svc)
	callsAfterCreate := geo.calls

	// Same city as stored: present in the payload but not a change.
	_, err := svc.Update(context.Background(), p.ID, PropertyInput{
		Location: &LocationInput{City: str("Tahoe City")},
	}, p.HostID)
	if err != nil {
		t.Fatal(err)
	}
	if geo.calls != callsAfterCreate {
		t.Fatal("identical address values must not trigger geocoding")
	}
}

func TestUpdatePartialAddressMergesBeforeGeocoding(t *testing.T) {
	store := newFakePropertyStore()
	var seen model.Location
	geo := &recordingGeocoder{point: geocode.Point{Longitude: 5, Latitude: 6}, seen: &seen}
	svc := NewPropertyService(store, geo, false)
	p := seedProperty(t, store, svc)

	updated, err := svc.Update(context.Background(), p.ID, PropertyInput{
		Location: &LocationInput{City: str("South Lake Tahoe")},
	}, p.HostID)
	if err != nil {
		t.Fatal(err)
	}
	// The geocoding query must see the new city merged over the stored address.
	if seen.City != "South Lake Tahoe" || seen.Address != "1 Shore Rd" || seen.Country != "USA" {
		t.Fatalf("merged address not passed to geocoder: %+v", seen)
	}
	if updated.Location.Geo.Longitude() != 5 || updated.Location.Geo.Latitude() != 6 {
		t.Fatalf("new point not attached: %v", updated.Location.Geo)
	}
	if updated.Location.State != "CA" {
		t.Fatalf("unchanged address fields must persist: %+v", updated.Location)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := NewPropertyService(newFakePropertyStore(), &fakeGeocoder{}, true)
	_, err := svc.Update(context.Background(), primitive.NewObjectID(), PropertyInput{Price: fl(10)}, primitive.NilObjectID)
	if !errors.Is(err, repository.ErrPropertyNotFound) {
		t.Fatalf("want ErrPropertyNotFound, got %v", err)
	}
}

// recordingGeocoder captures the location it was asked to resolve.
type recordingGeocoder struct {
	point geocode.Point
	seen  *model.Location
}

func (g *recordingGeocoder) Resolve(ctx context.Context, loc model.Location) (geocode.Point, error) {
	*g.seen = loc
	return g.point, nil
}
