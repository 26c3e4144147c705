package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validProperty() Property {
	return Property{
		Title:       "Lakeside cabin",
		Description: "Quiet cabin by the lake",
		Location: Location{
			Address: "1 Shore Rd",
			City:    "Tahoe City",
			State:   "CA",
			Zip:     "96145",
			Country: "USA",
			Geo:     NewGeoPoint(-120.14, 39.17),
		},
		Price:        180,
		PropertyType: "Cabin",
		Rooms:        3,
		HostID:       primitive.NewObjectID(),
	}
}

func TestValidateAcceptsCompleteProperty(t *testing.T) {
	p := validProperty()
	if err := p.Validate(); err != nil {
		t.Fatalf("valid property rejected: %v", err)
	}

	// Zero price is legal, negative is not.
	p.Price = 0
	if err := p.Validate(); err != nil {
		t.Fatalf("free listing rejected: %v", err)
	}
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	p := Property{
		Location: Location{
			Geo: GeoPoint{Type: "Point", Coordinates: []float64{math.NaN(), 0}},
		},
		Price:        -1,
		PropertyType: "Castle",
	}
	err := p.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	for _, f := range []string{
		"title", "description",
		"location.address", "location.city", "location.state", "location.zip", "location.country",
		"location.geo", "price", "propertyType", "rooms", "hostId",
	} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing violation for %q: %v", f, verr.Fields)
		}
	}
}

func TestValidateGeoPointShape(t *testing.T) {
	p := validProperty()
	p.Location.Geo = GeoPoint{Type: "Point", Coordinates: []float64{-120.14}}
	err := p.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["location.geo"]; !ok {
		t.Fatalf("single-coordinate point must be rejected: %v", verr.Fields)
	}

	p.Location.Geo = NewGeoPoint(math.Inf(1), 0)
	if err := p.Validate(); err == nil {
		t.Fatal("infinite longitude must be rejected")
	}
}

func TestValidPropertyType(t *testing.T) {
	for _, typ := range PropertyTypeList() {
		if !ValidPropertyType(typ) {
			t.Errorf("%q must be accepted", typ)
		}
	}
	for _, typ := range []string{"", "cabin", "Castle", "Any"} {
		if ValidPropertyType(typ) {
			t.Errorf("%q must be rejected", typ)
		}
	}
}

func TestDateSpansOverlap(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.October, d, 0, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name                   string
		aStart, aEnd           int
		bStart, bEnd           int
		want                   bool
	}{
		{"identical", 1, 5, 1, 5, true},
		{"contained", 1, 10, 3, 5, true},
		{"partial front", 1, 5, 3, 8, true},
		{"partial back", 3, 8, 1, 5, true},
		{"disjoint", 1, 3, 5, 8, false},
		{"touching, a before b", 1, 5, 5, 8, false},
		{"touching, b before a", 5, 8, 1, 5, false},
	}
	for _, tc := range cases {
		got := DateSpansOverlap(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
		if got != tc.want {
			t.Errorf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}
