package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/model"
	"github.com/roamstay/property-rental/internal/repository"
)

// fakeBookingStore keeps bookings in memory and answers the overlap
// queries with the shared predicate.
type fakeBookingStore struct {
	bookings []model.Booking
}

func (s *fakeBookingStore) Insert(ctx context.Context, b *model.Booking) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *fakeBookingStore) HasOverlapping(ctx context.Context, propertyID primitive.ObjectID, start, end time.Time) (bool, error) {
	for _, b := range s.bookings {
		if b.PropertyID == propertyID && model.DateSpansOverlap(b.StartDate, b.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBookingStore) PropertyIDsBookedBetween(ctx context.Context, start, end time.Time) ([]primitive.ObjectID, error) {
	seen := map[primitive.ObjectID]struct{}{}
	var ids []primitive.ObjectID
	for _, b := range s.bookings {
		if model.DateSpansOverlap(b.StartDate, b.EndDate, start, end) {
			if _, ok := seen[b.PropertyID]; !ok {
				seen[b.PropertyID] = struct{}{}
				ids = append(ids, b.PropertyID)
			}
		}
	}
	return ids, nil
}

// idSet is a PropertyExistenceStore / UserExistenceStore over a fixed set of ids.
type idSet map[primitive.ObjectID]bool

func (s idSet) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s[id], nil
}

func newBookingFixture() (*BookingService, *fakeBookingStore, primitive.ObjectID, primitive.ObjectID) {
	store := &fakeBookingStore{}
	propertyID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	svc := NewBookingService(store, idSet{propertyID: true}, idSet{userID: true})
	return svc, store, propertyID, userID
}

func TestBookingCreateMissingFields(t *testing.T) {
	svc, store, propertyID, userID := newBookingFixture()
	cases := []BookingInput{
		{UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-05"},
		{PropertyID: propertyID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-05"},
		{PropertyID: propertyID.Hex(), UserID: userID.Hex(), EndDate: "2025-10-05"},
		{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-01"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Errorf("case %d: want ErrMissingFields, got %v", i, err)
		}
	}
	if len(store.bookings) != 0 {
		t.Fatal("no booking must be persisted")
	}
}

func TestBookingCreateUnknownReferences(t *testing.T) {
	svc, _, propertyID, userID := newBookingFixture()

	in := BookingInput{
		PropertyID: primitive.NewObjectID().Hex(),
		UserID:     userID.Hex(),
		StartDate:  "2025-10-01", EndDate: "2025-10-05",
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, repository.ErrPropertyNotFound) {
		t.Errorf("unknown property: want ErrPropertyNotFound, got %v", err)
	}

	in = BookingInput{
		PropertyID: propertyID.Hex(),
		UserID:     primitive.NewObjectID().Hex(),
		StartDate:  "2025-10-01", EndDate: "2025-10-05",
	}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("unknown user: want ErrUserNotFound, got %v", err)
	}

	// A malformed id can never reference an existing record.
	in = BookingInput{PropertyID: "not-an-id", UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-05"}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, repository.ErrPropertyNotFound) {
		t.Errorf("malformed property id: want ErrPropertyNotFound, got %v", err)
	}
}

func TestBookingCreateInvalidRange(t *testing.T) {
	svc, store, propertyID, userID := newBookingFixture()

	// endDate before startDate
	in := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-05", EndDate: "2025-10-01"}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("want ErrInvalidRange, got %v", err)
	}

	// zero-length window
	in = BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-01"}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("equal dates: want ErrInvalidRange, got %v", err)
	}

	// unparseable date
	in = BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "yesterday", EndDate: "2025-10-05"}
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("bad date: want ErrInvalidRange, got %v", err)
	}

	if len(store.bookings) != 0 {
		t.Fatal("no booking must be persisted")
	}
}

func TestBookingCreateOneNightWindow(t *testing.T) {
	svc, _, propertyID, userID := newBookingFixture()
	in := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-02"}
	b, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if b.ID.IsZero() || b.CreatedAt.IsZero() {
		t.Fatal("persisted booking must have id and timestamps")
	}
}

func TestBookingCreateConflict(t *testing.T) {
	svc, store, propertyID, userID := newBookingFixture()

	first := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-05"}
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	overlapping := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-03", EndDate: "2025-10-07"}
	if _, err := svc.Create(context.Background(), overlapping); !errors.Is(err, ErrBookingConflict) {
		t.Fatalf("want ErrBookingConflict, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("conflicting booking must not be persisted, have %d", len(store.bookings))
	}

	// Back-to-back is allowed: the interval is half-open.
	adjacent := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-05", EndDate: "2025-10-08"}
	if _, err := svc.Create(context.Background(), adjacent); err != nil {
		t.Fatalf("adjacent booking must succeed, got %v", err)
	}
}

func TestParseDateRange(t *testing.T) {
	if _, _, err := ParseDateRange("2025-10-03", "2025-10-04"); err != nil {
		t.Errorf("one-night window must be valid, got %v", err)
	}
	if _, _, err := ParseDateRange("2025-10-03", "2025-10-03"); !errors.Is(err, ErrInvalidDateRange) {
		t.Error("checkOut == checkIn must be rejected")
	}
	if _, _, err := ParseDateRange("2025-10-04", "2025-10-03"); !errors.Is(err, ErrInvalidDateRange) {
		t.Error("reversed window must be rejected")
	}
	if _, _, err := ParseDateRange("soon", "2025-10-03"); !errors.Is(err, ErrInvalidDateRange) {
		t.Error("unparseable checkIn must be rejected")
	}
}

func TestAvailabilityExclusionSet(t *testing.T) {
	svc, store, propertyID, userID := newBookingFixture()
	in := BookingInput{PropertyID: propertyID.Hex(), UserID: userID.Hex(), StartDate: "2025-10-01", EndDate: "2025-10-05"}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	inside, _ := ParseDate("2025-10-03")
	insideEnd, _ := ParseDate("2025-10-04")
	ids, err := store.PropertyIDsBookedBetween(context.Background(), inside, insideEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != propertyID {
		t.Fatalf("property must be excluded for an overlapping window, got %v", ids)
	}

	after, _ := ParseDate("2025-10-06")
	afterEnd, _ := ParseDate("2025-10-08")
	ids, err = store.PropertyIDsBookedBetween(context.Background(), after, afterEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("property must be available after the booking, got %v", ids)
	}
}
