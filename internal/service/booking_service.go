package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roamstay/property-rental/internal/model"
	"github.com/roamstay/property-rental/internal/repository"
)

var (
	// ErrMissingFields is returned when any of the four booking fields is absent.
	ErrMissingFields = errors.New("all booking details are required")

	// ErrInvalidRange is returned when the dates do not parse or endDate <= startDate.
	ErrInvalidRange = errors.New("endDate must be after startDate")

	// ErrBookingConflict signals an overlap with an existing booking. It is
	// distinct from the validation errors: the input was legitimate but the
	// dates were claimed concurrently or earlier.
	ErrBookingConflict = errors.New("dates overlap an existing booking")
)

// BookingStore is the subset of the booking repository the conflict check needs.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	HasOverlapping(ctx context.Context, propertyID primitive.ObjectID, start, end time.Time) (bool, error)
	PropertyIDsBookedBetween(ctx context.Context, start, end time.Time) ([]primitive.ObjectID, error)
}

// PropertyExistenceStore answers whether a referenced listing exists.
type PropertyExistenceStore interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// UserExistenceStore answers whether a referenced user exists.
type UserExistenceStore interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// BookingService validates and persists reservations. The overlap probe
// and the insert are two separate store calls, so two concurrent requests
// for overlapping windows can both pass the check before either writes;
// this matches the behaviour of the system it replaces and is accepted
// here rather than closed with a transaction.
type BookingService struct {
	bookings   BookingStore
	properties PropertyExistenceStore
	users      UserExistenceStore
}

func NewBookingService(bookings BookingStore, properties PropertyExistenceStore, users UserExistenceStore) *BookingService {
	return &BookingService{bookings: bookings, properties: properties, users: users}
}

// BookingInput is the raw request body for a booking create.
type BookingInput struct {
	PropertyID string `json:"propertyId"`
	UserID     string `json:"userId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// Create validates the input, verifies both references, rejects
// non-chronological windows and overlapping reservations, and persists the
// booking. The overlap test is the same half-open predicate the search
// availability filter uses.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*model.Booking, error) {
	if strings.TrimSpace(in.PropertyID) == "" || strings.TrimSpace(in.UserID) == "" ||
		strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return nil, ErrMissingFields
	}

	propertyID, err := primitive.ObjectIDFromHex(in.PropertyID)
	if err != nil {
		return nil, repository.ErrPropertyNotFound
	}
	userID, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	if ok, err := s.properties.Exists(ctx, propertyID); err != nil {
		return nil, err
	} else if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	if ok, err := s.users.Exists(ctx, userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, repository.ErrUserNotFound
	}

	start, errStart := ParseDate(in.StartDate)
	end, errEnd := ParseDate(in.EndDate)
	if errStart != nil || errEnd != nil || !end.After(start) {
		return nil, ErrInvalidRange
	}

	overlap, err := s.bookings.HasOverlapping(ctx, propertyID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrBookingConflict
	}

	b := &model.Booking{
		PropertyID: propertyID,
		UserID:     userID,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
