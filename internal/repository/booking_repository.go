package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roamstay/property-rental/internal/model"
)

// BookingRepo persists reservations and answers the two date-overlap
// queries the rest of the system is built on. Both encode the same
// half-open predicate as model.DateSpansOverlap: a stored booking overlaps
// [start, end) iff startDate < end AND endDate > start.
type BookingRepo struct {
	col *mongo.Collection
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{col: db.Collection("bookings")}
}

// Insert persists a new booking, assigning its id and timestamps.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

// ListAll returns every booking in creation order.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, bson.M{})
}

// ListByProperty returns all bookings for one property.
func (r *BookingRepo) ListByProperty(ctx context.Context, propertyID primitive.ObjectID) ([]model.Booking, error) {
	return r.list(ctx, bson.M{"property": propertyID})
}

func (r *BookingRepo) list(ctx context.Context, filter bson.M) ([]model.Booking, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Booking, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a booking, mapping a missing id to ErrBookingNotFound.
func (r *BookingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// PropertyIDsBookedBetween returns the deduplicated set of property ids
// that have at least one booking overlapping the half-open window
// [start, end). An empty result is not an error.
func (r *BookingRepo) PropertyIDsBookedBetween(ctx context.Context, start, end time.Time) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"startDate": bson.M{"$lt": end},
		"endDate":   bson.M{"$gt": start},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"property": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for cur.Next(ctx) {
		var doc struct {
			PropertyID primitive.ObjectID `bson:"property"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		if _, ok := seen[doc.PropertyID]; !ok {
			seen[doc.PropertyID] = struct{}{}
			ids = append(ids, doc.PropertyID)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// HasOverlapping reports whether any booking for the property overlaps the
// half-open window [start, end). The check-then-insert sequence around
// this probe is not transactionally isolated; two concurrent requests can
// both see no overlap before either writes.
func (r *BookingRepo) HasOverlapping(ctx context.Context, propertyID primitive.ObjectID, start, end time.Time) (bool, error) {
	filter := bson.M{
		"property":  propertyID,
		"startDate": bson.M{"$lt": end},
		"endDate":   bson.M{"$gt": start},
	}
	err := r.col.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
