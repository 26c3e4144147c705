package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roamstay/property-rental/internal/model"
)

// PropertyRepo provides CRUD and search over the properties collection.
type PropertyRepo struct {
	col *mongo.Collection
}

// NewPropertyRepo returns a PropertyRepo bound to the given database.
func NewPropertyRepo(db *mongo.Database) *PropertyRepo {
	return &PropertyRepo{col: db.Collection("properties")}
}

// Insert persists a new property, assigning its id and timestamps.
func (r *PropertyRepo) Insert(ctx context.Context, p *model.Property) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// GetByID loads one property, mapping a missing document to ErrPropertyNotFound.
func (r *PropertyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error) {
	var p model.Property
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Replace overwrites the stored document for p.ID and bumps UpdatedAt.
func (r *PropertyRepo) Replace(ctx context.Context, p *model.Property) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Delete removes a property. Dependent bookings are left untouched.
func (r *PropertyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

// Exists reports whether a property with the given id is stored.
func (r *PropertyRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search runs the composed filter query. Result order is store-determined:
// nearest first when a geo constraint is present, natural order otherwise.
func (r *PropertyRepo) Search(ctx context.Context, q PropertySearch) ([]model.Property, error) {
	cur, err := r.col.Find(ctx, q.BuildFilter())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]model.Property, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
