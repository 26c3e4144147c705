package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking reserves a property for a half-open date interval
// [StartDate, EndDate). Bookings are immutable once created.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"property" json:"propertyId"`
	UserID     primitive.ObjectID `bson:"user" json:"userId"`
	StartDate  time.Time          `bson:"startDate" json:"startDate"`
	EndDate    time.Time          `bson:"endDate" json:"endDate"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DateSpansOverlap is the reference overlap predicate for two half-open
// intervals [aStart, aEnd) and [bStart, bEnd): they overlap iff
// aStart < bEnd and bStart < aEnd, so a booking that ends exactly on
// another's start date does not collide. The availability exclusion and
// booking conflict queries in the repository mirror this predicate in bson;
// tests assert their behaviour against this function.
func DateSpansOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
