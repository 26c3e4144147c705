package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetersPerMile converts the radius query parameter (miles) into the
// meters $nearSphere expects.
const MetersPerMile = 1609.34

// AnyPropertyType is the literal clients send to mean "no type constraint".
const AnyPropertyType = "Any"

// NearFilter restricts results to properties within MaxDistanceMeters of a
// point, ordered nearest first by the index.
type NearFilter struct {
	Longitude         float64
	Latitude          float64
	MaxDistanceMeters float64
}

// PropertySearch is the optional-filter bag for the property search
// endpoint. A nil pointer or zero-length field means the filter is absent
// and imposes no constraint; supplied filters combine conjunctively.
type PropertySearch struct {
	// ExcludeIDs is the availability exclusion set: ids of properties with
	// a booking overlapping the requested window.
	ExcludeIDs []primitive.ObjectID

	// Near constrains results geographically when both coordinates were
	// supplied and parsed.
	Near *NearFilter

	// MinPrice and MaxPrice are inclusive bounds.
	MinPrice *float64
	MaxPrice *float64

	// PropertyType requires an exact match unless empty or "Any".
	PropertyType string
}

// BuildFilter assembles the MongoDB query document. Absent filters
// contribute nothing, so an empty PropertySearch matches every property.
func (q PropertySearch) BuildFilter() bson.M {
	filter := bson.M{}

	if len(q.ExcludeIDs) > 0 {
		filter["_id"] = bson.M{"$nin": q.ExcludeIDs}
	}

	if q.Near != nil {
		filter["location.geo"] = bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{q.Near.Longitude, q.Near.Latitude},
				},
				"$maxDistance": q.Near.MaxDistanceMeters,
			},
		}
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if q.PropertyType != "" && q.PropertyType != AnyPropertyType {
		filter["propertyType"] = q.PropertyType
	}

	return filter
}
