// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// BookingCreatedEvent is published when a reservation is successfully
// created. It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingCreatedEvent struct {
	BookingID     string `json:"booking_id"`
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	UserID        string `json:"user_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	CreatedAt     string `json:"created_at"`
}
