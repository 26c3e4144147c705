// Package repository persists the application's entities in MongoDB. The
// sentinel errors below let handlers and services distinguish failure
// scenarios without inspecting driver errors: not-found values map to 404
// responses, ErrEmailExists to 409, and everything else to 500.
package repository

import "errors"

var (
	// ErrPropertyNotFound is returned when a property id resolves to no document.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrBookingNotFound is returned when a booking id resolves to no document.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound is returned when a user id or email resolves to no document.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when a signup collides with the unique email index.
	ErrEmailExists = errors.New("email already exists")
)
