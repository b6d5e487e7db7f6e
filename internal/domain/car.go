package domain

import "time"

// CarStatus represents whether a car is visible to renters.
type CarStatus string

const (
	CarStatusListed   CarStatus = "listed"
	CarStatusUnlisted CarStatus = "unlisted"
)

// Car represents a vehicle listed by an owner.
type Car struct {
	ID          string
	OwnerEmail  string
	Model       string
	PricePerDay float64
	Location    PickupLocation
	Status      CarStatus
	CreatedAt   time.Time
}
