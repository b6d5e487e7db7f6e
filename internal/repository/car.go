package repository

import (
	"context"

	"rental/internal/domain"
)

// CarRepository defines the persistence operations for cars.
type CarRepository interface {
	// Create persists a new car.
	Create(ctx context.Context, car *domain.Car) error

	// GetByID retrieves a car by ID.
	GetByID(ctx context.Context, id string) (*domain.Car, error)

	// GetAll retrieves all listed cars.
	GetAll(ctx context.Context) ([]*domain.Car, error)

	// GetByOwnerEmail retrieves every car of one owner, listed or not.
	GetByOwnerEmail(ctx context.Context, email string) ([]*domain.Car, error)

	// UpdateDailyRate changes the daily rate of a car. Existing bookings keep
	// the rate they were created with.
	UpdateDailyRate(ctx context.Context, id string, pricePerDay float64) error

	// UpdateStatus lists or unlists a car.
	UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error
}
