package repository

import (
	"context"

	"rental/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByUserEmail retrieves the bookings made by one renter.
	GetByUserEmail(ctx context.Context, email string) ([]*domain.Booking, error)

	// CountOverlapping counts pending and confirmed bookings of the given car
	// whose rental period overlaps the given one.
	CountOverlapping(ctx context.Context, carID string, period domain.RentalPeriod) (int, error)

	// UpdateStatus moves a booking from one status to another. The update is
	// a compare-and-set guarded by the expected prior status: if the booking
	// exists but is no longer in that status, ErrStatusConflict is returned.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error

	// RecordPayment is the confirmation variant of UpdateStatus: it moves the
	// booking and stores the payment reference and the frozen paid amount in
	// the same guarded update.
	RecordPayment(ctx context.Context, id string, from, to domain.BookingStatus, paymentIntentID string, paidAmount float64) error
}
