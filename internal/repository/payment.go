package repository

import (
	"context"

	"rental/internal/domain"
)

// PaymentRepository defines the persistence operations for the charge ledger.
type PaymentRepository interface {
	// Create persists a new payment attempt.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByIdempotencyKey retrieves a payment by its idempotency key.
	// Returns nil without error if no payment exists with the given key.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error)

	// UpdateResult records the outcome of a gateway charge.
	UpdateResult(ctx context.Context, id string, status domain.PaymentStatus, reference string) error
}
