package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireCarLock(ctx context.Context, carID string, ttl time.Duration) (bool, error)
	ReleaseCarLock(ctx context.Context, carID string) error
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
}

// CacheStoreInterface defines the interface for entity caching.
type CacheStoreInterface interface {
	GetCar(ctx context.Context, carID string) (*CachedCar, error)
	SetCar(ctx context.Context, car *CachedCar) error
	InvalidateCar(ctx context.Context, carID string) error
	GetBooking(ctx context.Context, bookingID string) (*CachedBooking, error)
	SetBooking(ctx context.Context, booking *CachedBooking) error
	InvalidateBooking(ctx context.Context, bookingID string) error
	AddListedCar(ctx context.Context, carID string) error
	RemoveListedCar(ctx context.Context, carID string) error
	GetListedCars(ctx context.Context) ([]string, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
