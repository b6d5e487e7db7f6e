package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireCarLock attempts to acquire the booking-creation lock for a car.
// It serializes overlap checks so two renters cannot book the same car for
// the same dates at once. Returns true if the lock was acquired.
func (s *LockStore) AcquireCarLock(ctx context.Context, carID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:car:%s", carID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseCarLock releases the booking-creation lock for a car.
func (s *LockStore) ReleaseCarLock(ctx context.Context, carID string) error {
	key := fmt.Sprintf("lock:car:%s", carID)

	return s.client.Del(ctx, key).Err()
}

// AcquireBookingLock attempts to acquire the transition lock for a booking,
// taken around payment confirmation so a duplicate submit waits its turn.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:booking:%s", bookingID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseBookingLock releases the transition lock for a booking.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	key := fmt.Sprintf("lock:booking:%s", bookingID)

	return s.client.Del(ctx, key).Err()
}
