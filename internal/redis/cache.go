package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	CarCacheTTL     = 60 * time.Second // Rates and listing status change rarely
	BookingCacheTTL = 10 * time.Second // Status changes during payment flow
)

// Key prefixes
const (
	carCachePrefix     = "cache:car:"
	bookingCachePrefix = "cache:booking:"
	listedCarsKey      = "listed_cars"
)

// CachedCar is the full wire form of a car in cache, so a warm entry can
// serve reads without touching the database.
type CachedCar struct {
	ID              string    `json:"id"`
	OwnerEmail      string    `json:"ownerEmail"`
	Model           string    `json:"model"`
	PricePerDay     float64   `json:"pricePerDay"`
	LocationName    string    `json:"locationName"`
	LocationAddress string    `json:"locationAddress"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CachedBooking is the full wire form of a booking in cache.
type CachedBooking struct {
	ID              string    `json:"id"`
	CarID           string    `json:"carId"`
	CarModel        string    `json:"carModel"`
	PricePerDay     float64   `json:"pricePerDay"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	PickupName      string    `json:"pickupName"`
	PickupAddress   string    `json:"pickupAddress"`
	UserEmail       string    `json:"userEmail"`
	Status          string    `json:"status"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	PaidAmount      float64   `json:"paidAmount,omitempty"`
	BookingDate     time.Time `json:"bookingDate"`
}

// GetCar retrieves a car from cache. Returns nil on a cache miss.
func (s *CacheStore) GetCar(ctx context.Context, carID string) (*CachedCar, error) {
	data, err := s.client.Get(ctx, carCachePrefix+carID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var car CachedCar
	if err := json.Unmarshal(data, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// SetCar stores a car in cache.
func (s *CacheStore) SetCar(ctx context.Context, car *CachedCar) error {
	data, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, carCachePrefix+car.ID, data, CarCacheTTL).Err()
}

// InvalidateCar removes a car from cache.
func (s *CacheStore) InvalidateCar(ctx context.Context, carID string) error {
	return s.client.Del(ctx, carCachePrefix+carID).Err()
}

// GetBooking retrieves a booking from cache. Returns nil on a cache miss.
func (s *CacheStore) GetBooking(ctx context.Context, bookingID string) (*CachedBooking, error) {
	data, err := s.client.Get(ctx, bookingCachePrefix+bookingID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var booking CachedBooking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// SetBooking stores a booking in cache.
func (s *CacheStore) SetBooking(ctx context.Context, booking *CachedBooking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, bookingCachePrefix+booking.ID, data, BookingCacheTTL).Err()
}

// InvalidateBooking removes a booking from cache.
func (s *CacheStore) InvalidateBooking(ctx context.Context, bookingID string) error {
	return s.client.Del(ctx, bookingCachePrefix+bookingID).Err()
}

// AddListedCar adds a car to the listed set for fast browse lookups.
func (s *CacheStore) AddListedCar(ctx context.Context, carID string) error {
	return s.client.SAdd(ctx, listedCarsKey, carID).Err()
}

// RemoveListedCar removes a car from the listed set.
func (s *CacheStore) RemoveListedCar(ctx context.Context, carID string) error {
	return s.client.SRem(ctx, listedCarsKey, carID).Err()
}

// GetListedCars returns all listed car IDs.
func (s *CacheStore) GetListedCars(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, listedCarsKey).Result()
}
