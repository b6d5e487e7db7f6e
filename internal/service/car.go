package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/redis"
	"rental/internal/repository"
)

// CarService handles car listing operations for owners.
type CarService struct {
	carRepo    repository.CarRepository
	cacheStore redis.CacheStoreInterface
}

// NewCarService creates a new CarService.
func NewCarService(carRepo repository.CarRepository, cacheStore redis.CacheStoreInterface) *CarService {
	return &CarService{
		carRepo:    carRepo,
		cacheStore: cacheStore,
	}
}

// RegisterCarRequest contains the parameters for listing a car.
type RegisterCarRequest struct {
	OwnerEmail  string
	Model       string
	PricePerDay float64
	Location    domain.PickupLocation
}

// RegisterCar validates and persists a new listed car.
func (s *CarService) RegisterCar(ctx context.Context, req RegisterCarRequest) (*domain.Car, error) {
	if req.OwnerEmail == "" {
		return nil, ErrInvalidOwnerEmail
	}
	if req.Model == "" {
		return nil, ErrInvalidCarModel
	}
	if math.IsNaN(req.PricePerDay) || math.IsInf(req.PricePerDay, 0) || req.PricePerDay < 0 {
		return nil, pricing.ErrInvalidRate
	}
	if req.Location.Name == "" || req.Location.Address == "" {
		return nil, ErrInvalidPickupLocation
	}

	car := &domain.Car{
		ID:          uuid.New().String(),
		OwnerEmail:  req.OwnerEmail,
		Model:       req.Model,
		PricePerDay: req.PricePerDay,
		Location:    req.Location,
		Status:      domain.CarStatusListed,
		CreatedAt:   time.Now(),
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.AddListedCar(ctx, car.ID)
		_ = s.cacheStore.SetCar(ctx, cachedCar(car))
	}

	return car, nil
}

// GetCar retrieves a car by ID, cache first. A miss falls through to the
// database and refreshes the cache entry.
func (s *CarService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetCar(ctx, carID); err == nil && cached != nil {
			return carFromCache(cached), nil
		}
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetCar(ctx, cachedCar(car))
	}

	return car, nil
}

// ListCars retrieves all listed cars. When the listed set and every member's
// cache entry are warm the browse is served entirely from Redis; any miss
// falls back to the database and rewarms the entries.
func (s *CarService) ListCars(ctx context.Context) ([]*domain.Car, error) {
	if cars, ok := s.listedFromCache(ctx); ok {
		return cars, nil
	}

	cars, err := s.carRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		for _, car := range cars {
			_ = s.cacheStore.SetCar(ctx, cachedCar(car))
		}
	}

	return cars, nil
}

func (s *CarService) listedFromCache(ctx context.Context) ([]*domain.Car, bool) {
	if s.cacheStore == nil {
		return nil, false
	}

	ids, err := s.cacheStore.GetListedCars(ctx)
	if err != nil || len(ids) == 0 {
		return nil, false
	}

	cars := make([]*domain.Car, 0, len(ids))
	for _, id := range ids {
		cached, err := s.cacheStore.GetCar(ctx, id)
		if err != nil || cached == nil {
			return nil, false
		}
		cars = append(cars, carFromCache(cached))
	}

	return cars, true
}

// ListCarsByOwner retrieves every car of one owner.
func (s *CarService) ListCarsByOwner(ctx context.Context, ownerEmail string) ([]*domain.Car, error) {
	if ownerEmail == "" {
		return nil, ErrInvalidOwnerEmail
	}

	return s.carRepo.GetByOwnerEmail(ctx, ownerEmail)
}

// UpdateDailyRateRequest contains the parameters for changing a car's rate.
type UpdateDailyRateRequest struct {
	CarID       string
	OwnerEmail  string
	PricePerDay float64
}

// UpdateDailyRate changes a car's daily rate. Existing bookings keep the rate
// they were created with; only future quotes see the new value.
func (s *CarService) UpdateDailyRate(ctx context.Context, req UpdateDailyRateRequest) (*domain.Car, error) {
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if math.IsNaN(req.PricePerDay) || math.IsInf(req.PricePerDay, 0) || req.PricePerDay < 0 {
		return nil, pricing.ErrInvalidRate
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	if req.OwnerEmail == "" || car.OwnerEmail != req.OwnerEmail {
		return nil, ErrActorNotAllowed
	}

	if err := s.carRepo.UpdateDailyRate(ctx, car.ID, req.PricePerDay); err != nil {
		return nil, err
	}
	car.PricePerDay = req.PricePerDay

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateCar(ctx, car.ID)
	}

	return car, nil
}

// UnlistCar removes a car from the marketplace without deleting it.
func (s *CarService) UnlistCar(ctx context.Context, carID, ownerEmail string) error {
	if carID == "" {
		return ErrInvalidCarID
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return err
	}

	if ownerEmail == "" || car.OwnerEmail != ownerEmail {
		return ErrActorNotAllowed
	}

	if err := s.carRepo.UpdateStatus(ctx, carID, domain.CarStatusUnlisted); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.RemoveListedCar(ctx, carID)
		_ = s.cacheStore.InvalidateCar(ctx, carID)
	}

	return nil
}

func cachedCar(car *domain.Car) *redis.CachedCar {
	return &redis.CachedCar{
		ID:              car.ID,
		OwnerEmail:      car.OwnerEmail,
		Model:           car.Model,
		PricePerDay:     car.PricePerDay,
		LocationName:    car.Location.Name,
		LocationAddress: car.Location.Address,
		Status:          string(car.Status),
		CreatedAt:       car.CreatedAt,
	}
}

func carFromCache(c *redis.CachedCar) *domain.Car {
	return &domain.Car{
		ID:          c.ID,
		OwnerEmail:  c.OwnerEmail,
		Model:       c.Model,
		PricePerDay: c.PricePerDay,
		Location: domain.PickupLocation{
			Name:    c.LocationName,
			Address: c.LocationAddress,
		},
		Status:    domain.CarStatus(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
