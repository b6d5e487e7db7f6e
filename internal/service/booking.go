package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/redis"
	"rental/internal/repository"
)

// carLockTTL bounds how long a booking attempt may hold the per-car lock.
const carLockTTL = 5 * time.Second

// bookingLockTTL bounds how long a transition may hold the per-booking lock.
const bookingLockTTL = 5 * time.Second

// BookingService handles booking creation and lifecycle operations.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	carRepo             repository.CarRepository
	userRepo            repository.UserRepository
	lockStore           redis.LockStoreInterface
	cacheStore          redis.CacheStoreInterface
	notificationService *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo:         bookingRepo,
		carRepo:             carRepo,
		userRepo:            userRepo,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CarID     string
	UserEmail string
	StartDate time.Time
	EndDate   time.Time
}

// CreateBookingResponse contains the created booking and its quoted cost.
type CreateBookingResponse struct {
	Booking   *domain.Booking
	Breakdown pricing.Breakdown
}

// CreateBooking validates the request, guards against double booking and
// persists a new pending booking. The car's current daily rate and pickup
// location are copied onto the booking so later changes never affect it.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.UserEmail == "" {
		return nil, ErrInvalidUserEmail
	}

	// Strict duration validation: creation is a path that leads to a charge,
	// so inverted or missing dates fail here instead of being clamped.
	days, err := pricing.ComputeDuration(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	if car.Status != domain.CarStatusListed {
		return nil, ErrCarNotListed
	}

	breakdown, err := pricing.ComputeBreakdown(car.PricePerDay, days)
	if err != nil {
		return nil, err
	}

	period := domain.RentalPeriod{StartDate: req.StartDate, EndDate: req.EndDate}

	// Serialize the overlap check per car. Without the lock two requests
	// could both see zero overlapping bookings and both insert.
	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireCarLock(ctx, car.ID, carLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrCarBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseCarLock(ctx, car.ID)
		}()
	}

	overlapping, err := s.bookingRepo.CountOverlapping(ctx, car.ID, period)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrCarUnavailable
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		CarID:       car.ID,
		CarModel:    car.Model,
		PricePerDay: car.PricePerDay,
		Period:      period,
		Pickup:      car.Location,
		UserEmail:   req.UserEmail,
		Status:      domain.BookingStatusPending,
		BookingDate: time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCreated(ctx, booking, breakdown.Total)
	}

	return &CreateBookingResponse{Booking: booking, Breakdown: breakdown}, nil
}

// GetBooking retrieves a booking by ID, cache first. The short booking TTL
// keeps a just-transitioned record from being served stale for long, and
// every transition invalidates the entry outright.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetBooking(ctx, bookingID); err == nil && cached != nil {
			return bookingFromCache(cached), nil
		}
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetBooking(ctx, cachedBooking(booking))
	}

	return booking, nil
}

// ListBookings returns the bookings visible to the acting user: everything
// for admins, own bookings otherwise.
func (s *BookingService) ListBookings(ctx context.Context, actorEmail string) ([]*domain.Booking, error) {
	if actorEmail == "" {
		return nil, ErrInvalidActor
	}

	actor, err := s.userRepo.GetByEmail(ctx, actorEmail)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.UserRoleAdmin {
		return s.bookingRepo.GetAll(ctx)
	}

	return s.bookingRepo.GetByUserEmail(ctx, actorEmail)
}

// CancelBookingRequest contains the parameters for cancelling a booking.
type CancelBookingRequest struct {
	BookingID  string
	ActorEmail string
	Reason     string
}

// CancelBooking cancels a pending or confirmed booking. Only the renter who
// made the booking or an admin may cancel. Payment artifacts of a confirmed
// booking are kept; refunds are an external concern.
func (s *BookingService) CancelBooking(ctx context.Context, req CancelBookingRequest) (*domain.Booking, error) {
	booking, actor, err := s.loadBookingAndActor(ctx, req.BookingID, req.ActorEmail)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.UserRoleAdmin && actor.Email != booking.UserEmail {
		return nil, ErrActorNotAllowed
	}

	release, err := s.acquireTransitionLock(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := domain.ApplyTransition(*booking, domain.TransitionEvent{
		Kind:       domain.EventCancel,
		ActorEmail: req.ActorEmail,
	})
	if err != nil {
		return nil, err
	}

	// Guarded by the prior status so a racing confirmation cannot be
	// silently overwritten.
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, updated.Status); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBooking(ctx, booking.ID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCanceled(ctx, &updated, req.ActorEmail, req.Reason)
	}

	return &updated, nil
}

// CompleteBookingRequest contains the parameters for completing a booking.
type CompleteBookingRequest struct {
	BookingID  string
	ActorEmail string
}

// CompleteBooking marks a confirmed booking complete after its rental period
// has elapsed. Completion is an explicit operator action, never time-driven;
// only admins and the car owner may trigger it.
func (s *BookingService) CompleteBooking(ctx context.Context, req CompleteBookingRequest) (*domain.Booking, error) {
	booking, actor, err := s.loadBookingAndActor(ctx, req.BookingID, req.ActorEmail)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.UserRoleAdmin {
		car, err := s.carRepo.GetByID(ctx, booking.CarID)
		if err != nil {
			return nil, err
		}
		if car.OwnerEmail != actor.Email {
			return nil, ErrActorNotAllowed
		}
	}

	if time.Now().Before(booking.Period.EndDate) {
		return nil, ErrRentalNotElapsed
	}

	release, err := s.acquireTransitionLock(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := domain.ApplyTransition(*booking, domain.TransitionEvent{
		Kind:       domain.EventComplete,
		ActorEmail: req.ActorEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, updated.Status); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBooking(ctx, booking.ID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCompleted(ctx, &updated)
	}

	return &updated, nil
}

func (s *BookingService) loadBookingAndActor(ctx context.Context, bookingID, actorEmail string) (*domain.Booking, *domain.User, error) {
	if bookingID == "" {
		return nil, nil, ErrInvalidBookingID
	}
	if actorEmail == "" {
		return nil, nil, ErrInvalidActor
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	actor, err := s.userRepo.GetByEmail(ctx, actorEmail)
	if err != nil {
		return nil, nil, err
	}

	return booking, actor, nil
}

// acquireTransitionLock serializes lifecycle transitions per booking. The
// returned release func is a no-op when no lock store is configured.
func (s *BookingService) acquireTransitionLock(ctx context.Context, bookingID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	acquired, err := s.lockStore.AcquireBookingLock(ctx, bookingID, bookingLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrBookingBusy
	}

	return func() {
		_ = s.lockStore.ReleaseBookingLock(ctx, bookingID)
	}, nil
}

func cachedBooking(b *domain.Booking) *redis.CachedBooking {
	return &redis.CachedBooking{
		ID:              b.ID,
		CarID:           b.CarID,
		CarModel:        b.CarModel,
		PricePerDay:     b.PricePerDay,
		StartDate:       b.Period.StartDate,
		EndDate:         b.Period.EndDate,
		PickupName:      b.Pickup.Name,
		PickupAddress:   b.Pickup.Address,
		UserEmail:       b.UserEmail,
		Status:          string(b.Status),
		PaymentIntentID: b.PaymentIntentID,
		PaidAmount:      b.PaidAmount,
		BookingDate:     b.BookingDate,
	}
}

func bookingFromCache(c *redis.CachedBooking) *domain.Booking {
	return &domain.Booking{
		ID:          c.ID,
		CarID:       c.CarID,
		CarModel:    c.CarModel,
		PricePerDay: c.PricePerDay,
		Period: domain.RentalPeriod{
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
		},
		Pickup: domain.PickupLocation{
			Name:    c.PickupName,
			Address: c.PickupAddress,
		},
		UserEmail:       c.UserEmail,
		Status:          domain.BookingStatus(c.Status),
		PaymentIntentID: c.PaymentIntentID,
		PaidAmount:      c.PaidAmount,
		BookingDate:     c.BookingDate,
	}
}
