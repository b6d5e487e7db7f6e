package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// 2. BOOKING LIFECYCLE
// ──────────────────────────────────────────────

func seedUsers(userRepo *MockUserRepository) {
	userRepo.AddUser(&domain.User{ID: "u-1", Name: "Renter", Email: "renter@example.com", Role: domain.UserRoleRenter})
	userRepo.AddUser(&domain.User{ID: "u-2", Name: "Owner", Email: "owner@example.com", Role: domain.UserRoleOwner})
	userRepo.AddUser(&domain.User{ID: "u-3", Name: "Admin", Email: "admin@example.com", Role: domain.UserRoleAdmin})
	userRepo.AddUser(&domain.User{ID: "u-4", Name: "Other", Email: "other@example.com", Role: domain.UserRoleRenter})
}

func seedBooking(bookingRepo *MockBookingRepository, status domain.BookingStatus, start, end time.Time) *domain.Booking {
	booking := &domain.Booking{
		ID:          "booking-1",
		CarID:       "car-1",
		CarModel:    "Corolla",
		PricePerDay: 85,
		Period:      domain.RentalPeriod{StartDate: start, EndDate: end},
		UserEmail:   "renter@example.com",
		Status:      status,
		BookingDate: time.Now(),
	}
	bookingRepo.AddBooking(booking)
	return booking
}

func TestCancelBooking_ByRenter(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore())

	updated, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
		Reason:     "change of plans",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != domain.BookingStatusCanceled {
		t.Errorf("expected canceled, got %s", updated.Status)
	}
	if stored := bookingRepo.GetBooking("booking-1"); stored.Status != domain.BookingStatusCanceled {
		t.Errorf("expected stored status canceled, got %s", stored.Status)
	}
}

func TestCancelBooking_StrangerRejectedAdminAllowed(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "other@example.com",
	})
	if !errors.Is(err, service.ErrActorNotAllowed) {
		t.Errorf("expected ErrActorNotAllowed for another renter, got %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "admin@example.com",
	}); err != nil {
		t.Errorf("admin cancel should succeed, got %v", err)
	}
}

func TestCancelBooking_AlreadyCanceledFails(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusCanceled, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteBooking_BeforePeriodEndRejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	// Rental period still running.
	start := time.Now().AddDate(0, 0, -1)
	seedBooking(bookingRepo, domain.BookingStatusConfirmed, start, start.AddDate(0, 0, 7))

	svc := newBookingService(bookingRepo, carRepo, userRepo, NewMockLockStore())

	_, err := svc.CompleteBooking(context.Background(), service.CompleteBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "owner@example.com",
	})
	if !errors.Is(err, service.ErrRentalNotElapsed) {
		t.Errorf("expected ErrRentalNotElapsed, got %v", err)
	}
}

func TestCompleteBooking_ByOwnerAfterPeriodEnd(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Now().AddDate(0, 0, -10)
	seedBooking(bookingRepo, domain.BookingStatusConfirmed, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, carRepo, userRepo, NewMockLockStore())

	updated, err := svc.CompleteBooking(context.Background(), service.CompleteBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "owner@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.BookingStatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
}

func TestCompleteBooking_RenterRejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Now().AddDate(0, 0, -10)
	seedBooking(bookingRepo, domain.BookingStatusConfirmed, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, carRepo, userRepo, NewMockLockStore())

	// Completion is an operator action: the renter may not trigger it.
	_, err := svc.CompleteBooking(context.Background(), service.CompleteBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
	})
	if !errors.Is(err, service.ErrActorNotAllowed) {
		t.Errorf("expected ErrActorNotAllowed, got %v", err)
	}
}

func TestCancelBooking_ConcurrentConfirmSurfacesConflict(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore())

	// A confirmation slips in after the cancel reads the booking.
	bookingRepo.UpdateStatusError = repository.ErrStatusConflict

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
	})
	if !errors.Is(err, repository.ErrStatusConflict) {
		t.Errorf("expected ErrStatusConflict, got %v", err)
	}
}

func TestCancelBooking_TransitionLockHeldRejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	lockStore := NewMockLockStore()
	lockStore.ForceAcquireFailure = true
	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, lockStore)

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
	})
	if !errors.Is(err, service.ErrBookingBusy) {
		t.Errorf("expected ErrBookingBusy, got %v", err)
	}
	if stored := bookingRepo.GetBooking("booking-1"); stored.Status != domain.BookingStatusPending {
		t.Errorf("booking must be untouched while its lock is held, got %s", stored.Status)
	}
}

func TestGetBooking_ServedFromCacheAndWarmedOnMiss(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)
	cacheStore := NewMockCacheStore()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	svc := service.NewBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore(), cacheStore, nil)

	// First read misses the cache, hits the repository and warms the entry.
	booking, err := svc.GetBooking(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cacheStore.HasCachedBooking("booking-1") {
		t.Fatal("expected the booking to be cached after the first read")
	}

	// A cached entry is served without touching the repository at all.
	if err := cacheStore.SetBooking(context.Background(), &redis.CachedBooking{
		ID:        "booking-2",
		CarID:     booking.CarID,
		UserEmail: booking.UserEmail,
		Status:    string(domain.BookingStatusPending),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cached, err := svc.GetBooking(context.Background(), "booking-2")
	if err != nil {
		t.Fatalf("expected the cached booking to be served, got %v", err)
	}
	if cached.ID != "booking-2" {
		t.Errorf("expected booking-2 from cache, got %s", cached.ID)
	}
}

func TestCancelBooking_InvalidatesCachedBooking(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)
	cacheStore := NewMockCacheStore()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	svc := service.NewBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore(), cacheStore, nil)

	if _, err := svc.GetBooking(context.Background(), "booking-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID:  "booking-1",
		ActorEmail: "renter@example.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cacheStore.HasCachedBooking("booking-1") {
		t.Error("a canceled booking must not linger in the cache")
	}
}

func TestListBookings_AdminSeesAllRenterSeesOwn(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	userRepo := NewMockUserRepository()
	seedUsers(userRepo)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	bookingRepo.AddBooking(&domain.Booking{
		ID: "booking-1", CarID: "car-1", UserEmail: "renter@example.com",
		Status: domain.BookingStatusPending,
		Period: domain.RentalPeriod{StartDate: start, EndDate: start.AddDate(0, 0, 2)},
	})
	bookingRepo.AddBooking(&domain.Booking{
		ID: "booking-2", CarID: "car-2", UserEmail: "other@example.com",
		Status: domain.BookingStatusPending,
		Period: domain.RentalPeriod{StartDate: start, EndDate: start.AddDate(0, 0, 2)},
	})

	svc := newBookingService(bookingRepo, NewMockCarRepository(), userRepo, NewMockLockStore())

	all, err := svc.ListBookings(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin should see 2 bookings, got %d", len(all))
	}

	own, err := svc.ListBookings(context.Background(), "renter@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 || own[0].ID != "booking-1" {
		t.Errorf("renter should see only booking-1, got %d bookings", len(own))
	}
}
