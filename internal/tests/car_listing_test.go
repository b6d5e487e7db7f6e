package tests

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/redis"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// 4. CAR LISTING AND RECEIPTS
// ──────────────────────────────────────────────

func TestRegisterCar_ListedAndCached(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	cacheStore := NewMockCacheStore()
	svc := service.NewCarService(carRepo, cacheStore)

	car, err := svc.RegisterCar(context.Background(), service.RegisterCarRequest{
		OwnerEmail:  "owner@example.com",
		Model:       "Corolla",
		PricePerDay: 85,
		Location:    domain.PickupLocation{Name: "Airport", Address: "1 Terminal Rd"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if car.Status != domain.CarStatusListed {
		t.Errorf("expected new car listed, got %s", car.Status)
	}
	if !cacheStore.HasCachedCar(car.ID) {
		t.Error("expected the new car to be cached")
	}
}

func TestRegisterCar_RejectsBadRates(t *testing.T) {
	t.Parallel()

	svc := service.NewCarService(NewMockCarRepository(), NewMockCacheStore())

	for _, rate := range []float64{-5, math.NaN(), math.Inf(1)} {
		_, err := svc.RegisterCar(context.Background(), service.RegisterCarRequest{
			OwnerEmail:  "owner@example.com",
			Model:       "Corolla",
			PricePerDay: rate,
			Location:    domain.PickupLocation{Name: "Airport", Address: "1 Terminal Rd"},
		})
		if !errors.Is(err, pricing.ErrInvalidRate) {
			t.Errorf("rate %f: expected ErrInvalidRate, got %v", rate, err)
		}
	}
}

func TestUpdateDailyRate_OnlyOwnerAndCacheInvalidated(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	cacheStore := NewMockCacheStore()
	svc := service.NewCarService(carRepo, cacheStore)

	_, err := svc.UpdateDailyRate(context.Background(), service.UpdateDailyRateRequest{
		CarID:       "car-1",
		OwnerEmail:  "stranger@example.com",
		PricePerDay: 120,
	})
	if !errors.Is(err, service.ErrActorNotAllowed) {
		t.Errorf("expected ErrActorNotAllowed, got %v", err)
	}

	updated, err := svc.UpdateDailyRate(context.Background(), service.UpdateDailyRateRequest{
		CarID:       "car-1",
		OwnerEmail:  "owner@example.com",
		PricePerDay: 120,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PricePerDay != 120 {
		t.Errorf("expected rate 120, got %f", updated.PricePerDay)
	}
	if cacheStore.InvalidateCarCallCount == 0 {
		t.Error("expected the car cache entry to be invalidated")
	}
}

func TestUnlistCar_RemovedFromMarketplace(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	svc := service.NewCarService(carRepo, NewMockCacheStore())

	if err := svc.UnlistCar(context.Background(), "car-1", "owner@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored := carRepo.GetCar("car-1"); stored.Status != domain.CarStatusUnlisted {
		t.Errorf("expected unlisted, got %s", stored.Status)
	}

	listed, err := svc.ListCars(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("unlisted car must not appear in the marketplace, got %d cars", len(listed))
	}
}

func TestGetCar_ServedFromCache(t *testing.T) {
	t.Parallel()

	cacheStore := NewMockCacheStore()
	svc := service.NewCarService(NewMockCarRepository(), cacheStore)

	// The entry exists only in the cache; a repository hit would 404.
	if err := cacheStore.SetCar(context.Background(), &redis.CachedCar{
		ID:          "car-1",
		OwnerEmail:  "owner@example.com",
		Model:       "Corolla",
		PricePerDay: 85,
		Status:      string(domain.CarStatusListed),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	car, err := svc.GetCar(context.Background(), "car-1")
	if err != nil {
		t.Fatalf("expected the cached car to be served, got %v", err)
	}
	if car.PricePerDay != 85 || car.Model != "Corolla" {
		t.Errorf("cached car came back wrong: %+v", car)
	}
}

func TestGetCar_MissWarmsCache(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	carRepo.AddCar(listedCar())
	cacheStore := NewMockCacheStore()
	svc := service.NewCarService(carRepo, cacheStore)

	if _, err := svc.GetCar(context.Background(), "car-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cacheStore.HasCachedCar("car-1") {
		t.Error("expected the car to be cached after a repository read")
	}
}

func TestListCars_ServedFromListedSet(t *testing.T) {
	t.Parallel()

	cacheStore := NewMockCacheStore()
	svc := service.NewCarService(NewMockCarRepository(), cacheStore)

	// Warm set and entry; the repository is empty, so a fallback would
	// return nothing.
	if err := cacheStore.AddListedCar(context.Background(), "car-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cacheStore.SetCar(context.Background(), &redis.CachedCar{
		ID:          "car-1",
		OwnerEmail:  "owner@example.com",
		Model:       "Corolla",
		PricePerDay: 85,
		Status:      string(domain.CarStatusListed),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cars, err := svc.ListCars(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cars) != 1 || cars[0].ID != "car-1" {
		t.Errorf("expected car-1 from the listed set, got %d cars", len(cars))
	}
}

// ──────────────────────────────────────────────
// RECEIPTS
// ──────────────────────────────────────────────

func confirmedBooking() *domain.Booking {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:              "booking-1",
		CarID:           "car-1",
		CarModel:        "Corolla",
		PricePerDay:     85,
		Period:          domain.RentalPeriod{StartDate: start, EndDate: start.AddDate(0, 0, 5)},
		Pickup:          domain.PickupLocation{Name: "Airport", Address: "1 Terminal Rd"},
		UserEmail:       "renter@example.com",
		Status:          domain.BookingStatusConfirmed,
		PaymentIntentID: "pi_123",
		PaidAmount:      477.5,
		BookingDate:     time.Now(),
	}
}

func TestGenerateReceipt_ItemizesFromFrozenRate(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)

	receipt, err := svc.GenerateReceipt(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.Days != 5 {
		t.Errorf("expected 5 days, got %d", receipt.Days)
	}
	if receipt.Total != 477.5 {
		t.Errorf("expected total 477.50, got %f", receipt.Total)
	}
	if receipt.PaidAmount != 477.5 {
		t.Errorf("expected paid amount as stored, got %f", receipt.PaidAmount)
	}
	if receipt.PaymentIntentID != "pi_123" {
		t.Errorf("expected payment reference pi_123, got %q", receipt.PaymentIntentID)
	}
}

func TestGenerateReceipt_UnpaidBookingRejected(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)

	booking := confirmedBooking()
	booking.Status = domain.BookingStatusPending
	booking.PaymentIntentID = ""
	booking.PaidAmount = 0

	if _, err := svc.GenerateReceipt(context.Background(), booking); !errors.Is(err, service.ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestFormatReceipt_ContainsLineItems(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)
	receipt, err := svc.GenerateReceipt(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := svc.FormatReceipt(receipt)
	for _, want := range []string{"Corolla", "$425.00", "$42.50", "$10.00", "$477.50", "pi_123"} {
		if !strings.Contains(text, want) {
			t.Errorf("formatted receipt missing %q", want)
		}
	}
}
