package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car

	// Counters for verification
	CreateCallCount          int32
	UpdateDailyRateCallCount int32

	// Error injection
	CreateError          error
	UpdateDailyRateError error
}

// NewMockCarRepository creates a new mock car repository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{
		cars: make(map[string]*domain.Car),
	}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car *domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
}

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) GetAll(ctx context.Context) ([]*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Car, 0, len(m.cars))
	for _, c := range m.cars {
		if c.Status != domain.CarStatusListed {
			continue
		}
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockCarRepository) GetByOwnerEmail(ctx context.Context, email string) ([]*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Car, 0)
	for _, c := range m.cars {
		if c.OwnerEmail == email {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockCarRepository) UpdateDailyRate(ctx context.Context, id string, pricePerDay float64) error {
	atomic.AddInt32(&m.UpdateDailyRateCallCount, 1)
	if m.UpdateDailyRateError != nil {
		return m.UpdateDailyRateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return repository.ErrNotFound
	}
	car.PricePerDay = pricePerDay
	return nil
}

func (m *MockCarRepository) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	car, ok := m.cars[id]
	if !ok {
		return repository.ErrNotFound
	}
	car.Status = status
	return nil
}

// GetCar returns the car by ID (for test assertions).
func (m *MockCarRepository) GetCar(id string) *domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cars[id]
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository. Its
// UpdateStatus and RecordPayment honor the compare-and-set contract of the
// real repository, so racing transitions can be simulated in tests.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount           int32
	CountOverlappingCallCount int32
	UpdateStatusCallCount     int32
	RecordPaymentCallCount    int32

	// Error injection
	CreateError           error
	CountOverlappingError error
	UpdateStatusError     error
	RecordPaymentError    error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) GetByUserEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.UserEmail == email {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) CountOverlapping(ctx context.Context, carID string, period domain.RentalPeriod) (int, error) {
	atomic.AddInt32(&m.CountOverlappingCallCount, 1)
	if m.CountOverlappingError != nil {
		return 0, m.CountOverlappingError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, b := range m.bookings {
		if b.CarID != carID {
			continue
		}
		if b.Status != domain.BookingStatusPending && b.Status != domain.BookingStatusConfirmed {
			continue
		}
		if b.Period.Overlaps(period) {
			count++
		}
	}
	return count, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if booking.Status != from {
		return repository.ErrStatusConflict
	}
	booking.Status = to
	return nil
}

func (m *MockBookingRepository) RecordPayment(ctx context.Context, id string, from, to domain.BookingStatus, paymentIntentID string, paidAmount float64) error {
	atomic.AddInt32(&m.RecordPaymentCallCount, 1)
	if m.RecordPaymentError != nil {
		return m.RecordPaymentError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if booking.Status != from {
		return repository.ErrStatusConflict
	}
	booking.Status = to
	booking.PaymentIntentID = paymentIntentID
	booking.PaidAmount = paidAmount
	return nil
}

// GetBooking returns the booking by ID (for test assertions).
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// A succeeded row wins over any other, mirroring the real repository.
	var found *domain.Payment
	for _, p := range m.payments {
		if p.IdempotencyKey != key {
			continue
		}
		if found == nil || p.Status == domain.PaymentStatusSucceeded {
			found = p
		}
	}
	if found == nil {
		return nil, nil // Not found, but not an error for idempotency check
	}
	copy := *found
	return &copy, nil
}

func (m *MockPaymentRepository) UpdateResult(ctx context.Context, id string, status domain.PaymentStatus, reference string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	payment.Reference = reference
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// GetPaymentByBookingID returns the payment for a booking.
func (m *MockPaymentRepository) GetPaymentByBookingID(bookingID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			return p
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireCarLock(ctx context.Context, carID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:car:"+carID, ttl)
}

func (m *MockLockStore) ReleaseCarLock(ctx context.Context, carID string) error {
	return m.release("lock:car:" + carID)
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:booking:"+bookingID, ttl)
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	return m.release("lock:booking:" + bookingID)
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// IsCarLocked checks if a car is locked (for test assertions).
func (m *MockLockStore) IsCarLocked(carID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:car:"+carID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu       sync.RWMutex
	cars     map[string]*redis.CachedCar
	bookings map[string]*redis.CachedBooking
	listed   map[string]bool

	// Counters
	SetCarCallCount            int32
	InvalidateCarCallCount     int32
	SetBookingCallCount        int32
	InvalidateBookingCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		cars:     make(map[string]*redis.CachedCar),
		bookings: make(map[string]*redis.CachedBooking),
		listed:   make(map[string]bool),
	}
}

func (m *MockCacheStore) GetCar(ctx context.Context, carID string) (*redis.CachedCar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[carID]
	if !ok {
		return nil, nil
	}
	copy := *car
	return &copy, nil
}

func (m *MockCacheStore) SetCar(ctx context.Context, car *redis.CachedCar) error {
	atomic.AddInt32(&m.SetCarCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCacheStore) InvalidateCar(ctx context.Context, carID string) error {
	atomic.AddInt32(&m.InvalidateCarCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, carID)
	return nil
}

func (m *MockCacheStore) GetBooking(ctx context.Context, bookingID string) (*redis.CachedBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	copy := *booking
	return &copy, nil
}

func (m *MockCacheStore) SetBooking(ctx context.Context, booking *redis.CachedBooking) error {
	atomic.AddInt32(&m.SetBookingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockCacheStore) InvalidateBooking(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.InvalidateBookingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, bookingID)
	return nil
}

func (m *MockCacheStore) AddListedCar(ctx context.Context, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed[carID] = true
	return nil
}

func (m *MockCacheStore) RemoveListedCar(ctx context.Context, carID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listed, carID)
	return nil
}

func (m *MockCacheStore) GetListedCars(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.listed))
	for id := range m.listed {
		ids = append(ids, id)
	}
	return ids, nil
}

// HasCachedCar checks if a car is cached (for test assertions).
func (m *MockCacheStore) HasCachedCar(carID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cars[carID]
	return ok
}

// HasCachedBooking checks if a booking is cached (for test assertions).
func (m *MockCacheStore) HasCachedBooking(bookingID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.bookings[bookingID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	FailError error

	// Counters
	ChargeCallCount int32

	// Last charge for assertions
	LastAmountMinor int64
	LastCurrency    string
}

// NewMockGateway creates a new mock payment gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Charge(ctx context.Context, amountMinor int64, currency string) (string, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailError != nil {
		return "", m.FailError
	}
	m.LastAmountMinor = amountMinor
	m.LastCurrency = currency
	return "pi_mock_1", nil
}

// SetFailure configures the gateway to fail.
func (m *MockGateway) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailError = err
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockGatewayDown  = errors.New("mock: gateway unreachable")
)
