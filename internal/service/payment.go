package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/redis"
	"rental/internal/repository"
)

// Gateway is the interface for a payment processor. Amounts are in minor
// units (cents). A successful charge returns a unique payment reference.
type Gateway interface {
	Charge(ctx context.Context, amountMinor int64, currency string) (string, error)
}

// StubGateway is a Gateway implementation for development and tests.
// Every charge succeeds with a generated reference.
type StubGateway struct{}

// NewStubGateway creates a new stub gateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// Charge simulates a successful charge.
func (g *StubGateway) Charge(ctx context.Context, amountMinor int64, currency string) (string, error) {
	return "pi_" + uuid.New().String(), nil
}

// HTTPGateway is a Gateway backed by a hosted payment processor's REST API.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client for the given processor endpoint.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Charge submits a charge and returns the processor's payment reference.
func (g *HTTPGateway) Charge(ctx context.Context, amountMinor int64, currency string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountMinor,
		"currency": currency,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gateway charge failed: %s", resp.Status)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("gateway returned empty payment reference")
	}

	return out.ID, nil
}

// PaymentService handles payment confirmation for bookings.
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	bookingRepo         repository.BookingRepository
	gateway             Gateway
	currency            string
	lockStore           redis.LockStoreInterface
	cacheStore          redis.CacheStoreInterface
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	gateway Gateway,
	currency string,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		bookingRepo:         bookingRepo,
		gateway:             gateway,
		currency:            currency,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// ConfirmPaymentRequest contains the parameters for confirming a booking payment.
type ConfirmPaymentRequest struct {
	BookingID  string
	ActorEmail string
}

// ConfirmPaymentResponse contains the payment and the updated booking.
type ConfirmPaymentResponse struct {
	Payment *domain.Payment
	Booking *domain.Booking
}

// ConfirmPayment charges the booking total and confirms the booking. The
// amount is recomputed strictly from the booking's own frozen daily rate and
// period, so a later change to the car's rate never alters what is charged.
// The operation is idempotent per booking: a repeat call returns the charge
// already made.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if req.ActorEmail == "" {
		return nil, ErrInvalidActor
	}

	// Serialize transitions per booking so a double-submitted checkout
	// queues behind the first attempt instead of racing it.
	if s.lockStore != nil {
		acquired, err := s.lockStore.AcquireBookingLock(ctx, req.BookingID, bookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrBookingBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseBookingLock(ctx, req.BookingID)
		}()
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if req.ActorEmail != booking.UserEmail {
		return nil, ErrActorNotAllowed
	}

	// Idempotency: one charge per booking, keyed by booking ID.
	idempotencyKey := fmt.Sprintf("charge:%s", booking.ID)

	existing, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == domain.PaymentStatusSucceeded {
		return &ConfirmPaymentResponse{Payment: existing, Booking: booking}, nil
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, ErrBookingNotPending
	}

	// Strict recomputation at payment time from the booking's own fields.
	days, err := pricing.ComputeDuration(booking.Period.StartDate, booking.Period.EndDate)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.ComputeBreakdown(booking.PricePerDay, days)
	if err != nil {
		return nil, err
	}
	amountMinor := pricing.ChargeAmount(breakdown)

	// A retry after a failed charge reuses the earlier ledger row; the
	// idempotency key must never map to more than one row.
	payment := existing
	if payment == nil {
		payment = &domain.Payment{
			ID:             uuid.New().String(),
			BookingID:      booking.ID,
			AmountMinor:    amountMinor,
			Currency:       s.currency,
			Status:         domain.PaymentStatusPending,
			IdempotencyKey: idempotencyKey,
			CreatedAt:      time.Now(),
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}
	}

	reference, err := s.gateway.Charge(ctx, amountMinor, s.currency)
	if err != nil {
		// Charge failed; the booking stays pending and can be retried.
		_ = s.paymentRepo.UpdateResult(ctx, payment.ID, domain.PaymentStatusFailed, "")
		payment.Status = domain.PaymentStatusFailed
		if s.notificationService != nil {
			_ = s.notificationService.NotifyPaymentFailed(ctx, payment, booking.UserEmail)
		}
		return &ConfirmPaymentResponse{Payment: payment, Booking: booking}, nil
	}

	updated, err := domain.ApplyTransition(*booking, domain.TransitionEvent{
		Kind:            domain.EventPaymentSucceeded,
		ActorEmail:      req.ActorEmail,
		PaymentIntentID: reference,
		PaidAmount:      breakdown.Total,
	})
	if err != nil {
		return nil, err
	}

	// Guarded status update: if a cancel slipped in between the read and the
	// charge, this loses the race and surfaces the conflict to the caller.
	err = s.bookingRepo.RecordPayment(ctx, booking.ID, booking.Status, updated.Status, reference, breakdown.Total)
	if err != nil {
		_ = s.paymentRepo.UpdateResult(ctx, payment.ID, domain.PaymentStatusSucceeded, reference)
		return nil, err
	}

	if err := s.paymentRepo.UpdateResult(ctx, payment.ID, domain.PaymentStatusSucceeded, reference); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatusSucceeded
	payment.Reference = reference

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBooking(ctx, booking.ID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentSuccess(ctx, payment, booking.UserEmail)
	}

	return &ConfirmPaymentResponse{Payment: payment, Booking: &updated}, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	return s.paymentRepo.GetByID(ctx, paymentID)
}
