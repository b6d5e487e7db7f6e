package tests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/handler"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT HTTP STATUS
// ──────────────────────────────────────────────

func paymentRouter(gateway *MockGateway, bookingRepo *MockBookingRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewPaymentService(NewMockPaymentRepository(), bookingRepo, gateway, "usd", nil, nil, nil)
	h := handler.NewPaymentHandler(svc)

	router := gin.New()
	router.POST("/v1/payments", h.ConfirmPayment)
	return router
}

func TestConfirmPaymentHTTP_SucceededChargeCreated(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	router := paymentRouter(NewMockGateway(), bookingRepo)

	body := `{"bookingId":"booking-1","actorEmail":"renter@example.com"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for a succeeded charge, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConfirmPaymentHTTP_DeclinedChargePaymentRequired(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(bookingRepo, domain.BookingStatusPending, start, start.AddDate(0, 0, 5))

	gateway := NewMockGateway()
	gateway.SetFailure(ErrMockGatewayDown)
	router := paymentRouter(gateway, bookingRepo)

	body := `{"bookingId":"booking-1","actorEmail":"renter@example.com"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	// A declined charge must never look like a confirmed booking.
	if rec.Code != http.StatusPaymentRequired {
		t.Errorf("expected 402 for a declined charge, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"failed"`) {
		t.Errorf("expected the failed payment in the body, got %s", rec.Body.String())
	}
}
