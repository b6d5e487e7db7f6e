package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ConfirmPaymentRequest is the HTTP request body for confirming a booking payment.
type ConfirmPaymentRequest struct {
	BookingID  string `json:"bookingId"`
	ActorEmail string `json:"actorEmail"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID             string `json:"id"`
	BookingID      string `json:"bookingId"`
	AmountMinor    int64  `json:"amountMinor"`
	Currency       string `json:"currency"`
	Reference      string `json:"reference,omitempty"`
	Status         string `json:"status"`
	IdempotencyKey string `json:"idempotencyKey"`
	CreatedAt      string `json:"createdAt"`
}

// ConfirmPaymentResponse pairs the charge with the updated booking.
type ConfirmPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Booking BookingResponse `json:"booking"`
}

// ConfirmPayment handles POST /v1/payments
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.BookingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bookingId is required"})
		return
	}

	result, err := h.paymentService.ConfirmPayment(c.Request.Context(), service.ConfirmPaymentRequest{
		BookingID:  req.BookingID,
		ActorEmail: req.ActorEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// A declined charge is reported with a payment-required status so
	// clients never mistake the failed attempt for a confirmed booking.
	code := http.StatusCreated
	if result.Payment.Status == domain.PaymentStatusFailed {
		code = http.StatusPaymentRequired
	}

	respondJSON(c, code, ConfirmPaymentResponse{
		Payment: toPaymentResponse(result.Payment),
		Booking: toBookingResponse(result.Booking),
	})
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		AmountMinor:    p.AmountMinor,
		Currency:       p.Currency,
		Reference:      p.Reference,
		Status:         string(p.Status),
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
