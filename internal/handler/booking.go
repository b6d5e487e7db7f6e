package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rental/internal/domain"
	"rental/internal/pricing"
	"rental/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
	receiptService *service.ReceiptService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, receiptService *service.ReceiptService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		receiptService: receiptService,
	}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
// Field names mirror the persisted booking record.
type CreateBookingRequest struct {
	CarID     string `json:"carId"`
	UserEmail string `json:"userEmail"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CancelBookingRequest is the HTTP request body for cancelling a booking.
type CancelBookingRequest struct {
	ActorEmail string `json:"actorEmail"`
	Reason     string `json:"reason,omitempty"`
}

// CompleteBookingRequest is the HTTP request body for completing a booking.
type CompleteBookingRequest struct {
	ActorEmail string `json:"actorEmail"`
}

// RentalPeriodResponse is the wire form of a rental period.
type RentalPeriodResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// PickupLocationResponse is the wire form of a pickup location.
type PickupLocationResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	ID              string                 `json:"id"`
	CarID           string                 `json:"carId"`
	CarModel        string                 `json:"carModel"`
	PricePerDay     float64                `json:"pricePerDay"`
	RentalPeriod    RentalPeriodResponse   `json:"rentalPeriod"`
	PickupLocation  PickupLocationResponse `json:"pickupLocation"`
	UserEmail       string                 `json:"userEmail"`
	Status          string                 `json:"status"`
	Days            int                    `json:"days"`
	PaymentIntentID string                 `json:"paymentIntentId,omitempty"`
	PaidAmount      float64                `json:"paidAmount,omitempty"`
	BookingDate     string                 `json:"bookingDate"`
}

// CreateBookingResponse adds the quoted breakdown to the booking.
type CreateBookingResponse struct {
	Booking   BookingResponse   `json:"booking"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	start, err := pricing.ParseDate(req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := pricing.ParseDate(req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CarID:     req.CarID,
		UserEmail: req.UserEmail,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		Booking:   toBookingResponse(result.Booking),
		Breakdown: result.Breakdown,
	})
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetAll handles GET /v1/bookings?actorEmail=...
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("actorEmail"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), service.CancelBookingRequest{
		BookingID:  c.Param("id"),
		ActorEmail: req.ActorEmail,
		Reason:     req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CompleteBooking handles POST /v1/bookings/:id/complete
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	var req CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CompleteBooking(c.Request.Context(), service.CompleteBookingRequest{
		BookingID:  c.Param("id"),
		ActorEmail: req.ActorEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetReceipt handles GET /v1/bookings/:id/receipt
func (h *BookingHandler) GetReceipt(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, h.receiptService.FormatReceipt(receipt))
		return
	}

	respondJSON(c, http.StatusOK, toReceiptResponse(receipt))
}

// ReceiptResponse is the HTTP response for a booking receipt.
type ReceiptResponse struct {
	ID              string                 `json:"id"`
	BookingID       string                 `json:"bookingId"`
	CarID           string                 `json:"carId"`
	CarModel        string                 `json:"carModel"`
	UserEmail       string                 `json:"userEmail"`
	RentalPeriod    RentalPeriodResponse   `json:"rentalPeriod"`
	PickupLocation  PickupLocationResponse `json:"pickupLocation"`
	Days            int                    `json:"days"`
	BaseAmount      float64                `json:"baseAmount"`
	TaxAmount       float64                `json:"taxAmount"`
	ServiceFee      float64                `json:"serviceFee"`
	Total           float64                `json:"total"`
	PaidAmount      float64                `json:"paidAmount"`
	PaymentIntentID string                 `json:"paymentIntentId"`
}

func toReceiptResponse(r *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:              r.ID,
		BookingID:       r.BookingID,
		CarID:           r.CarID,
		CarModel:        r.CarModel,
		UserEmail:       r.UserEmail,
		RentalPeriod:    toPeriodResponse(r.Period),
		PickupLocation:  PickupLocationResponse{Name: r.Pickup.Name, Address: r.Pickup.Address},
		Days:            r.Days,
		BaseAmount:      r.BaseAmount,
		TaxAmount:       r.TaxAmount,
		ServiceFee:      r.ServiceFee,
		Total:           r.Total,
		PaidAmount:      r.PaidAmount,
		PaymentIntentID: r.PaymentIntentID,
	}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		CarID:           b.CarID,
		CarModel:        b.CarModel,
		PricePerDay:     b.PricePerDay,
		RentalPeriod:    toPeriodResponse(b.Period),
		PickupLocation:  PickupLocationResponse{Name: b.Pickup.Name, Address: b.Pickup.Address},
		UserEmail:       b.UserEmail,
		Status:          string(b.Status),
		Days:            pricing.DisplayDuration(b.Period.StartDate, b.Period.EndDate),
		PaymentIntentID: b.PaymentIntentID,
		PaidAmount:      b.PaidAmount,
		BookingDate:     b.BookingDate.Format(time.RFC3339),
	}
}

func toPeriodResponse(p domain.RentalPeriod) RentalPeriodResponse {
	return RentalPeriodResponse{
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
	}
}
