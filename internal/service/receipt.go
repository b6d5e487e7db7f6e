package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/pricing"
)

// ReceiptService generates itemized receipts for paid bookings.
type ReceiptService struct {
	notificationService *NotificationService
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(notificationService *NotificationService) *ReceiptService {
	return &ReceiptService{
		notificationService: notificationService,
	}
}

// GenerateReceipt builds a receipt for a confirmed or completed booking. The
// itemization is recomputed from the booking's frozen daily rate and period;
// the paid amount is reported as stored at confirmation time.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, booking *domain.Booking) (*domain.Receipt, error) {
	if booking == nil {
		return nil, ErrInvalidBookingID
	}

	if booking.PaymentIntentID == "" {
		return nil, ErrNotConfirmed
	}

	// Display path: clamp rather than fail, a receipt view must not crash.
	days := pricing.DisplayDuration(booking.Period.StartDate, booking.Period.EndDate)

	breakdown, err := pricing.ComputeBreakdown(booking.PricePerDay, days)
	if err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		CarID:           booking.CarID,
		CarModel:        booking.CarModel,
		UserEmail:       booking.UserEmail,
		Period:          booking.Period,
		Pickup:          booking.Pickup,
		Days:            breakdown.Days,
		BaseAmount:      breakdown.BaseAmount,
		TaxAmount:       breakdown.TaxAmount,
		ServiceFee:      breakdown.ServiceFee,
		Total:           breakdown.Total,
		PaidAmount:      booking.PaidAmount,
		PaymentIntentID: booking.PaymentIntentID,
		CreatedAt:       time.Now(),
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyReceiptReady(ctx, receipt)
	}

	return receipt, nil
}

// FormatReceipt renders the receipt as plain text for email or print.
func (s *ReceiptService) FormatReceipt(receipt *domain.Receipt) string {
	return `
=====================================
        RENTAL RECEIPT
=====================================
Receipt ID: ` + receipt.ID + `
Booking ID: ` + receipt.BookingID + `
Date: ` + receipt.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

RENTAL DETAILS
-------------------------------------
Car:        ` + receipt.CarModel + `
Pickup:     ` + receipt.Pickup.Name + `, ` + receipt.Pickup.Address + `
From:       ` + receipt.Period.StartDate.Format("Jan 02, 2006") + `
To:         ` + receipt.Period.EndDate.Format("Jan 02, 2006") + `
Days:       ` + fmt.Sprintf("%d", receipt.Days) + `

COST BREAKDOWN
-------------------------------------
Base Amount:      $` + formatFloat(receipt.BaseAmount) + `
Tax (10%):        $` + formatFloat(receipt.TaxAmount) + `
Service Fee:      $` + formatFloat(receipt.ServiceFee) + `
-------------------------------------
TOTAL:            $` + formatFloat(receipt.Total) + `
PAID:             $` + formatFloat(receipt.PaidAmount) + `

PAYMENT
-------------------------------------
Reference: ` + receipt.PaymentIntentID + `

=====================================
     Thank you for renting with us!
=====================================
`
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
