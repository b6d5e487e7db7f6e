package domain

import "time"

// Receipt is the itemized cost summary for a paid booking.
type Receipt struct {
	ID              string
	BookingID       string
	CarID           string
	CarModel        string
	UserEmail       string
	Period          RentalPeriod
	Pickup          PickupLocation
	Days            int
	BaseAmount      float64
	TaxAmount       float64
	ServiceFee      float64
	Total           float64
	PaidAmount      float64
	PaymentIntentID string
	CreatedAt       time.Time
}
