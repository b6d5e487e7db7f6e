package domain

import "time"

// PaymentStatus represents the current status of a gateway charge.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one attempted charge against the payment gateway. Amounts are in
// minor units (cents) because that is what the gateway accepts.
type Payment struct {
	ID             string
	BookingID      string
	AmountMinor    int64
	Currency       string
	Reference      string
	Status         PaymentStatus
	IdempotencyKey string
	CreatedAt      time.Time
}
