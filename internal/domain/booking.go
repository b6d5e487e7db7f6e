package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
	BookingStatusCompleted BookingStatus = "completed"
)

// RentalPeriod is the requested date range of a booking.
// StartDate must not be after EndDate; a same-day range bills as one day.
type RentalPeriod struct {
	StartDate time.Time
	EndDate   time.Time
}

// Overlaps reports whether two rental periods share at least one day.
func (p RentalPeriod) Overlaps(other RentalPeriod) bool {
	return !p.StartDate.After(other.EndDate) && !other.StartDate.After(p.EndDate)
}

// PickupLocation is where the renter collects the car.
type PickupLocation struct {
	Name    string
	Address string
}

// Booking represents a reservation of a specific car for a date range.
// PricePerDay is copied from the car at creation time so later rate changes
// never affect an existing booking. PaymentIntentID and PaidAmount are set
// only when payment is confirmed; PaidAmount is a frozen snapshot of the
// breakdown total at that moment.
type Booking struct {
	ID              string
	CarID           string
	CarModel        string
	PricePerDay     float64
	Period          RentalPeriod
	Pickup          PickupLocation
	UserEmail       string
	Status          BookingStatus
	PaymentIntentID string
	PaidAmount      float64
	BookingDate     time.Time
}

var (
	// ErrInvalidTransition is returned for any lifecycle move the status
	// machine does not allow, including every move out of a terminal status.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrMissingPaymentProof is returned when a confirmation event lacks a
	// payment reference or a positive paid amount.
	ErrMissingPaymentProof = errors.New("payment reference and paid amount required to confirm")
)

// AllowedTransitions encodes the booking lifecycle. Canceled and completed
// have no outgoing edges.
var AllowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCanceled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCanceled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EventKind identifies a lifecycle event.
type EventKind string

const (
	EventPaymentSucceeded EventKind = "PAYMENT_SUCCEEDED"
	EventCancel           EventKind = "CANCEL"
	EventComplete         EventKind = "COMPLETE"
)

// TransitionEvent carries a lifecycle event and its payload. ActorEmail is
// always explicit; there is no ambient session identity.
type TransitionEvent struct {
	Kind            EventKind
	ActorEmail      string
	PaymentIntentID string
	PaidAmount      float64
}

// target maps an event to the status it drives the booking into.
func (e TransitionEvent) target() (BookingStatus, bool) {
	switch e.Kind {
	case EventPaymentSucceeded:
		return BookingStatusConfirmed, true
	case EventCancel:
		return BookingStatusCanceled, true
	case EventComplete:
		return BookingStatusCompleted, true
	}
	return "", false
}

// ApplyTransition returns a copy of the booking advanced by the given event.
// The input booking is never mutated. Illegal moves fail with
// ErrInvalidTransition; a confirmation without payment proof fails with
// ErrMissingPaymentProof. Cancelling a confirmed booking keeps its payment
// artifacts (refunds are an external concern).
func ApplyTransition(b Booking, ev TransitionEvent) (Booking, error) {
	to, ok := ev.target()
	if !ok {
		return b, ErrInvalidTransition
	}

	if !CanTransition(b.Status, to) {
		return b, ErrInvalidTransition
	}

	if ev.Kind == EventPaymentSucceeded {
		if ev.PaymentIntentID == "" || ev.PaidAmount <= 0 {
			return b, ErrMissingPaymentProof
		}
		b.PaymentIntentID = ev.PaymentIntentID
		b.PaidAmount = ev.PaidAmount
	}

	b.Status = to
	return b, nil
}
