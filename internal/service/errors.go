package service

import "errors"

var (
	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidCarID is returned when car ID is empty.
	ErrInvalidCarID = errors.New("invalid car id")

	// ErrInvalidUserEmail is returned when the renter email is empty.
	ErrInvalidUserEmail = errors.New("invalid user email")

	// ErrInvalidOwnerEmail is returned when the owner email is empty.
	ErrInvalidOwnerEmail = errors.New("invalid owner email")

	// ErrInvalidCarModel is returned when the car model name is empty.
	ErrInvalidCarModel = errors.New("invalid car model")

	// ErrInvalidPickupLocation is returned when the pickup location is incomplete.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidActor is returned when the acting user email is empty.
	ErrInvalidActor = errors.New("invalid acting user")

	// ErrActorNotAllowed is returned when the acting user may not perform the
	// operation on this booking.
	ErrActorNotAllowed = errors.New("user not allowed to perform this operation")

	// ErrCarNotListed is returned when booking an unlisted car.
	ErrCarNotListed = errors.New("car is not listed")

	// ErrCarUnavailable is returned when the car already has a pending or
	// confirmed booking overlapping the requested dates.
	ErrCarUnavailable = errors.New("car unavailable for the requested dates")

	// ErrCarBusy is returned when another booking attempt holds the car lock.
	ErrCarBusy = errors.New("car is being booked by another request")

	// ErrBookingBusy is returned when another request holds the booking's
	// transition lock.
	ErrBookingBusy = errors.New("booking is being updated by another request")

	// ErrBookingNotPending is returned when confirming payment on a booking
	// that is not awaiting payment.
	ErrBookingNotPending = errors.New("booking is not awaiting payment")

	// ErrRentalNotElapsed is returned when marking a booking complete before
	// its rental period has ended.
	ErrRentalNotElapsed = errors.New("rental period has not elapsed")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrGatewayUnavailable is returned when the payment gateway cannot be reached.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidUserName is returned when a user name is empty.
	ErrInvalidUserName = errors.New("invalid user name")

	// ErrInvalidUserRole is returned when a user role is not recognised.
	ErrInvalidUserRole = errors.New("invalid user role")

	// ErrNotConfirmed is returned when a receipt is requested for a booking
	// that was never paid.
	ErrNotConfirmed = errors.New("booking has no confirmed payment")
)
