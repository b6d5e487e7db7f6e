package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rental/internal/domain"
	"rental/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, car_id, car_model, price_per_day, start_date, end_date, pickup_name, pickup_address, user_email, status, payment_intent_id, paid_amount, booking_date`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var paymentIntentID sql.NullString
	if booking.PaymentIntentID != "" {
		paymentIntentID = sql.NullString{String: booking.PaymentIntentID, Valid: true}
	}

	var paidAmount sql.NullFloat64
	if booking.PaidAmount > 0 {
		paidAmount = sql.NullFloat64{Float64: booking.PaidAmount, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CarID,
		booking.CarModel,
		booking.PricePerDay,
		booking.Period.StartDate,
		booking.Period.EndDate,
		booking.Pickup.Name,
		booking.Pickup.Address,
		booking.UserEmail,
		booking.Status,
		paymentIntentID,
		paidAmount,
		booking.BookingDate,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY booking_date DESC LIMIT 500`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByUserEmail retrieves the bookings made by one renter.
func (r *BookingRepository) GetByUserEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_email = $1 ORDER BY booking_date DESC`

	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// CountOverlapping counts pending and confirmed bookings of the given car
// whose rental period overlaps the given one.
func (r *BookingRepository) CountOverlapping(ctx context.Context, carID string, period domain.RentalPeriod) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE car_id = $1
		  AND status IN ($2, $3)
		  AND start_date <= $4
		  AND end_date >= $5
	`

	var count int
	err := r.q.QueryRowContext(ctx, query,
		carID,
		domain.BookingStatusPending,
		domain.BookingStatusConfirmed,
		period.EndDate,
		period.StartDate,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateStatus moves a booking from one status to another using a
// compare-and-set on the expected prior status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	return r.checkGuardedUpdate(ctx, result, id)
}

// RecordPayment moves the booking and stores the payment artifacts in the
// same guarded update, so a racing cancel can never interleave.
func (r *BookingRepository) RecordPayment(ctx context.Context, id string, from, to domain.BookingStatus, paymentIntentID string, paidAmount float64) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_intent_id = $2, paid_amount = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, to, paymentIntentID, paidAmount, id, from)
	if err != nil {
		return err
	}

	return r.checkGuardedUpdate(ctx, result, id)
}

// checkGuardedUpdate distinguishes a missing booking from a lost CAS race.
func (r *BookingRepository) checkGuardedUpdate(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		return repository.ErrStatusConflict
	}
	return repository.ErrNotFound
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var paymentIntentID sql.NullString
	var paidAmount sql.NullFloat64

	err := row.Scan(
		&booking.ID,
		&booking.CarID,
		&booking.CarModel,
		&booking.PricePerDay,
		&booking.Period.StartDate,
		&booking.Period.EndDate,
		&booking.Pickup.Name,
		&booking.Pickup.Address,
		&booking.UserEmail,
		&booking.Status,
		&paymentIntentID,
		&paidAmount,
		&booking.BookingDate,
	)
	if err != nil {
		return nil, err
	}

	if paymentIntentID.Valid {
		booking.PaymentIntentID = paymentIntentID.String
	}
	if paidAmount.Valid {
		booking.PaidAmount = paidAmount.Float64
	}

	return &booking, nil
}

func collectBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
