package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rental/internal/domain"
	"rental/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, booking_id, amount_minor, currency, reference, status, idempotency_key, created_at`

// Create persists a new payment attempt.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var reference sql.NullString
	if payment.Reference != "" {
		reference = sql.NullString{String: payment.Reference, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.AmountMinor,
		payment.Currency,
		reference,
		payment.Status,
		payment.IdempotencyKey,
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByIdempotencyKey retrieves the payment for an idempotency key.
// Returns nil without error if no payment exists with the given key.
// A succeeded row wins over any other so a retried charge always finds
// the authoritative outcome first.
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE idempotency_key = $1
		ORDER BY (status = 'succeeded') DESC, created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// UpdateResult records the outcome of a gateway charge.
func (r *PaymentRepository) UpdateResult(ctx context.Context, id string, status domain.PaymentStatus, reference string) error {
	query := `UPDATE payments SET status = $1, reference = $2 WHERE id = $3`

	var ref sql.NullString
	if reference != "" {
		ref = sql.NullString{String: reference, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, status, ref, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var reference sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.AmountMinor,
		&payment.Currency,
		&reference,
		&payment.Status,
		&payment.IdempotencyKey,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reference.Valid {
		payment.Reference = reference.String
	}

	return &payment, nil
}
