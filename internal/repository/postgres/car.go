package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rental/internal/domain"
	"rental/internal/repository"
)

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	q Querier
}

// NewCarRepository creates a new PostgreSQL car repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{q: db}
}

// NewCarRepositoryWithTx creates a car repository using a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{q: tx}
}

const carColumns = `id, owner_email, model, price_per_day, location_name, location_address, status, created_at`

// Create persists a new car.
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (` + carColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		car.ID,
		car.OwnerEmail,
		car.Model,
		car.PricePerDay,
		car.Location.Name,
		car.Location.Address,
		car.Status,
		car.CreatedAt,
	)

	return err
}

// GetByID retrieves a car by ID.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return car, nil
}

// GetAll retrieves all listed cars.
func (r *CarRepository) GetAll(ctx context.Context) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, domain.CarStatusListed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCars(rows)
}

// GetByOwnerEmail retrieves every car of one owner, listed or not.
func (r *CarRepository) GetByOwnerEmail(ctx context.Context, email string) ([]*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_email = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCars(rows)
}

// UpdateDailyRate changes the daily rate of a car.
func (r *CarRepository) UpdateDailyRate(ctx context.Context, id string, pricePerDay float64) error {
	query := `UPDATE cars SET price_per_day = $1 WHERE id = $2`
	return r.execExpectingRow(ctx, query, pricePerDay, id)
}

// UpdateStatus lists or unlists a car.
func (r *CarRepository) UpdateStatus(ctx context.Context, id string, status domain.CarStatus) error {
	query := `UPDATE cars SET status = $1 WHERE id = $2`
	return r.execExpectingRow(ctx, query, status, id)
}

func (r *CarRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
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

func scanCar(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	err := row.Scan(
		&car.ID,
		&car.OwnerEmail,
		&car.Model,
		&car.PricePerDay,
		&car.Location.Name,
		&car.Location.Address,
		&car.Status,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func collectCars(rows *sql.Rows) ([]*domain.Car, error) {
	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}
