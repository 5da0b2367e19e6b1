package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

type RentalStore struct {
	Pool *pgxpool.Pool
}

func NewRentalStore(pool *pgxpool.Pool) *RentalStore {
	return &RentalStore{Pool: pool}
}

const rentalSelectCols = `id, rental_number, vehicle_id, customer_id, status, starts_at, ends_at,
	actual_return_at, start_odometer_km, end_odometer_km, daily_rate_php, total_due_php,
	version, "createdAt", "updatedAt"`

func scanRental(row pgx.Row) (*domain.Rental, error) {
	var r domain.Rental
	var totalDue *domain.Money
	err := row.Scan(&r.ID, &r.RentalNumber, &r.VehicleID, &r.CustomerID, &r.Status, &r.StartsAt, &r.EndsAt,
		&r.ActualReturnAt, &r.StartOdometerKm, &r.EndOdometerKm, &r.DailyRate, &totalDue,
		&r.Version, &r.CreatedAt, &r.UpdatedAt)
	if totalDue != nil {
		r.TotalDue = *totalDue
	}
	r.Currency = domain.Currency
	return &r, err
}

// Create inserts the rental and its companion rental_period row in the same
// transaction. A concurrent overlapping booking surfaces as a Postgres
// exclusion violation on rental_periods, which this method maps to
// domain.CodeRentalConflict — the storage layer, not an application lock,
// is the authority on booking conflicts.
func (s *RentalStore) Create(ctx context.Context, tx pgx.Tx, r *domain.Rental) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO rentals (vehicle_id, customer_id, status, starts_at, ends_at, daily_rate_php, total_due_php)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, rental_number, version, "createdAt", "updatedAt"`,
		r.VehicleID, r.CustomerID, r.Status, r.StartsAt, r.EndsAt, r.DailyRate, r.TotalDue)
	if err := row.Scan(&r.ID, &r.RentalNumber, &r.Version, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO rental_periods (rental_id, vehicle_id, status, period)
		VALUES ($1,$2,$3, tstzrange($4,$5,'[)'))`,
		r.ID, r.VehicleID, r.Status, r.StartsAt, r.EndsAt)
	if isExclusionViolation(err) {
		return domain.NewError(domain.CodeRentalConflict, "rental window overlaps an existing reservation for this vehicle")
	}
	return err
}

func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ExclusionViolation
	}
	return false
}

func (s *RentalStore) Get(ctx context.Context, q Querier, id string) (*domain.Rental, error) {
	row := q.QueryRow(ctx, `SELECT `+rentalSelectCols+` FROM rentals WHERE id=$1`, id)
	r, err := scanRental(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("rental")
	}
	return r, err
}

func (s *RentalStore) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Rental, error) {
	row := tx.QueryRow(ctx, `SELECT `+rentalSelectCols+` FROM rentals WHERE id=$1 FOR UPDATE`, id)
	r, err := scanRental(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("rental")
	}
	return r, err
}

// UpdateStatus persists status/odometer/return-time transitions. When the
// rental is leaving {RESERVED,ACTIVE} the companion rental_period row's
// status is updated in lockstep so the exclusion constraint stops guarding
// this window and frees the vehicle for new reservations.
func (s *RentalStore) UpdateStatus(ctx context.Context, tx pgx.Tx, r *domain.Rental) error {
	tag, err := tx.Exec(ctx, `
		UPDATE rentals SET status=$1, actual_return_at=$2, start_odometer_km=$3, end_odometer_km=$4
		WHERE id=$5 AND version=$6`,
		r.Status, r.ActualReturnAt, r.StartOdometerKm, r.EndOdometerKm, r.ID, r.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeOptimisticLock, "rental was modified concurrently")
	}
	_, err = tx.Exec(ctx, `UPDATE rental_periods SET status=$1 WHERE rental_id=$2`, r.Status, r.ID)
	return err
}

// ListByVehicle returns up to limit of vehicleID's rentals, newest first,
// in every status; it does no overlap check (the exclusion constraint on
// rental_periods is what rejects conflicting bookings).
func (s *RentalStore) ListByVehicle(ctx context.Context, q Querier, vehicleID string, limit int) ([]domain.Rental, error) {
	rows, err := q.Query(ctx, `
		SELECT `+rentalSelectCols+` FROM rentals
		WHERE vehicle_id=$1 ORDER BY "createdAt" DESC LIMIT $2`, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Rental
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	return items, nil
}

func (s *RentalStore) List(ctx context.Context, q Querier, limit int, cursor *string) (Page[domain.Rental], error) {
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM rentals`).Scan(&total); err != nil {
		return Page[domain.Rental]{}, err
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		createdAt, id, decErr := DecodeCursor(*cursor)
		if decErr != nil {
			return Page[domain.Rental]{}, domain.ValidationError("cursor", "invalid cursor")
		}
		rows, err = q.Query(ctx, `
			SELECT `+rentalSelectCols+` FROM rentals
			WHERE ("createdAt", id) < ($1, $2)
			ORDER BY "createdAt" DESC, id DESC LIMIT $3`, createdAt, id, limit+1)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+rentalSelectCols+` FROM rentals
			ORDER BY "createdAt" DESC, id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return Page[domain.Rental]{}, err
	}
	defer rows.Close()

	var items []domain.Rental
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			return Page[domain.Rental]{}, err
		}
		items = append(items, *r)
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return Page[domain.Rental]{Items: items, NextCursor: next, Limit: limit, Total: total}, nil
}
