package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

// VehicleStore is the raw-SQL persistence boundary for vehicles — no ORM,
// one query per method, columns listed explicitly so a schema change is a
// compile-time-visible diff.
type VehicleStore struct {
	Pool *pgxpool.Pool
}

func NewVehicleStore(pool *pgxpool.Pool) *VehicleStore {
	return &VehicleStore{Pool: pool}
}

const vehicleSelectCols = `id, vin, license_plate, make, model, "year", color, passenger_capacity,
	odometer_km, status, daily_rate_php, currency, last_location_lat, last_location_lng,
	route_progress, bearing, version, "createdAt", "updatedAt"`

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var lat, lng, progress, bearing *float64
	err := row.Scan(&v.ID, &v.VIN, &v.LicensePlate, &v.Make, &v.Model, &v.Year, &v.Color, &v.PassengerCapacity,
		&v.OdometerKm, &v.Status, &v.DailyRate, &v.Currency, &lat, &lng,
		&progress, &bearing, &v.Version, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		v.LastLocation = &domain.Location{Lat: *lat, Lng: *lng}
	}
	v.RouteProgress = progress
	v.Bearing = bearing
	return &v, nil
}

func (s *VehicleStore) Create(ctx context.Context, q Querier, v *domain.Vehicle) error {
	row := q.QueryRow(ctx, `
		INSERT INTO vehicles (vin, license_plate, make, model, "year", color, passenger_capacity, daily_rate_php, currency)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, odometer_km, status, version, "createdAt", "updatedAt"`,
		v.VIN, v.LicensePlate, v.Make, v.Model, v.Year, v.Color, v.PassengerCapacity, v.DailyRate, v.Currency)
	return row.Scan(&v.ID, &v.OdometerKm, &v.Status, &v.Version, &v.CreatedAt, &v.UpdatedAt)
}

func (s *VehicleStore) Get(ctx context.Context, q Querier, id string) (*domain.Vehicle, error) {
	row := q.QueryRow(ctx, `SELECT `+vehicleSelectCols+` FROM vehicles WHERE id=$1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("vehicle")
	}
	return v, err
}

// GetForUpdate locks the row for the duration of the caller's transaction —
// used by every mutation path so the version check below is race-free.
func (s *VehicleStore) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Vehicle, error) {
	row := tx.QueryRow(ctx, `SELECT `+vehicleSelectCols+` FROM vehicles WHERE id=$1 FOR UPDATE`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("vehicle")
	}
	return v, err
}

// UpdateStatus writes back status (and odometer, where relevant) guarded by
// an optimistic-locking version check. Zero affected rows means the caller's
// view was stale.
func (s *VehicleStore) UpdateStatus(ctx context.Context, tx pgx.Tx, v *domain.Vehicle) error {
	tag, err := tx.Exec(ctx, `
		UPDATE vehicles SET status=$1, odometer_km=$2
		WHERE id=$3 AND version=$4`,
		v.Status, v.OdometerKm, v.ID, v.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeOptimisticLock, "vehicle was modified concurrently")
	}
	return nil
}

// InsertOdometerReading appends to the monotonic reading log; the database
// trigger both enforces the invariant and syncs vehicles.odometer_km.
func (s *VehicleStore) InsertOdometerReading(ctx context.Context, q Querier, vehicleID string, readingKm int64, source string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO odometer_readings (vehicle_id, reading_km, source) VALUES ($1,$2,$3)`,
		vehicleID, readingKm, source)
	return err
}

func (s *VehicleStore) List(ctx context.Context, q Querier, limit int, cursor *string) (Page[domain.Vehicle], error) {
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&total); err != nil {
		return Page[domain.Vehicle]{}, err
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		createdAt, id, decErr := DecodeCursor(*cursor)
		if decErr != nil {
			return Page[domain.Vehicle]{}, domain.ValidationError("cursor", "invalid cursor")
		}
		rows, err = q.Query(ctx, `
			SELECT `+vehicleSelectCols+` FROM vehicles
			WHERE ("createdAt", id) < ($1, $2)
			ORDER BY "createdAt" DESC, id DESC LIMIT $3`, createdAt, id, limit+1)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+vehicleSelectCols+` FROM vehicles
			ORDER BY "createdAt" DESC, id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return Page[domain.Vehicle]{}, err
	}
	defer rows.Close()

	var items []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return Page[domain.Vehicle]{}, err
		}
		items = append(items, *v)
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return Page[domain.Vehicle]{Items: items, NextCursor: next, Limit: limit, Total: total}, nil
}
