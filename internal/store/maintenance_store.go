package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

type MaintenanceStore struct {
	Pool *pgxpool.Pool
}

func NewMaintenanceStore(pool *pgxpool.Pool) *MaintenanceStore {
	return &MaintenanceStore{Pool: pool}
}

const maintenanceSelectCols = `id, job_number, vehicle_id, job_type, status, priority, scheduled_at,
	started_at, completed_at, odometer_km_at_service, labor_cost_php, parts_cost_php, total_cost_php,
	notes, version, "createdAt", "updatedAt"`

func scanMaintenance(row pgx.Row) (*domain.MaintenanceJob, error) {
	var j domain.MaintenanceJob
	var notes *string
	var totalCost domain.Money
	err := row.Scan(&j.ID, &j.JobNumber, &j.VehicleID, &j.JobType, &j.Status, &j.Priority, &j.ScheduledAt,
		&j.StartedAt, &j.CompletedAt, &j.OdometerKmAtService, &j.LaborCost, &j.PartsCost, &totalCost,
		&notes, &j.Version, &j.CreatedAt, &j.UpdatedAt)
	if notes != nil {
		j.Notes = *notes
	}
	return &j, err
}

func (s *MaintenanceStore) Create(ctx context.Context, tx pgx.Tx, j *domain.MaintenanceJob) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO maintenance_jobs (vehicle_id, job_type, status, priority, scheduled_at, labor_cost_php, parts_cost_php, total_cost_php, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, job_number, version, "createdAt", "updatedAt"`,
		j.VehicleID, j.JobType, j.Status, j.Priority, j.ScheduledAt, j.LaborCost, j.PartsCost, j.TotalCost(), nullableString(j.Notes))
	if err := row.Scan(&j.ID, &j.JobNumber, &j.Version, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return err
	}
	for _, p := range j.Parts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO maintenance_parts (maintenance_job_id, part_name, quantity, unit_cost_php)
			VALUES ($1,$2,$3,$4)`, j.ID, p.PartName, p.Quantity, p.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

func (s *MaintenanceStore) Get(ctx context.Context, q Querier, id string) (*domain.MaintenanceJob, error) {
	row := q.QueryRow(ctx, `SELECT `+maintenanceSelectCols+` FROM maintenance_jobs WHERE id=$1`, id)
	j, err := scanMaintenance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("maintenance job")
	}
	return j, err
}

func (s *MaintenanceStore) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.MaintenanceJob, error) {
	row := tx.QueryRow(ctx, `SELECT `+maintenanceSelectCols+` FROM maintenance_jobs WHERE id=$1 FOR UPDATE`, id)
	j, err := scanMaintenance(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("maintenance job")
	}
	return j, err
}

func (s *MaintenanceStore) UpdateStatus(ctx context.Context, tx pgx.Tx, j *domain.MaintenanceJob) error {
	tag, err := tx.Exec(ctx, `
		UPDATE maintenance_jobs SET status=$1, started_at=$2, completed_at=$3, odometer_km_at_service=$4
		WHERE id=$5 AND version=$6`,
		j.Status, j.StartedAt, j.CompletedAt, j.OdometerKmAtService, j.ID, j.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeOptimisticLock, "maintenance job was modified concurrently")
	}
	return nil
}

func (s *MaintenanceStore) List(ctx context.Context, q Querier, limit int, cursor *string) (Page[domain.MaintenanceJob], error) {
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_jobs`).Scan(&total); err != nil {
		return Page[domain.MaintenanceJob]{}, err
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		createdAt, id, decErr := DecodeCursor(*cursor)
		if decErr != nil {
			return Page[domain.MaintenanceJob]{}, domain.ValidationError("cursor", "invalid cursor")
		}
		rows, err = q.Query(ctx, `
			SELECT `+maintenanceSelectCols+` FROM maintenance_jobs
			WHERE ("createdAt", id) < ($1, $2)
			ORDER BY "createdAt" DESC, id DESC LIMIT $3`, createdAt, id, limit+1)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+maintenanceSelectCols+` FROM maintenance_jobs
			ORDER BY "createdAt" DESC, id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return Page[domain.MaintenanceJob]{}, err
	}
	defer rows.Close()

	var items []domain.MaintenanceJob
	for rows.Next() {
		j, err := scanMaintenance(rows)
		if err != nil {
			return Page[domain.MaintenanceJob]{}, err
		}
		items = append(items, *j)
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return Page[domain.MaintenanceJob]{Items: items, NextCursor: next, Limit: limit, Total: total}, nil
}
