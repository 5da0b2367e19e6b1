package maintenance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

// Service schedules and runs maintenance jobs, coupling each transition to
// the vehicle's availability the way the rental engine couples its own
// transitions — in the same transaction, never as a follow-up call.
type Service struct {
	pool     *pgxpool.Pool
	jobs     *store.MaintenanceStore
	vehicles *store.VehicleStore
}

func NewService(pool *pgxpool.Pool, jobs *store.MaintenanceStore, vehicles *store.VehicleStore) *Service {
	return &Service{pool: pool, jobs: jobs, vehicles: vehicles}
}

func (s *Service) Schedule(ctx context.Context, vehicleID string, jobType domain.MaintenanceType, scheduledAt time.Time, priority int, parts []domain.MaintenancePart) (*domain.MaintenanceJob, error) {
	job, err := domain.NewMaintenanceJob(vehicleID, jobType, scheduledAt)
	if err != nil {
		return nil, err
	}
	job.Priority = priority
	job.Parts = parts
	for _, p := range parts {
		job.PartsCost += domain.Money(p.Quantity) * p.UnitCost
	}

	err = store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := s.vehicles.GetForUpdate(ctx, tx, vehicleID); err != nil {
			return err
		}
		return s.jobs.Create(ctx, tx, job)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Start transitions SCHEDULED -> IN_PROGRESS and requires the vehicle not
// be currently RENTED; otherwise it fails with INVALID_STATE and the
// caller must retry once the active rental completes.
func (s *Service) Start(ctx context.Context, jobID string, startedAt time.Time) (*domain.MaintenanceJob, error) {
	var started *domain.MaintenanceJob
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		job, err := s.jobs.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if err := job.Start(startedAt); err != nil {
			return err
		}

		vehicle, err := s.vehicles.GetForUpdate(ctx, tx, job.VehicleID)
		if err != nil {
			return err
		}
		if err := vehicle.MarkInMaintenance(); err != nil {
			return err
		}
		if err := s.vehicles.UpdateStatus(ctx, tx, vehicle); err != nil {
			return err
		}
		if err := s.jobs.UpdateStatus(ctx, tx, job); err != nil {
			return err
		}
		started = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return started, nil
}

func (s *Service) Complete(ctx context.Context, jobID string, completedAt time.Time, odometerKm int64) (*domain.MaintenanceJob, error) {
	return s.finish(ctx, jobID, func(job *domain.MaintenanceJob) error {
		return job.Complete(completedAt, odometerKm)
	})
}

func (s *Service) Cancel(ctx context.Context, jobID string) (*domain.MaintenanceJob, error) {
	return s.finish(ctx, jobID, func(job *domain.MaintenanceJob) error {
		return job.Cancel()
	})
}

// finish runs the given domain transition and, if it releases the vehicle,
// flips the vehicle back to AVAILABLE iff it is currently MAINTENANCE.
func (s *Service) finish(ctx context.Context, jobID string, transition func(*domain.MaintenanceJob) error) (*domain.MaintenanceJob, error) {
	var result *domain.MaintenanceJob
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		job, err := s.jobs.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if err := transition(job); err != nil {
			return err
		}
		if err := s.jobs.UpdateStatus(ctx, tx, job); err != nil {
			return err
		}

		if job.ReleasesVehicle() {
			vehicle, err := s.vehicles.GetForUpdate(ctx, tx, job.VehicleID)
			if err != nil {
				return err
			}
			if vehicle.Status == domain.VehicleMaintenance {
				if err := vehicle.ReleaseToAvailable(); err != nil {
					return err
				}
				if err := s.vehicles.UpdateStatus(ctx, tx, vehicle); err != nil {
					return err
				}
			}
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.MaintenanceJob, error) {
	return s.jobs.Get(ctx, s.pool, id)
}

func (s *Service) List(ctx context.Context, limit int, cursor *string) (store.Page[domain.MaintenanceJob], error) {
	return s.jobs.List(ctx, s.pool, store.ClampLimit(limit), cursor)
}
