package rental

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/accounting"
	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

// Service orchestrates the rental lifecycle. Every use-case that crosses
// the rental/vehicle/ledger boundary runs inside a single transaction via
// store.WithTx — there is no distributed transaction, no separate service
// calls committing independently.
type Service struct {
	pool     *pgxpool.Pool
	rentals  *store.RentalStore
	vehicles *store.VehicleStore
	ledger   *accounting.Service
	outbox   *store.OutboxStore
}

func NewService(pool *pgxpool.Pool, rentals *store.RentalStore, vehicles *store.VehicleStore, ledger *accounting.Service, outbox *store.OutboxStore) *Service {
	return &Service{pool: pool, rentals: rentals, vehicles: vehicles, ledger: ledger, outbox: outbox}
}

// CreateRental requires the caller to have already confirmed the customer
// is ACTIVE and holds a driver's license that has not expired — both are
// read in the HTTP layer since they're properties of the customer row, not
// the vehicle row this transaction locks.
func (s *Service) CreateRental(ctx context.Context, vehicleID, customerID string, startsAt, endsAt time.Time, customerEligible bool) (*domain.Rental, error) {
	if !customerEligible {
		return nil, domain.ValidationError("customerId", "customer is not active or has no valid driver's license")
	}

	var created *domain.Rental
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		vehicle, err := s.vehicles.GetForUpdate(ctx, tx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle.Status != domain.VehicleAvailable {
			return domain.InvalidState("vehicle is not AVAILABLE")
		}

		r, err := domain.NewRental(vehicleID, customerID, startsAt, endsAt, vehicle.DailyRate)
		if err != nil {
			return err
		}
		if err := s.rentals.Create(ctx, tx, r); err != nil {
			return err
		}
		if err := s.outbox.Append(ctx, tx, "rental", r.ID, "rental.reserved", r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ActivateRental transitions RESERVED -> ACTIVE, sets the vehicle RENTED,
// and posts the activation ledger entry in the same transaction.
func (s *Service) ActivateRental(ctx context.Context, rentalID string, startOdometerKm int64) (*domain.Rental, error) {
	var activated *domain.Rental
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		r, err := s.rentals.GetForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if err := r.Activate(startOdometerKm); err != nil {
			return err
		}
		if err := s.rentals.UpdateStatus(ctx, tx, r); err != nil {
			return err
		}

		vehicle, err := s.vehicles.GetForUpdate(ctx, tx, r.VehicleID)
		if err != nil {
			return err
		}
		if err := vehicle.MarkRented(); err != nil {
			return err
		}
		if err := s.vehicles.UpdateStatus(ctx, tx, vehicle); err != nil {
			return err
		}

		ar, err := s.ledger.AccountByCode(ctx, domain.AccountCodeAR)
		if err != nil {
			return err
		}
		revenue, err := s.ledger.AccountByCode(ctx, domain.AccountCodeRevenue)
		if err != nil {
			return err
		}
		ref := "rental-" + r.ID + "-activation"
		lines := []domain.LedgerLine{
			{AccountID: ar.ID, Debit: r.TotalDue},
			{AccountID: revenue.ID, Credit: r.TotalDue},
		}
		if _, err := s.ledger.Post(ctx, tx, ref, "rental activation "+r.RentalNumber, lines); err != nil {
			return err
		}

		activated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activated, nil
}

// CompleteRental transitions ACTIVE -> COMPLETED, releases the vehicle back
// to AVAILABLE, and folds the final odometer reading through the vehicle's
// monotonicity-enforcing trigger.
func (s *Service) CompleteRental(ctx context.Context, rentalID string, finalMileageKm int64) (*domain.Rental, error) {
	var completed *domain.Rental
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		r, err := s.rentals.GetForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if err := r.Complete(finalMileageKm, time.Now().UTC()); err != nil {
			return err
		}
		if err := s.rentals.UpdateStatus(ctx, tx, r); err != nil {
			return err
		}

		vehicle, err := s.vehicles.GetForUpdate(ctx, tx, r.VehicleID)
		if err != nil {
			return err
		}
		if err := vehicle.ReleaseToAvailable(); err != nil {
			return err
		}
		if finalMileageKm > vehicle.OdometerKm {
			vehicle.OdometerKm = finalMileageKm
		}
		if err := s.vehicles.UpdateStatus(ctx, tx, vehicle); err != nil {
			return err
		}
		if err := s.vehicles.InsertOdometerReading(ctx, tx, r.VehicleID, finalMileageKm, "RENTAL_RETURN"); err != nil {
			return err
		}

		completed = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// CancelRental transitions RESERVED or ACTIVE -> CANCELLED, freeing the
// rental_period row so the vehicle's calendar opens back up. It does not
// reverse accounting; a credit-memo flow is out of scope.
func (s *Service) CancelRental(ctx context.Context, rentalID string) (*domain.Rental, error) {
	var cancelled *domain.Rental
	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		r, err := s.rentals.GetForUpdate(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		wasActive := r.Status == domain.RentalActive
		if err := r.Cancel(); err != nil {
			return err
		}
		if err := s.rentals.UpdateStatus(ctx, tx, r); err != nil {
			return err
		}
		if wasActive {
			vehicle, err := s.vehicles.GetForUpdate(ctx, tx, r.VehicleID)
			if err != nil {
				return err
			}
			if err := vehicle.ReleaseToAvailable(); err != nil {
				return err
			}
			if err := s.vehicles.UpdateStatus(ctx, tx, vehicle); err != nil {
				return err
			}
		}
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *Service) GetRental(ctx context.Context, id string) (*domain.Rental, error) {
	return s.rentals.Get(ctx, s.pool, id)
}

func (s *Service) ListRentals(ctx context.Context, limit int, cursor *string) (store.Page[domain.Rental], error) {
	return s.rentals.List(ctx, s.pool, store.ClampLimit(limit), cursor)
}
