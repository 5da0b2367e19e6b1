package domain

import "time"

type RentalStatus string

const (
	RentalReserved  RentalStatus = "RESERVED"
	RentalActive    RentalStatus = "ACTIVE"
	RentalCompleted RentalStatus = "COMPLETED"
	RentalCancelled RentalStatus = "CANCELLED"
)

type Rental struct {
	ID              string
	RentalNumber    string
	VehicleID       string
	CustomerID      string
	Status          RentalStatus
	StartsAt        time.Time
	EndsAt          time.Time
	ActualReturnAt  *time.Time
	StartOdometerKm *int64
	EndOdometerKm   *int64
	DailyRate       Money
	TotalDue        Money
	Currency        string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRental validates the window and computes cost; it does not check
// vehicle availability or conflicting bookings — those are storage/engine
// concerns requiring a round-trip the domain layer does not perform.
func NewRental(vehicleID, customerID string, startsAt, endsAt time.Time, dailyRate Money) (*Rental, error) {
	if !endsAt.After(startsAt) {
		return nil, ValidationError("endDate", "endDate must be after startDate")
	}
	days := ceilDays(endsAt.Sub(startsAt))
	return &Rental{
		VehicleID:  vehicleID,
		CustomerID: customerID,
		Status:     RentalReserved,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		DailyRate:  dailyRate,
		TotalDue:   DailyRateFor(dailyRate, days),
		Currency:   Currency,
	}, nil
}

func ceilDays(d time.Duration) int64 {
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// Activate transitions RESERVED -> ACTIVE.
func (r *Rental) Activate(startOdometerKm int64) error {
	if r.Status != RentalReserved {
		return InvalidState("cannot activate rental in " + string(r.Status) + " state")
	}
	r.Status = RentalActive
	r.StartOdometerKm = &startOdometerKm
	return nil
}

// Complete transitions ACTIVE -> COMPLETED. finalMileage must not be less
// than the odometer reading recorded at activation.
func (r *Rental) Complete(finalMileage int64, now time.Time) error {
	if r.Status != RentalActive {
		return InvalidState("cannot complete rental in " + string(r.Status) + " state")
	}
	if r.StartOdometerKm != nil && finalMileage < *r.StartOdometerKm {
		return &Error{Code: CodeInvalidMileage, Message: "final mileage is below start odometer"}
	}
	r.Status = RentalCompleted
	r.EndOdometerKm = &finalMileage
	r.ActualReturnAt = &now
	return nil
}

// Cancel transitions RESERVED or ACTIVE -> CANCELLED. Does not touch
// accounting; a credit-memo flow (out of scope) handles reversal.
func (r *Rental) Cancel() error {
	if r.Status != RentalReserved && r.Status != RentalActive {
		return InvalidState("cannot cancel rental in " + string(r.Status) + " state")
	}
	r.Status = RentalCancelled
	return nil
}

// IsOpen reports whether this rental still occupies its vehicle's calendar.
func (r *Rental) IsOpen() bool {
	return r.Status == RentalReserved || r.Status == RentalActive
}
