package domain

import "time"

type Customer struct {
	ID                   string
	FullName             string
	Email                string
	Phone                string
	DriverLicenseNumber  string
	DriverLicenseExpiry  time.Time
	Status               string // ACTIVE | INACTIVE
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

const (
	CustomerActive   = "ACTIVE"
	CustomerInactive = "INACTIVE"
)

func (c *Customer) IsActive() bool {
	return c.Status == CustomerActive
}

// HasValidLicense reports whether the customer's driver's license is on
// file and not yet expired as of now — the precondition CreateRental checks
// before reserving a vehicle.
func (c *Customer) HasValidLicense(now time.Time) bool {
	return !c.DriverLicenseExpiry.IsZero() && c.DriverLicenseExpiry.After(now)
}
