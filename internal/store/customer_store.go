package store

import (
	"errors"

	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

type CustomerStore struct {
	Pool *pgxpool.Pool
}

func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{Pool: pool}
}

const customerSelectCols = `id, full_name, email, phone_number, driver_license_number, driver_license_expiry, status, version, "createdAt", "updatedAt"`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var license *string
	var expiry *time.Time
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &license, &expiry, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if license != nil {
		c.DriverLicenseNumber = *license
	}
	if expiry != nil {
		c.DriverLicenseExpiry = *expiry
	}
	return &c, err
}

func (s *CustomerStore) Create(ctx context.Context, q Querier, c *domain.Customer) error {
	row := q.QueryRow(ctx, `
		INSERT INTO customers (full_name, email, phone_number, driver_license_number, driver_license_expiry)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, status, version, "createdAt", "updatedAt"`,
		c.FullName, c.Email, c.Phone, nullableString(c.DriverLicenseNumber), nullableTime(c.DriverLicenseExpiry))
	return row.Scan(&c.ID, &c.Status, &c.Version, &c.CreatedAt, &c.UpdatedAt)
}

func (s *CustomerStore) Get(ctx context.Context, q Querier, id string) (*domain.Customer, error) {
	row := q.QueryRow(ctx, `SELECT `+customerSelectCols+` FROM customers WHERE id=$1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("customer")
	}
	return c, err
}

func (s *CustomerStore) List(ctx context.Context, q Querier, limit int, cursor *string) (Page[domain.Customer], error) {
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return Page[domain.Customer]{}, err
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		createdAt, id, decErr := DecodeCursor(*cursor)
		if decErr != nil {
			return Page[domain.Customer]{}, domain.ValidationError("cursor", "invalid cursor")
		}
		rows, err = q.Query(ctx, `
			SELECT `+customerSelectCols+` FROM customers
			WHERE ("createdAt", id) < ($1, $2)
			ORDER BY "createdAt" DESC, id DESC LIMIT $3`, createdAt, id, limit+1)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+customerSelectCols+` FROM customers
			ORDER BY "createdAt" DESC, id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return Page[domain.Customer]{}, err
	}
	defer rows.Close()

	var items []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return Page[domain.Customer]{}, err
		}
		items = append(items, *c)
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return Page[domain.Customer]{Items: items, NextCursor: next, Limit: limit, Total: total}, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
