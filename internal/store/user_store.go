package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

// StaffUser is a logged-in operator — fleet managers, rental agents,
// finance owners, admins — as opposed to domain.Customer, who never logs
// into this API directly.
type StaffUser struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	Status       string
}

type UserStore struct {
	Pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{Pool: pool}
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*StaffUser, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, roles, status FROM users WHERE email=$1`, email)
	var u StaffUser
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Roles, &u.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("user")
	}
	return &u, err
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash string, roles []string) (*StaffUser, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, roles, status)
		VALUES ($1,$2,$3,'ACTIVE')
		RETURNING id, status`, email, passwordHash, roles)
	u := &StaffUser{Email: email, PasswordHash: passwordHash, Roles: roles}
	err := row.Scan(&u.ID, &u.Status)
	return u, err
}
