package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IdempotencyRecord struct {
	ID                 string
	Key                string
	RequestFingerprint string
	Status             string // IN_PROGRESS | COMPLETED
	ResponseStatusCode *int
	ResponseBody       []byte
	ExpiresAt          time.Time
	CreatedAt          time.Time
}

const (
	IdempotencyInProgress = "IN_PROGRESS"
	IdempotencyCompleted  = "COMPLETED"
)

type IdempotencyStore struct {
	Pool *pgxpool.Pool
}

func NewIdempotencyStore(pool *pgxpool.Pool) *IdempotencyStore {
	return &IdempotencyStore{Pool: pool}
}

// Reserve inserts the IN_PROGRESS row for a brand-new key. A unique
// violation means a concurrent duplicate beat this one to the insert;
// ErrAlreadyReserved signals the caller to re-fetch and follow the
// known-key branch instead.
var ErrAlreadyReserved = errors.New("idempotency key already reserved")

func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*IdempotencyRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO idempotency_keys (idempotency_key, request_fingerprint, status, expires_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id, idempotency_key, request_fingerprint, status, response_status_code, response_body, expires_at, "createdAt"`,
		key, fingerprint, IdempotencyInProgress, time.Now().Add(ttl))

	var rec IdempotencyRecord
	err := row.Scan(&rec.ID, &rec.Key, &rec.RequestFingerprint, &rec.Status, &rec.ResponseStatusCode, &rec.ResponseBody, &rec.ExpiresAt, &rec.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyReserved
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *IdempotencyStore) Find(ctx context.Context, key string) (*IdempotencyRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, idempotency_key, request_fingerprint, status, response_status_code, response_body, expires_at, "createdAt"
		FROM idempotency_keys WHERE idempotency_key=$1`, key)
	var rec IdempotencyRecord
	err := row.Scan(&rec.ID, &rec.Key, &rec.RequestFingerprint, &rec.Status, &rec.ResponseStatusCode, &rec.ResponseBody, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &rec, err
}

// Finalize stores the handler's response against the reservation, moving it
// to COMPLETED so future retries short-circuit with the same status+body.
func (s *IdempotencyStore) Finalize(ctx context.Context, key string, statusCode int, body []byte) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE idempotency_keys SET status=$1, response_status_code=$2, response_body=$3
		WHERE idempotency_key=$4`, IdempotencyCompleted, statusCode, body, key)
	return err
}

// PurgeExpired deletes rows past their TTL — the query a housekeeping
// worker runs on a fixed interval.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
