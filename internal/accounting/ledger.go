package accounting

import (
	"context"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"errors"

	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

// Service posts balanced ledger entries idempotently and answers balance
// and reconciliation queries. It never talks HTTP and never knows about
// rentals or maintenance jobs directly — callers supply account codes and
// amounts already resolved to this domain's canonical chart.
type Service struct {
	pool    *pgxpool.Pool
	ledgers *store.LedgerStore
}

func NewService(pool *pgxpool.Pool, ledgers *store.LedgerStore) *Service {
	return &Service{pool: pool, ledgers: ledgers}
}

// Post is idempotent on externalReference: calling it any number of times
// with the same reference results in exactly one entry with those lines.
// Unbalanced lines are rejected before ever reaching storage. Must run
// inside the caller's unit-of-work transaction since posting always
// accompanies a cross-aggregate state change (rental activation, payment
// capture).
func (s *Service) Post(ctx context.Context, tx pgx.Tx, externalReference, description string, lines []domain.LedgerLine) (*domain.LedgerEntry, error) {
	if err := domain.ValidateBalance(lines); err != nil {
		return nil, err
	}

	existing, err := s.ledgers.FindByExternalReference(ctx, tx, externalReference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	entry := &domain.LedgerEntry{
		ExternalReference: externalReference,
		Description:       description,
		PostedAt:          time.Now().UTC(),
		Lines:             lines,
	}
	if err := s.ledgers.Insert(ctx, tx, entry); err != nil {
		if isUniqueViolation(err) {
			return s.ledgers.FindByExternalReference(ctx, tx, externalReference)
		}
		return nil, err
	}
	return entry, nil
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

// BalanceOf returns Σdebits−Σcredits as of asOf, display-signed so that
// liability/equity/revenue accounts present their normal credit balance as
// positive.
func (s *Service) BalanceOf(ctx context.Context, accountID string, asOf time.Time, accountType domain.AccountType) (domain.Money, error) {
	raw, err := s.ledgers.BalanceOf(ctx, s.pool, accountID, asOf, "")
	if err != nil {
		return 0, err
	}
	return raw * accountType.DisplaySign(), nil
}

// BalanceOfReference restricts the sum to entries whose external reference
// starts with refPrefix — how invoice reconciliation isolates one invoice's
// payment postings from the rest of the ledger.
func (s *Service) BalanceOfReference(ctx context.Context, accountID string, asOf time.Time, refPrefix string) (domain.Money, error) {
	return s.ledgers.BalanceOf(ctx, s.pool, accountID, asOf, refPrefix)
}

func (s *Service) AccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.ledgers.AccountByCode(ctx, s.pool, code)
}

func (s *Service) AllAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.ledgers.AllAccounts(ctx, s.pool)
}
