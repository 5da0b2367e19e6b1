package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

type LedgerStore struct {
	Pool *pgxpool.Pool
}

func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{Pool: pool}
}

// FindByExternalReference is the idempotency pre-check for Post: if an
// entry with this reference already exists, the caller returns it rather
// than attempting a second insert.
func (s *LedgerStore) FindByExternalReference(ctx context.Context, q Querier, ref string) (*domain.LedgerEntry, error) {
	row := q.QueryRow(ctx, `
		SELECT id, entry_number, external_reference, description, posted_at, "createdAt"
		FROM ledger_entries WHERE external_reference=$1`, ref)
	var e domain.LedgerEntry
	err := row.Scan(&e.ID, &e.EntryNumber, &e.ExternalReference, &e.Description, &e.PostedAt, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lines, err := s.linesFor(ctx, q, e.ID)
	if err != nil {
		return nil, err
	}
	e.Lines = lines
	return &e, nil
}

func (s *LedgerStore) linesFor(ctx context.Context, q Querier, entryID string) ([]domain.LedgerLine, error) {
	rows, err := q.Query(ctx, `SELECT account_id, debit_php, credit_php FROM ledger_entry_lines WHERE ledger_entry_id=$1`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []domain.LedgerLine
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(&l.AccountID, &l.Debit, &l.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// Insert persists a balanced entry and its lines. The deferred constraint
// trigger re-validates the balance at commit as the authority under
// concurrency; domain.ValidateBalance has already rejected an unbalanced
// entry before this method is ever called.
func (s *LedgerStore) Insert(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (external_reference, description, posted_at)
		VALUES ($1,$2,$3)
		RETURNING id, entry_number, "createdAt"`,
		e.ExternalReference, e.Description, e.PostedAt)
	if err := row.Scan(&e.ID, &e.EntryNumber, &e.CreatedAt); err != nil {
		return err
	}
	for _, l := range e.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO ledger_entry_lines (ledger_entry_id, account_id, debit_php, credit_php)
			VALUES ($1,$2,$3,$4)`, e.ID, l.AccountID, l.Debit, l.Credit); err != nil {
			return err
		}
	}
	return nil
}

// BalanceOf sums debits minus credits over lines of entries posted at or
// before asOf, optionally restricted to references with the given prefix
// (used by invoice reconciliation to isolate one invoice's payment lines).
func (s *LedgerStore) BalanceOf(ctx context.Context, q Querier, accountID string, asOf time.Time, refPrefix string) (domain.Money, error) {
	row := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.debit_php) - SUM(l.credit_php), 0)
		FROM ledger_entry_lines l
		JOIN ledger_entries e ON e.id = l.ledger_entry_id
		WHERE l.account_id = $1 AND e.posted_at <= $2
		  AND ($3 = '' OR e.external_reference LIKE $3 || '%')`,
		accountID, asOf, refPrefix)
	var balance domain.Money
	err := row.Scan(&balance)
	return balance, err
}

func (s *LedgerStore) AccountByCode(ctx context.Context, q Querier, code string) (*domain.Account, error) {
	row := q.QueryRow(ctx, `SELECT id, code, name, account_type FROM accounts WHERE code=$1`, code)
	var a domain.Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("account")
	}
	return &a, err
}

func (s *LedgerStore) AllAccounts(ctx context.Context, q Querier) ([]domain.Account, error) {
	rows, err := q.Query(ctx, `SELECT id, code, name, account_type FROM accounts ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
