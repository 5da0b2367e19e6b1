package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
)

type InvoiceStore struct {
	Pool *pgxpool.Pool
}

func NewInvoiceStore(pool *pgxpool.Pool) *InvoiceStore {
	return &InvoiceStore{Pool: pool}
}

const invoiceSelectCols = `id, invoice_number, customer_id, rental_id, subtotal_php, tax_php, amount_paid_php, status, version, "createdAt", "updatedAt"`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.RentalID, &inv.Subtotal, &inv.Tax, &inv.AmountPaid, &inv.Status, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (s *InvoiceStore) Create(ctx context.Context, q Querier, inv *domain.Invoice) error {
	row := q.QueryRow(ctx, `
		INSERT INTO invoices (customer_id, rental_id, subtotal_php, tax_php, amount_due_php, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, invoice_number, amount_paid_php, version, "createdAt", "updatedAt"`,
		inv.CustomerID, inv.RentalID, inv.Subtotal, inv.Tax, inv.Total(), inv.Status)
	return row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.AmountPaid, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)
}

// ListNonDraft returns a cursor-paginated page of every invoice not in
// DRAFT status — the set the aggregate reconciliation pass walks, since a
// draft invoice has no ledger postings to compare against yet.
func (s *InvoiceStore) ListNonDraft(ctx context.Context, q Querier, limit int, cursor *string) (Page[domain.Invoice], error) {
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE status != 'DRAFT'`).Scan(&total); err != nil {
		return Page[domain.Invoice]{}, err
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		createdAt, id, decErr := DecodeCursor(*cursor)
		if decErr != nil {
			return Page[domain.Invoice]{}, domain.ValidationError("cursor", "invalid cursor")
		}
		rows, err = q.Query(ctx, `
			SELECT `+invoiceSelectCols+` FROM invoices
			WHERE status != 'DRAFT' AND ("createdAt", id) < ($1, $2)
			ORDER BY "createdAt" DESC, id DESC LIMIT $3`, createdAt, id, limit+1)
	} else {
		rows, err = q.Query(ctx, `
			SELECT `+invoiceSelectCols+` FROM invoices
			WHERE status != 'DRAFT'
			ORDER BY "createdAt" DESC, id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return Page[domain.Invoice]{}, err
	}
	defer rows.Close()

	var items []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return Page[domain.Invoice]{}, err
		}
		items = append(items, *inv)
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		c := EncodeCursor(last.CreatedAt, last.ID)
		next = &c
	}
	return Page[domain.Invoice]{Items: items, NextCursor: next, Limit: limit, Total: total}, nil
}

func (s *InvoiceStore) Get(ctx context.Context, q Querier, id string) (*domain.Invoice, error) {
	row := q.QueryRow(ctx, `SELECT `+invoiceSelectCols+` FROM invoices WHERE id=$1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("invoice")
	}
	return inv, err
}

func (s *InvoiceStore) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*domain.Invoice, error) {
	row := tx.QueryRow(ctx, `SELECT `+invoiceSelectCols+` FROM invoices WHERE id=$1 FOR UPDATE`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("invoice")
	}
	return inv, err
}

func (s *InvoiceStore) UpdateStatus(ctx context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	tag, err := tx.Exec(ctx, `
		UPDATE invoices SET amount_paid_php=$1, status=$2 WHERE id=$3 AND version=$4`,
		inv.AmountPaid, inv.Status, inv.ID, inv.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeOptimisticLock, "invoice was modified concurrently")
	}
	return nil
}

type PaymentStore struct {
	Pool *pgxpool.Pool
}

func NewPaymentStore(pool *pgxpool.Pool) *PaymentStore {
	return &PaymentStore{Pool: pool}
}

// FindByExternalReference is payments' own idempotency pre-check — used so a
// retried pay request returns the same payment row without double-charging.
func (s *PaymentStore) FindByExternalReference(ctx context.Context, q Querier, ref string) (*domain.Payment, error) {
	row := q.QueryRow(ctx, `
		SELECT id, payment_number, invoice_id, payment_method_id, amount_php, status, external_reference, "createdAt"
		FROM payments WHERE external_reference=$1`, ref)
	var p domain.Payment
	err := row.Scan(&p.ID, &p.PaymentNumber, &p.InvoiceID, &p.PaymentMethodID, &p.Amount, &p.Status, &p.ExternalReference, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &p, err
}

func (s *PaymentStore) Create(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, payment_method_id, amount_php, status, external_reference)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, payment_number, "createdAt"`,
		p.InvoiceID, p.PaymentMethodID, p.Amount, p.Status, p.ExternalReference)
	return row.Scan(&p.ID, &p.PaymentNumber, &p.CreatedAt)
}

func (s *PaymentStore) MethodByID(ctx context.Context, q Querier, id string) (*domain.PaymentMethod, error) {
	row := q.QueryRow(ctx, `
		SELECT id, code, display_name, target_account_code
		FROM payment_methods WHERE id=$1`, id)
	var m domain.PaymentMethod
	err := row.Scan(&m.ID, &m.Code, &m.DisplayName, &m.TargetAccountCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("payment method")
	}
	return &m, err
}
