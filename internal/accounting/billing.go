package accounting

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

// BillingService issues invoices and captures payments against them,
// posting the corresponding ledger entries in the same transaction as the
// operational state change — an invoice or payment row never exists
// without its ledger counterpart, and vice versa.
type BillingService struct {
	pool     *pgxpool.Pool
	ledger   *Service
	invoices *store.InvoiceStore
	payments *store.PaymentStore
}

func NewBillingService(pool *pgxpool.Pool, ledger *Service, invoices *store.InvoiceStore, payments *store.PaymentStore) *BillingService {
	return &BillingService{pool: pool, ledger: ledger, invoices: invoices, payments: payments}
}

// IssueInvoice creates a DRAFT->ISSUED invoice for subtotal+tax against a
// customer, optionally tied to a rental. Issuing an invoice does not itself
// post a ledger entry — revenue was already recognized at rental
// activation; the invoice is the customer-facing billing artifact.
func (s *BillingService) IssueInvoice(ctx context.Context, customerID string, rentalID *string, subtotal, tax domain.Money) (*domain.Invoice, error) {
	inv := &domain.Invoice{
		CustomerID: customerID,
		RentalID:   rentalID,
		Subtotal:   subtotal,
		Tax:        tax,
		Status:     domain.InvoiceIssued,
	}
	if err := s.invoices.Create(ctx, s.pool, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *BillingService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoices.Get(ctx, s.pool, id)
}

// ReconcileAllInvoices is the collection-level counterpart to
// GetInvoice+ReconcileInvoice per-id: it sweeps every non-draft invoice and
// reports the ones whose recorded amount-paid drifted from its ledger
// postings.
func (s *BillingService) ReconcileAllInvoices(ctx context.Context) ([]InvoiceMismatch, error) {
	return s.ledger.ReconcileAllInvoices(ctx, s.invoices)
}

// CapturePayment applies amount to invoiceID and posts the matching
// debit/AR-credit ledger entry, all inside one transaction keyed by
// externalReference so a retried capture request never double-charges or
// double-posts. The debited account is the payment method's
// targetAccountCode, defaulting to Cash when no method is supplied.
func (s *BillingService) CapturePayment(ctx context.Context, invoiceID, paymentMethodID, externalReference string, amount domain.Money) (*domain.Payment, *domain.Invoice, error) {
	var payment *domain.Payment
	var invoice *domain.Invoice

	err := store.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if existing, err := s.payments.FindByExternalReference(ctx, tx, externalReference); err != nil {
			return err
		} else if existing != nil {
			payment = existing
			invoice, err = s.invoices.Get(ctx, tx, invoiceID)
			return err
		}

		inv, err := s.invoices.GetForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if err := inv.ApplyPayment(amount); err != nil {
			return err
		}
		if err := s.invoices.UpdateStatus(ctx, tx, inv); err != nil {
			return err
		}

		p := &domain.Payment{
			InvoiceID:         invoiceID,
			Amount:            amount,
			Status:            domain.PaymentCompleted,
			ExternalReference: externalReference,
		}
		targetAccountCode := domain.AccountCodeCash
		if paymentMethodID != "" {
			p.PaymentMethodID = &paymentMethodID
			method, err := s.payments.MethodByID(ctx, tx, paymentMethodID)
			if err != nil {
				return err
			}
			targetAccountCode = method.TargetAccountCode
		}
		if err := s.payments.Create(ctx, tx, p); err != nil {
			return err
		}

		debited, err := s.ledger.AccountByCode(ctx, targetAccountCode)
		if err != nil {
			return err
		}
		ar, err := s.ledger.AccountByCode(ctx, domain.AccountCodeAR)
		if err != nil {
			return err
		}
		lines := []domain.LedgerLine{
			{AccountID: debited.ID, Debit: amount},
			{AccountID: ar.ID, Credit: amount},
		}
		if _, err := s.ledger.Post(ctx, tx, "invoice-"+invoiceID+"-payment-"+externalReference, "payment capture "+p.PaymentNumber, lines); err != nil {
			return err
		}

		payment = p
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, invoice, nil
}
