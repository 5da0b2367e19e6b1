package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/accounting"
	"fleetledger/internal/domain"
)

type AccountingHandler struct {
	billing *accounting.BillingService
	ledger  *accounting.Service
}

func NewAccountingHandler(billing *accounting.BillingService, ledger *accounting.Service) *AccountingHandler {
	return &AccountingHandler{billing: billing, ledger: ledger}
}

type issueInvoiceRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
	RentalID   string `json:"rentalId"`
	Subtotal   int64  `json:"subtotalPhp" binding:"required"`
	Tax        int64  `json:"taxPhp"`
}

func (h *AccountingHandler) IssueInvoice(c *gin.Context) {
	var req issueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	var rentalID *string
	if req.RentalID != "" {
		rentalID = &req.RentalID
	}
	inv, err := h.billing.IssueInvoice(c.Request.Context(), req.CustomerID, rentalID, domain.Money(req.Subtotal), domain.Money(req.Tax))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, inv)
}

func (h *AccountingHandler) GetInvoice(c *gin.Context) {
	inv, err := h.billing.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{
		"invoice":   inv,
		"paymentQr": invoicePaymentQR(inv.InvoiceNumber, inv.Balance()),
	})
}

type capturePaymentRequest struct {
	PaymentMethodID   string `json:"paymentMethodId"`
	ExternalReference string `json:"externalReference" binding:"required"`
	AmountPhp         int64  `json:"amountPhp" binding:"required"`
}

// CapturePayment is the canonical idempotency-middleware-guarded endpoint:
// two identical retries with the same Idempotency-Key header replay the
// first response, and two different requests sharing the same
// externalReference still resolve to a single payment row via the billing
// service's payment externalReference pre-check.
func (h *AccountingHandler) CapturePayment(c *gin.Context) {
	var req capturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	payment, invoice, err := h.billing.CapturePayment(c.Request.Context(), c.Param("id"), req.PaymentMethodID, req.ExternalReference, domain.Money(req.AmountPhp))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"payment": payment, "invoice": invoice})
}

func (h *AccountingHandler) RevenueReport(c *gin.Context) {
	start, end, err := parseReportWindow(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	report, err := h.ledger.RevenueReport(c.Request.Context(), start, end)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, report)
}

func (h *AccountingHandler) BalanceSheet(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, domain.ValidationError("asOf", "must be RFC3339"))
			return
		}
		asOf = t
	}
	sheet, err := h.ledger.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, sheet)
}

func (h *AccountingHandler) ReconcileInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	inv, err := h.billing.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		RespondError(c, err)
		return
	}
	mismatch, err := h.ledger.ReconcileInvoice(c.Request.Context(), invoiceID, inv.AmountPaid)
	if err != nil {
		RespondError(c, err)
		return
	}
	if mismatch != nil {
		RespondError(c, domain.NewError(domain.CodeInvoiceLedgerMismatch, "invoice amount-paid does not match its ledger postings"))
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"invoiceId": invoiceID, "reconciled": true})
}

// ReconcileAllInvoices runs the aggregate reconciliation pass over every
// non-draft invoice, the collection-level property distinct from the
// single-invoice ReconcileInvoice check above.
func (h *AccountingHandler) ReconcileAllInvoices(c *gin.Context) {
	mismatches, err := h.billing.ReconcileAllInvoices(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if len(mismatches) > 0 {
		RespondError(c, domain.NewError(domain.CodeInvoiceLedgerMismatch, "one or more invoices do not match their ledger postings"))
		return
	}
	RespondSuccess(c, http.StatusOK, gin.H{"reconciled": true, "mismatches": mismatches})
}

func (h *AccountingHandler) ReconcileIntegrity(c *gin.Context) {
	report, err := h.ledger.ReconcileIntegrity(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if !report.IsBalanced {
		RespondError(c, domain.NewError(domain.CodeInvoiceLedgerMismatch, "trial balance does not balance"))
		return
	}
	RespondSuccess(c, http.StatusOK, report)
}

func parseReportWindow(c *gin.Context) (time.Time, time.Time, error) {
	endRaw := c.Query("end")
	startRaw := c.Query("start")
	end := time.Now().UTC()
	if endRaw != "" {
		t, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ValidationError("end", "must be RFC3339")
		}
		end = t
	}
	start := end.AddDate(0, -1, 0)
	if startRaw != "" {
		t, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, domain.ValidationError("start", "must be RFC3339")
		}
		start = t
	}
	return start, end, nil
}
