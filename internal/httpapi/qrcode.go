package httpapi

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"fleetledger/internal/domain"
	"fleetledger/internal/logging"
)

// invoicePaymentQR encodes a GCash-style payment deep link for an invoice
// balance into a base64 PNG data URI, the same medium-redundancy QR the
// teacher generates for a driver's UPI payout.
func invoicePaymentQR(invoiceNumber string, balance domain.Money) string {
	param := fmt.Sprintf("gcash://pay?ref=%s&am=%d&cu=%s", invoiceNumber, int64(balance), domain.Currency)
	png, err := qrcode.Encode(param, qrcode.Medium, 256)
	if err != nil {
		logging.Logger.Error("failed to generate invoice payment QR code", zap.Error(err))
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
