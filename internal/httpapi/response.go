package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleetledger/internal/domain"
	"fleetledger/internal/logging"
)

// Envelope is the success-path response shape: {success, data, requestId}.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId"`
}

// ErrorEnvelope is the failure-path response shape:
// {success:false, error:{code,message,details}, requestId}.
type ErrorEnvelope struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"requestId"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get("RequestID"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// RespondSuccess writes the standard success envelope.
func RespondSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Envelope{
		Success:   true,
		Data:      data,
		RequestID: requestID(c),
	})
}

// RespondError writes the standard error envelope, translating a *domain.Error
// into its mapped HTTP status. Non-domain errors are logged and folded into
// an opaque INTERNAL_ERROR so internals never leak to the client.
func RespondError(c *gin.Context, err error) {
	if derr, ok := domain.AsDomainError(err); ok {
		c.JSON(StatusFor(derr.Code), ErrorEnvelope{
			Success: false,
			Error: ErrorBody{
				Code:    string(derr.Code),
				Message: derr.Message,
				Details: derr.Field,
			},
			RequestID: requestID(c),
		})
		return
	}

	logging.Logger.Error("unhandled internal error", zap.Error(err), zap.String("requestId", requestID(c)))
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:    string(domain.CodeInternalError),
			Message: "internal error",
		},
		RequestID: requestID(c),
	})
}

// RespondDomainError is a convenience for handlers that already hold a
// concrete *domain.Error instead of a generic error.
func RespondDomainError(c *gin.Context, derr *domain.Error) {
	RespondError(c, derr)
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(code domain.Code) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidMileage:
		return http.StatusBadRequest
	case domain.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict, domain.CodeRentalConflict, domain.CodeOptimisticLock:
		return http.StatusConflict
	case domain.CodeInvalidState:
		return http.StatusUnprocessableEntity
	case domain.CodeRequestInProgress:
		return http.StatusConflict
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	case domain.CodeInvoiceLedgerMismatch, domain.CodeDatabaseError, domain.CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
