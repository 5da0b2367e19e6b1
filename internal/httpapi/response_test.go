package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetledger/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code domain.Code
		want int
	}{
		{domain.CodeValidation, http.StatusBadRequest},
		{domain.CodeInvalidMileage, http.StatusBadRequest},
		{domain.CodeUnauthenticated, http.StatusUnauthorized},
		{domain.CodeForbidden, http.StatusForbidden},
		{domain.CodeNotFound, http.StatusNotFound},
		{domain.CodeConflict, http.StatusConflict},
		{domain.CodeRentalConflict, http.StatusConflict},
		{domain.CodeOptimisticLock, http.StatusConflict},
		{domain.CodeInvalidState, http.StatusUnprocessableEntity},
		{domain.CodeRequestInProgress, http.StatusConflict},
		{domain.CodeRateLimited, http.StatusTooManyRequests},
		{domain.CodeInvoiceLedgerMismatch, http.StatusInternalServerError},
		{domain.CodeDatabaseError, http.StatusInternalServerError},
		{domain.CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestRespondSuccess_IncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("RequestID", "req-123")

	RespondSuccess(c, http.StatusCreated, gin.H{"id": "veh-1"})

	require.Equal(t, http.StatusCreated, w.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "req-123", body.RequestID)
}

func TestRespondError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("RequestID", "req-456")

	RespondError(c, domain.ValidationError("vin", "vin must be 17 characters"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(domain.CodeValidation), body.Error.Code)
	assert.Equal(t, "vin", body.Error.Details)
	assert.Equal(t, "req-456", body.RequestID)
}

func TestRequestID_EmptyWhenUnset(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondSuccess(c, http.StatusOK, nil)

	var body Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "", body.RequestID)
}
