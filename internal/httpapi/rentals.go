package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/domain"
	"fleetledger/internal/rental"
	"fleetledger/internal/store"
)

type RentalHandler struct {
	rentals   *rental.Service
	customers *store.CustomerStore
}

func NewRentalHandler(rentals *rental.Service, customers *store.CustomerStore) *RentalHandler {
	return &RentalHandler{rentals: rentals, customers: customers}
}

type createRentalRequest struct {
	VehicleID  string    `json:"vehicleId" binding:"required"`
	CustomerID string    `json:"customerId" binding:"required"`
	StartsAt   time.Time `json:"startsAt" binding:"required"`
	EndsAt     time.Time `json:"endsAt" binding:"required"`
}

// Create reserves a rental window for a vehicle. Customer eligibility
// (active, unexpired license) is checked here as an HTTP-layer read; the
// service trusts that flag and checks vehicle availability against the row
// it locks inside its own transaction.
func (h *RentalHandler) Create(c *gin.Context) {
	var req createRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	customer, err := h.customers.Get(ctx, h.customers.Pool, req.CustomerID)
	if err != nil {
		RespondError(c, err)
		return
	}

	eligible := customer.IsActive() && customer.HasValidLicense(time.Now().UTC())
	r, err := h.rentals.CreateRental(ctx, req.VehicleID, req.CustomerID, req.StartsAt, req.EndsAt, eligible)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, r)
}

func (h *RentalHandler) Get(c *gin.Context) {
	r, err := h.rentals.GetRental(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, r)
}

func (h *RentalHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var cursor *string
	if cs := c.Query("cursor"); cs != "" {
		cursor = &cs
	}
	page, err := h.rentals.ListRentals(c.Request.Context(), limit, cursor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, page)
}

type activateRentalRequest struct {
	StartOdometerKm int64 `json:"startOdometerKm" binding:"required"`
}

func (h *RentalHandler) Activate(c *gin.Context) {
	var req activateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	r, err := h.rentals.ActivateRental(c.Request.Context(), c.Param("id"), req.StartOdometerKm)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, r)
}

type completeRentalRequest struct {
	FinalMileageKm int64 `json:"finalMileageKm" binding:"required"`
}

func (h *RentalHandler) Complete(c *gin.Context) {
	var req completeRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	r, err := h.rentals.CompleteRental(c.Request.Context(), c.Param("id"), req.FinalMileageKm)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, r)
}

func (h *RentalHandler) Cancel(c *gin.Context) {
	r, err := h.rentals.CancelRental(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, r)
}
