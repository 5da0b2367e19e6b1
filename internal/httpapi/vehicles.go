package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"fleetledger/internal/cache"
	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

// VehicleHandler exposes the vehicle inventory routes.
type VehicleHandler struct {
	vehicles *store.VehicleStore
	cache    *cache.VehicleCache
}

func NewVehicleHandler(vehicles *store.VehicleStore, c *cache.VehicleCache) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, cache: c}
}

type createVehicleRequest struct {
	VIN               string `json:"vin" binding:"required"`
	LicensePlate      string `json:"licensePlate" binding:"required"`
	Make              string `json:"make" binding:"required"`
	Model             string `json:"model" binding:"required"`
	Year              int    `json:"year" binding:"required"`
	Color             string `json:"color"`
	PassengerCapacity int    `json:"passengerCapacity"`
	DailyRate         int64  `json:"dailyRatePhp" binding:"required"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	v, err := domain.NewVehicle(req.VIN, req.LicensePlate, req.Make, req.Model, req.Year, domain.Money(req.DailyRate))
	if err != nil {
		RespondError(c, err)
		return
	}
	v.Color = req.Color
	if req.PassengerCapacity > 0 {
		v.PassengerCapacity = req.PassengerCapacity
	} else {
		v.PassengerCapacity = 4
	}

	if err := h.vehicles.Create(c.Request.Context(), h.vehicles.Pool, v); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, v)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if v, ok := h.cache.Get(c.Request.Context(), id); ok {
		RespondSuccess(c, http.StatusOK, v)
		return
	}

	v, err := h.vehicles.Get(c.Request.Context(), h.vehicles.Pool, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	h.cache.Set(c.Request.Context(), v)
	RespondSuccess(c, http.StatusOK, v)
}

func (h *VehicleHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var cursor *string
	if cs := c.Query("cursor"); cs != "" {
		cursor = &cs
	}

	page, err := h.vehicles.List(c.Request.Context(), h.vehicles.Pool, store.ClampLimit(limit), cursor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, page)
}

type recordOdometerRequest struct {
	ReadingKm int64 `json:"readingKm" binding:"required"`
}

// RecordOdometer appends an independent odometer reading outside the
// rental-return path (e.g. a routine yard check), subject to the same
// monotonicity invariant enforced by both the domain layer and the trigger.
func (h *VehicleHandler) RecordOdometer(c *gin.Context) {
	id := c.Param("id")
	var req recordOdometerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	v, err := h.vehicles.Get(ctx, h.vehicles.Pool, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := v.RecordOdometer(req.ReadingKm); err != nil {
		RespondError(c, err)
		return
	}
	if err := h.vehicles.InsertOdometerReading(ctx, h.vehicles.Pool, id, req.ReadingKm, "MANUAL_CHECK"); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, v)
}

func (h *VehicleHandler) Retire(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	var retired *domain.Vehicle
	err := store.WithTx(ctx, h.vehicles.Pool, func(tx pgx.Tx) error {
		v, err := h.vehicles.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		v.Retire()
		if err := h.vehicles.UpdateStatus(ctx, tx, v); err != nil {
			return err
		}
		retired = v
		return nil
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, retired)
}
