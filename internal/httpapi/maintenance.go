package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/domain"
	"fleetledger/internal/maintenance"
)

type MaintenanceHandler struct {
	jobs *maintenance.Service
}

func NewMaintenanceHandler(jobs *maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{jobs: jobs}
}

type maintenancePartRequest struct {
	PartName string `json:"partName" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	UnitCost int64  `json:"unitCostPhp" binding:"required"`
}

type scheduleMaintenanceRequest struct {
	VehicleID   string                   `json:"vehicleId" binding:"required"`
	JobType     string                   `json:"jobType" binding:"required"`
	ScheduledAt time.Time                `json:"scheduledAt" binding:"required"`
	Priority    int                      `json:"priority"`
	Parts       []maintenancePartRequest `json:"parts"`
}

func (h *MaintenanceHandler) Schedule(c *gin.Context) {
	var req scheduleMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	parts := make([]domain.MaintenancePart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, domain.MaintenancePart{
			PartName: p.PartName,
			Quantity: p.Quantity,
			UnitCost: domain.Money(p.UnitCost),
		})
	}

	job, err := h.jobs.Schedule(c.Request.Context(), req.VehicleID, domain.MaintenanceType(req.JobType), req.ScheduledAt, req.Priority, parts)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, job)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, job)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var cursor *string
	if cs := c.Query("cursor"); cs != "" {
		cursor = &cs
	}
	page, err := h.jobs.List(c.Request.Context(), limit, cursor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, page)
}

type startMaintenanceRequest struct {
	StartedAt time.Time `json:"startedAt" binding:"required"`
}

func (h *MaintenanceHandler) Start(c *gin.Context) {
	var req startMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	job, err := h.jobs.Start(c.Request.Context(), c.Param("id"), req.StartedAt)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, job)
}

type completeMaintenanceRequest struct {
	CompletedAt time.Time `json:"completedAt" binding:"required"`
	OdometerKm  int64     `json:"odometerKm" binding:"required"`
}

func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req completeMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}
	job, err := h.jobs.Complete(c.Request.Context(), c.Param("id"), req.CompletedAt, req.OdometerKm)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, job)
}

func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	job, err := h.jobs.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, job)
}
