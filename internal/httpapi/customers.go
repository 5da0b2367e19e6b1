package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fleetledger/internal/domain"
	"fleetledger/internal/store"
)

type CustomerHandler struct {
	customers *store.CustomerStore
}

func NewCustomerHandler(customers *store.CustomerStore) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	FullName            string     `json:"fullName" binding:"required"`
	Email               string     `json:"email" binding:"required"`
	Phone               string     `json:"phone" binding:"required"`
	DriverLicenseNumber string     `json:"driverLicenseNumber"`
	DriverLicenseExpiry *time.Time `json:"driverLicenseExpiry"`
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, domain.ValidationError("body", err.Error()))
		return
	}

	customer := &domain.Customer{
		FullName:            req.FullName,
		Email:               req.Email,
		Phone:               req.Phone,
		DriverLicenseNumber: req.DriverLicenseNumber,
	}
	if req.DriverLicenseExpiry != nil {
		customer.DriverLicenseExpiry = *req.DriverLicenseExpiry
	}
	if err := h.customers.Create(c.Request.Context(), h.customers.Pool, customer); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), h.customers.Pool, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var cursor *string
	if cs := c.Query("cursor"); cs != "" {
		cursor = &cs
	}
	page, err := h.customers.List(c.Request.Context(), h.customers.Pool, store.ClampLimit(limit), cursor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, http.StatusOK, page)
}
