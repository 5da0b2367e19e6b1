package main

import (
	"github.com/gin-gonic/gin"

	"fleetledger/internal/httpapi"
	"fleetledger/internal/middleware"
	"fleetledger/internal/store"
)

const (
	roleAdmin         = "ADMIN"
	roleFleetManager  = "FLEET_MANAGER"
	roleRentalAgent   = "RENTAL_AGENT"
	roleFinanceOwner  = "FINANCE_OWNER"
)

func registerRoutes(
	r *gin.Engine,
	idempotency *store.IdempotencyStore,
	vehicles *httpapi.VehicleHandler,
	customers *httpapi.CustomerHandler,
	rentals *httpapi.RentalHandler,
	maintenanceJobs *httpapi.MaintenanceHandler,
	acct *httpapi.AccountingHandler,
	authHandler *httpapi.AuthHandler,
) {
	api := r.Group("/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.AuthStrictRateLimit())
	auth.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthenticatedAPIRateLimit())
	authed.Use(middleware.Authenticate())

	vehiclesGroup := authed.Group("/vehicles")
	{
		vehiclesGroup.GET("", vehicles.List)
		vehiclesGroup.GET("/:id", vehicles.Get)
		vehiclesGroup.POST("", middleware.RequireRoles(roleAdmin, roleFleetManager), vehicles.Create)
		vehiclesGroup.POST("/:id/odometer", middleware.RequireRoles(roleAdmin, roleFleetManager), vehicles.RecordOdometer)
		vehiclesGroup.POST("/:id/retire", middleware.RequireRoles(roleAdmin, roleFleetManager), vehicles.Retire)
	}

	customersGroup := authed.Group("/customers")
	{
		customersGroup.GET("", customers.List)
		customersGroup.GET("/:id", customers.Get)
		customersGroup.POST("", middleware.RequireRoles(roleAdmin, roleRentalAgent), customers.Create)
	}

	rentalsGroup := authed.Group("/rentals")
	rentalsGroup.Use(middleware.RequireRoles(roleAdmin, roleRentalAgent))
	{
		rentalsGroup.GET("", rentals.List)
		rentalsGroup.GET("/:id", rentals.Get)
		rentalsGroup.POST("", rentals.Create)
		rentalsGroup.POST("/:id/activate", rentals.Activate)
		rentalsGroup.POST("/:id/complete", rentals.Complete)
		rentalsGroup.POST("/:id/cancel", rentals.Cancel)
	}

	maintenanceGroup := authed.Group("/maintenance-jobs")
	maintenanceGroup.Use(middleware.RequireRoles(roleAdmin, roleFleetManager))
	{
		maintenanceGroup.GET("", maintenanceJobs.List)
		maintenanceGroup.GET("/:id", maintenanceJobs.Get)
		maintenanceGroup.POST("", maintenanceJobs.Schedule)
		maintenanceGroup.POST("/:id/start", maintenanceJobs.Start)
		maintenanceGroup.POST("/:id/complete", maintenanceJobs.Complete)
		maintenanceGroup.POST("/:id/cancel", maintenanceJobs.Cancel)
	}

	invoicesGroup := authed.Group("/accounting/invoices")
	invoicesGroup.Use(middleware.RequireRoles(roleAdmin, roleFinanceOwner, roleRentalAgent))
	{
		invoicesGroup.POST("", acct.IssueInvoice)
		invoicesGroup.GET("/:id", acct.GetInvoice)
		invoicesGroup.POST("/:id/pay", middleware.Idempotency(idempotency), acct.CapturePayment)
		invoicesGroup.GET("/:id/reconcile", middleware.RequireRoles(roleAdmin, roleFinanceOwner), acct.ReconcileInvoice)
	}

	reportsGroup := authed.Group("/reports")
	reportsGroup.Use(middleware.RequireRoles(roleAdmin, roleFinanceOwner))
	{
		reportsGroup.GET("/revenue", acct.RevenueReport)
		reportsGroup.GET("/balance-sheet", acct.BalanceSheet)
		reportsGroup.GET("/integrity", acct.ReconcileIntegrity)
	}

	reconciliationGroup := authed.Group("/reconciliation")
	reconciliationGroup.Use(middleware.RequireRoles(roleAdmin, roleFinanceOwner))
	{
		reconciliationGroup.GET("/invoices", acct.ReconcileAllInvoices)
	}
}
