package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"fleetledger/internal/accounting"
	"fleetledger/internal/background"
	"fleetledger/internal/cache"
	"fleetledger/internal/config"
	"fleetledger/internal/dbconn"
	"fleetledger/internal/housekeeping"
	"fleetledger/internal/httpapi"
	"fleetledger/internal/logging"
	"fleetledger/internal/maintenance"
	"fleetledger/internal/middleware"
	"fleetledger/internal/realtime"
	"fleetledger/internal/rental"
	"fleetledger/internal/store"
)

var serverStartTime time.Time

func main() {
	serverStartTime = time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.LoadAndValidate()
	logging.Init(config.Envs.LogLevel)
	logging.Logger.Info("starting fleetledger server")

	dbconn.Connect()
	defer dbconn.Close()
	dbconn.Migrate()
	dbconn.InitRedis()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	vehicleStore := store.NewVehicleStore(dbconn.Pool)
	customerStore := store.NewCustomerStore(dbconn.Pool)
	rentalStore := store.NewRentalStore(dbconn.Pool)
	maintenanceStore := store.NewMaintenanceStore(dbconn.Pool)
	ledgerStore := store.NewLedgerStore(dbconn.Pool)
	invoiceStore := store.NewInvoiceStore(dbconn.Pool)
	paymentStore := store.NewPaymentStore(dbconn.Pool)
	idempotencyStore := store.NewIdempotencyStore(dbconn.Pool)
	outboxStore := store.NewOutboxStore(dbconn.Pool)
	userStore := store.NewUserStore(dbconn.Pool)

	ledgerService := accounting.NewService(dbconn.Pool, ledgerStore)
	billingService := accounting.NewBillingService(dbconn.Pool, ledgerService, invoiceStore, paymentStore)
	rentalService := rental.NewService(dbconn.Pool, rentalStore, vehicleStore, ledgerService, outboxStore)
	maintenanceService := maintenance.NewService(dbconn.Pool, maintenanceStore, vehicleStore)
	vehicleCache := cache.NewVehicleCache(dbconn.RedisClient)

	tracker := background.NewTracker()
	housekeeping.StartIdempotencyPurge(bgCtx, tracker, idempotencyStore, config.Envs.HousekeepingPurgeInterval)
	if _, err := housekeeping.StartOutboxDrain(bgCtx, outboxStore, housekeeping.LoggingPublisher{}, config.Envs.OutboxDrainCron); err != nil {
		logging.Logger.Fatal("failed to start outbox drain", zap.Error(err))
	}

	if os.Getenv("GIN_MODE") == "release" || os.Getenv("NODE_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	io := realtime.InitSocketIO(dbconn.RedisClient)

	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, x-admin-secret, Idempotency-Key")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.Use(middleware.RequestID())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.GlobalSafetyRateLimit())
	r.Use(middleware.TimeoutMiddleware(10 * time.Second))
	r.Use(middleware.MaxBodySize(10 * 1024 * 1024))

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		dbLatency := "N/A"
		start := time.Now()
		if err := dbconn.Pool.Ping(context.Background()); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
		} else {
			dbLatency = fmt.Sprintf("%dms", time.Since(start).Milliseconds())
		}

		redisStatus := "connected"
		redisLatency := "N/A"
		if dbconn.RedisClient != nil {
			start = time.Now()
			if _, err := dbconn.RedisClient.Ping(context.Background()).Result(); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			} else {
				redisLatency = fmt.Sprintf("%dms", time.Since(start).Milliseconds())
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  "healthy",
			"server": gin.H{
				"goVersion": runtime.Version(),
				"uptime":    time.Since(serverStartTime).String(),
				"startedAt": serverStartTime.Format(time.RFC3339),
			},
			"database": gin.H{"status": dbStatus, "latency": dbLatency},
			"redis":    gin.H{"status": redisStatus, "latency": redisLatency},
		})
	})

	vehicleHandler := httpapi.NewVehicleHandler(vehicleStore, vehicleCache)
	customerHandler := httpapi.NewCustomerHandler(customerStore)
	rentalHandler := httpapi.NewRentalHandler(rentalService, customerStore)
	maintenanceHandler := httpapi.NewMaintenanceHandler(maintenanceService)
	accountingHandler := httpapi.NewAccountingHandler(billingService, ledgerService)
	authHandler := httpapi.NewAuthHandler(userStore)

	registerRoutes(r, idempotencyStore, vehicleHandler, customerHandler, rentalHandler, maintenanceHandler, accountingHandler, authHandler)

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	mux.Handle("/", r)

	srv := &http.Server{
		Addr:    ":" + config.Envs.Port,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("listen failed", zap.Error(err))
		}
	}()
	logging.Logger.Info("fleetledger server running", zap.String("port", config.Envs.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("shutting down server")

	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("waiting for background tasks to drain")
	background.WaitForBackgroundTasks(5 * time.Second)
	logging.Logger.Info("server exiting")
}
