package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/fatura/backend/internal/application/billing"
	identityapp "github.com/fatura/backend/internal/application/identity"
	partnerapp "github.com/fatura/backend/internal/application/partner"
	payableapp "github.com/fatura/backend/internal/application/payable"
	reportapp "github.com/fatura/backend/internal/application/report"
	"github.com/fatura/backend/internal/infrastructure/audit"
	"github.com/fatura/backend/internal/infrastructure/auth"
	"github.com/fatura/backend/internal/infrastructure/config"
	"github.com/fatura/backend/internal/infrastructure/logger"
	"github.com/fatura/backend/internal/infrastructure/persistence"
	"github.com/fatura/backend/internal/interfaces/http/handler"
	"github.com/fatura/backend/internal/interfaces/http/middleware"
	"github.com/fatura/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	periodRepo := persistence.NewGormFinancialPeriodRepository(db.DB)
	projectionRepo := persistence.NewGormBillingProjectionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	payableRepo := persistence.NewGormPayableAccountRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	bankRepo := persistence.NewGormBankRepository(db.DB)
	chartRepo := persistence.NewGormChartOfAccountsRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	auditRecorder := audit.NewGormAuditRecorder(db.DB, log)

	// Application services
	invoiceService := billingapp.NewInvoiceService(periodRepo, projectionRepo, invoiceRepo, auditRecorder, cfg.Billing.RecalcTimeout, log)
	periodService := billingapp.NewPeriodService(periodRepo, invoiceService, auditRecorder, log)
	payableService := payableapp.NewPayableService(payableRepo, auditRecorder, log)
	companyService := partnerapp.NewCompanyService(companyRepo, unitRepo, contractRepo, auditRecorder, log)
	referenceService := partnerapp.NewReferenceService(supplierRepo, bankRepo, chartRepo, auditRecorder, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
		},
		Logger: log,
	}))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService)).
		Register(handler.NewPeriodHandler(periodService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewPayableHandler(payableService)).
		Register(handler.NewCompanyHandler(companyService)).
		Register(handler.NewReferenceHandler(referenceService)).
		Register(handler.NewDashboardHandler(dashboardService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
