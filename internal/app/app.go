package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "crmdesk/docs"
	"crmdesk/internal/config"
	"crmdesk/internal/database"
	"crmdesk/internal/handlers"
	"crmdesk/internal/metrics"
	"crmdesk/internal/middleware"
	"crmdesk/internal/pdf"
	"crmdesk/internal/repositories"
	"crmdesk/internal/routes"
	"crmdesk/internal/services"
)

// App is the wired HTTP application.
type App struct {
	Router  *gin.Engine
	Leads   *services.LeadService
	Limiter *middleware.RateLimiter
}

// New wires repositories, services and handlers on top of an open database
// and seeds the bootstrap admin.
func New(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*App, error) {
	m := metrics.New()

	// === Repos ===
	customerRepo := repositories.NewCustomerRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	categoryRepo := repositories.NewServiceCategoryRepository(db)
	interactionRepo := repositories.NewInteractionRepository(db)
	planRepo := repositories.NewGoalPlanRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	adminRepo := repositories.NewAdminUserRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// === Services ===
	authService := services.NewAuthService(adminRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, m)
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	notifier := services.NewMultiNotifier(m)
	if email := services.NewEmailNotifier(cfg.Email); email != nil {
		notifier.Add("email", email)
	}
	if tg := services.NewTelegramNotifier(cfg.Telegram); tg != nil {
		notifier.Add("telegram", tg)
	}
	log.Printf("[app] lead notification channels: %d", notifier.Len())

	planService := services.NewGoalPlanService(planRepo, customerRepo, m)
	customerService := services.NewCustomerService(customerRepo, employeeRepo, categoryRepo, interactionRepo, planService, cfg.PhoneRegion)
	leadService := services.NewLeadService(leadRepo, notifier, m, cfg.PhoneRegion)
	reportService := services.NewReportService(reportRepo)
	exportService := services.NewExportService(customerService, planService, pdf.NewDocumentGenerator(cfg.PDFFontPath))

	// === Handlers ===
	customerHandler := handlers.NewCustomerHandler(customerService)
	goalPlanHandler := handlers.NewGoalPlanHandler(planService)
	leadHandler := handlers.NewLeadHandler(leadService)
	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService, exportService)

	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigin))
	router.Use(m.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", m.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	routes.SetupRoutes(
		router,
		customerHandler,
		goalPlanHandler,
		leadHandler,
		authHandler,
		reportHandler,
		middleware.AuthMiddleware([]byte(cfg.Auth.JWTSecret)),
		limiter,
	)

	return &App{Router: router, Leads: leadService, Limiter: limiter}, nil
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := database.Open(ctx, cfg.Database.DSN, cfg.Database.Pool)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}()
	if err := database.Bootstrap(ctx, db); err != nil {
		log.Fatal("bootstrap schema: ", err)
	}

	a, err := New(ctx, cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	go a.Limiter.Cleanup(ctx, 3*time.Minute)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("[app] listening on %s (driver=%s)", srv.Addr, database.DriverFor(cfg.Database.DSN))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen: ", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[app] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[app] shutdown: %v", err)
	}
	a.Leads.Wait()
}
