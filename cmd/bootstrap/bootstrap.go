package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telemed-booking/config"
	deliveryHttp "telemed-booking/internal/delivery/http"
	"telemed-booking/internal/delivery/http/handler"
	"telemed-booking/internal/delivery/http/middleware"
	"telemed-booking/internal/infrastructure/cache"
	"telemed-booking/internal/infrastructure/database"
	"telemed-booking/internal/repository"
	"telemed-booking/internal/service"
	"telemed-booking/internal/usecase"
	"telemed-booking/pkg/jwt"
	"telemed-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	RedisClient  *redis.Client
	BookingGuard *service.BookingGuard
	Server       *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Apply database migrations
	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, guard := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.BookingGuard = guard

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.BookingGuard) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	windowRepo := repository.NewAvailabilityWindowRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	paymentRepo := repository.NewPaymentRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	eventRepo := repository.NewAppointmentEventRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	slotHold := service.NewRedisSlotHold(redisClient, cfg.Slot.HoldTTL)
	bookingGuard := service.NewBookingGuard(slotHold, log)
	notifier := service.NewNotificationService(db, redisClient, log, eventRepo)

	// Initialize usecases
	doctorDirectoryUsecase := usecase.NewDoctorDirectoryUsecase(db, log, doctorProfileRepo)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, windowRepo, appointmentRepo, cfg.Slot.MinSlotDuration)
	bookingUsecase := usecase.NewBookingUsecase(db, log, windowRepo, appointmentRepo, paymentRepo, doctorProfileRepo, patientProfileRepo, bookingGuard, notifier, cfg.Slot.MinSlotDuration)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, windowRepo, notifier)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, paymentRepo, appointmentRepo, notifier)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorDirectoryUsecase)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, scheduleHandler, bookingHandler, appointmentHandler, paymentHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, bookingGuard
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Stop the booking guard cleanup loop
	if app.BookingGuard != nil {
		app.BookingGuard.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
