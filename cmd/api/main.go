package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/notify"
	"fintrack/internal/scheduler"
	"fintrack/internal/server"
	"fintrack/internal/services"
	"fintrack/internal/stocks"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack tracks expenses, budgets and recurring subscriptions.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig.Database())
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db, appConfig.ResetTokenTTL)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	subscriptionService := services.NewSubscriptionService(db)
	auditService := services.NewAuditService(db)

	mailer := newMailer(appConfig)

	publisher, err := newPublisher(appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	defer func() { _ = publisher.Close() }()

	reminders := scheduler.NewReminderScheduler(subscriptionService, mailer, appConfig.ReminderCron, appConfig.ReminderDaysAhead)
	if err := reminders.Start(); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}
	defer reminders.Stop()

	router := server.NewRouter(server.Deps{
		Issuer:         auth.NewIssuer(appConfig.JWTSecret, appConfig.JWTExpirationDur),
		Users:          userService,
		Budgets:        budgetService,
		Expenses:       expenseService,
		Subscriptions:  subscriptionService,
		Audit:          auditService,
		Mailer:         mailer,
		Publisher:      publisher,
		Quoter:         stocks.NewClient(&http.Client{Timeout: appConfig.HTTPTimeout}, appConfig.FinnhubBaseURL, appConfig.FinnhubAPIKey),
		ClientURL:      appConfig.ClientURL,
		AllowedOrigins: appConfig.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func newMailer(cfg *config.Config) notify.Mailer {
	if !cfg.MailEnabled() {
		logger.Get().Warn("SMTP_HOST not set, emails will only be logged")
		return notify.NewLogMailer()
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.HTTPTimeout,
	})
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set, billing events disabled")
		return events.NopPublisher{}, nil
	}
	return events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
}
