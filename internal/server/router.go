// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/auth"
	_ "fintrack/internal/docs" // Import swagger docs
	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/handlers"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware"
	"fintrack/internal/notify"
	"fintrack/internal/services"
)

// Deps holds everything the router needs.
type Deps struct {
	Issuer         *auth.Issuer
	Users          services.UserServicer
	Budgets        services.BudgetServicer
	Expenses       services.ExpenseServicer
	Subscriptions  services.SubscriptionServicer
	Audit          services.AuditServicer
	Mailer         notify.Mailer
	Publisher      events.Publisher
	Quoter         handlers.StockQuoter
	ClientURL      string
	AllowedOrigins []string
}

// NewRouter builds the Gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Users, d.Audit, d.Issuer, d.Mailer, d.ClientURL)
	budgetHandler := handlers.NewBudgetHandler(d.Budgets, d.Expenses)
	expenseHandler := handlers.NewExpenseHandler(d.Expenses)
	subscriptionHandler := handlers.NewSubscriptionHandler(d.Subscriptions, d.Audit, d.Publisher)
	stockHandler := handlers.NewStockHandler(d.Quoter)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, apperrors.ErrNotFound)
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)

	stocks := v1.Group("/stocks")
	stocks.GET("/quotes", stockHandler.GetQuotes)
	stocks.GET("/history/:symbol", stockHandler.GetHistory)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Issuer))

	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/auth/activity", authHandler.Activity)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/category-spending-last-30-days", budgetHandler.GetCategorySpendingLast30Days)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	expenses := protected.Group("/expense")
	expenses.POST("/add", expenseHandler.AddExpense)
	expenses.GET("/get", expenseHandler.GetExpenses)
	expenses.GET("/downloadexcel", expenseHandler.DownloadExcel)
	expenses.GET("/forecast", expenseHandler.Forecast)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.AddSubscription)
	subscriptions.GET("", subscriptionHandler.GetSubscriptions)
	subscriptions.DELETE("/:id", subscriptionHandler.DeleteSubscription)
	subscriptions.POST("/:id/pay", subscriptionHandler.PaySubscription)

	return router
}
