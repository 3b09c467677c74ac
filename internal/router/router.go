// Package router assembles the HTTP API.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finboard/internal/config"
	"finboard/internal/handlers"
	"finboard/internal/middleware"
	"finboard/internal/notify"
	"finboard/internal/services"
	"finboard/internal/state"

	_ "finboard/internal/docs" // swagger docs
)

// Dependencies are the external resources the API is built on.
type Dependencies struct {
	DB        *gorm.DB
	Config    *config.Config
	Publisher notify.Publisher
	// Store holds the in-memory dashboard sessions. A nil Store gets a
	// fresh registry.
	Store *state.Registry
}

// New wires services and handlers and registers every route.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	db := deps.DB
	store := deps.Store
	if store == nil {
		store = state.NewRegistry()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = notify.Nop{}
	}

	// Services
	userService := services.NewUserService(db, store)
	accountService := services.NewAccountService(db, store)
	transactionService := services.NewTransactionService(db, store, accountService)
	budgetService := services.NewBudgetService(db, store)
	goalService := services.NewGoalService(db, store)
	preferencesService := services.NewPreferencesService(db, store)
	notificationService := services.NewNotificationService(db, store)
	categoryService := services.NewCategoryService(db)
	snapshotService := services.NewSnapshotService(db)
	reminderService := services.NewReminderService(db, notificationService, publisher)
	auditService := services.NewAuditService(db)
	sessionService := services.NewSessionService(store, services.SessionSources{
		Users:         userService,
		Accounts:      accountService,
		Transactions:  transactionService,
		Budgets:       budgetService,
		Goals:         goalService,
		Preferences:   preferencesService,
		Notifications: notificationService,
	}, cfg.SessionLoadLimit)
	dashboardService := services.NewDashboardService(store, sessionService)

	tokens := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpirationDur, cfg.JWTRefreshDur)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService, auditService, tokens)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, sessionService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService, reminderService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(cfg.AllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes, rate limited per client IP
	authLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.AuthRatePerMinute,
		Burst:     cfg.AuthRateBurst,
		ExpiresIn: 10 * time.Minute,
	})
	auth := v1.Group("/auth")
	auth.Use(authLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Scheduled jobs
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/snapshots", snapshotHandler.ComputeSnapshots)
	pipeline.POST("/reminders", snapshotHandler.SendBillReminders)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(tokens.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.PUT("/:id/balance", accountHandler.UpdateAccountBalance)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/transactions", transactionHandler.GetAccountTransactions)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/batch", transactionHandler.BatchCreateTransactions)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.PUT("/:id/categories/:categoryId", budgetHandler.UpdateCategoryAmount)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contributions", goalHandler.AddContribution)
	goals.DELETE("/:id/contributions/:contributionId", goalHandler.RemoveContribution)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)

	protected.GET("/categories", categoryHandler.GetUserCategories)
	protected.GET("/snapshots", snapshotHandler.GetSnapshots)

	protected.GET("/preferences", preferencesHandler.GetPreferences)
	protected.PUT("/preferences", preferencesHandler.UpdatePreferences)

	widgets := protected.Group("/widgets")
	widgets.GET("", preferencesHandler.GetWidgets)
	widgets.PUT("/order", preferencesHandler.ReorderWidgets)
	widgets.PUT("/:widgetId", preferencesHandler.SetWidgetVisibility)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	notifications.DELETE("", notificationHandler.ClearNotifications)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.GET("/accounts-summary", dashboardHandler.GetAccountSummary)
	dashboard.GET("/budget-overview", dashboardHandler.GetBudgetOverview)
	dashboard.PUT("/budget-period", dashboardHandler.SetBudgetPeriod)
	dashboard.GET("/goals", dashboardHandler.GetGoalsProgress)
	dashboard.GET("/upcoming-bills", dashboardHandler.GetUpcomingBills)
	dashboard.GET("/spending", dashboardHandler.GetSpendingByCategory)
	dashboard.GET("/transactions", dashboardHandler.QueryTransactions)
	dashboard.DELETE("/transactions/filters", dashboardHandler.ResetTransactionFilters)
	dashboard.GET("/selection", dashboardHandler.GetSelection)
	dashboard.PUT("/selection/:kind/:id", dashboardHandler.SelectRecord)
	dashboard.DELETE("/selection/:kind", dashboardHandler.ClearSelection)

	protected.POST("/session/reload", dashboardHandler.ReloadSession)

	return router
}

// cors allows browser requests from the configured origins. "*" allows any.
func cors(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
