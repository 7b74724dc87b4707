package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/pftracker/ledger/ledger-backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Auth        *AuthHandler
	Account     *AccountHandler
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Summary     *SummaryHandler
	Goal        *GoalHandler
	Health      *HealthHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", h.Health.Live)
	e.GET("/health/ready", h.Health.Ready)
	e.GET("/ws", h.WebSocket.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// The callback runs before the user exists, so it only needs a valid token
	api.POST("/auth/callback", h.Auth.Callback, authMiddleware.AuthenticateToken())

	protected := []echo.MiddlewareFunc{authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter)}

	auth := api.Group("/auth", protected...)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	accounts := api.Group("/accounts", protected...)
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.GET("/:id", h.Account.GetAccount)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.POST("/:id/deactivate", h.Account.DeactivateAccount)
	accounts.DELETE("/:id", h.Account.DeleteAccount)

	categories := api.Group("/categories", protected...)
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.GET("/:id", h.Category.GetCategory)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	transactions := api.Group("/transactions", protected...)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/summary", h.Summary.GetSummary)
	transactions.GET("/export", h.Transaction.ExportTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	goals := api.Group("/goals", protected...)
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id", h.Goal.GetGoal)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)
}
