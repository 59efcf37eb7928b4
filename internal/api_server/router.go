package api_server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parish-fund-ledger/internal/api_server/handler"
	"github.com/parish-fund-ledger/internal/api_server/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	fundHandler *handler.FundHandler,
	transactionHandler *handler.TransactionHandler,
	reportHandler *handler.ReportHandler,
	budgetHandler *handler.BudgetHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints. Every business route requires an identified actor;
	// per-operation capability checks happen in the engine.
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Actor())
	{
		// Chart of accounts
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.POST("/:id/deactivate", accountHandler.Deactivate)
		}

		// Funds
		funds := v1.Group("/funds")
		{
			funds.POST("", fundHandler.Create)
			funds.GET("", fundHandler.List)
			funds.GET("/:id", fundHandler.GetByID)
			funds.POST("/:id/deactivate", fundHandler.Deactivate)
		}

		// Journal operations
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.POST("/:id/void", transactionHandler.Void)
			transactions.POST("/:id/move", transactionHandler.MoveLines)
		}

		// Financial statements
		reports := v1.Group("/reports")
		{
			reports.GET("/balance-sheet", reportHandler.BalanceSheet)
			reports.GET("/income-statement", reportHandler.IncomeStatement)
			reports.GET("/income-statement/quarterly", reportHandler.QuarterlyIncomeStatement)
			reports.GET("/activity", reportHandler.Activity)
		}

		// Budget planning
		budgets := v1.Group("/budgets")
		{
			budgets.GET("/:year/propose", budgetHandler.Propose)
			budgets.PUT("/:year", budgetHandler.Save)
			budgets.GET("/:year/variance", budgetHandler.Variance)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
