package routes

import (
	coreport "github.com/dropfly/token-ledger/internal/domain/port/core"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/dropfly/token-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	ledgerHandler *handler.LedgerHandler,
	balanceHandler *handler.BalanceHandler,
	costHandler *handler.CostHandler,
) {
	// User routes
	userRoutes := router.Group("/user")
	{
		// Queries
		userRoutes.GET("/:userId/balance", balanceHandler.GetBalance)
		userRoutes.GET("/:userId/limit", balanceHandler.GetDailyLimit)
		userRoutes.GET("/:userId/transactions", balanceHandler.GetTransactions)

		// Mutations
		userRoutes.POST("/:userId/balance", balanceHandler.Provision)
		userRoutes.POST("/:userId/deduct", ledgerHandler.Deduct)
		userRoutes.POST("/:userId/refund", ledgerHandler.Refund)
		userRoutes.POST("/:userId/grant", ledgerHandler.Grant)
	}

	// Pricing routes
	costRoutes := router.Group("/costs")
	{
		costRoutes.GET("", costHandler.GetCatalog)
		costRoutes.POST("/estimate", costHandler.Estimate)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
