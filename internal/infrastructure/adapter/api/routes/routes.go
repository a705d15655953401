package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/blockforge/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, creditHandler *handler.CreditHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		userRoutes := api.Group("/users/:userId/credits")
		{
			// GET /api/v1/users/:userId/credits
			userRoutes.GET("", creditHandler.GetCredits)

			// POST /api/v1/users/:userId/credits/spend
			userRoutes.POST("/spend", creditHandler.Spend)

			// POST /api/v1/users/:userId/credits/top-up
			userRoutes.POST("/top-up", creditHandler.TopUp)

			// POST /api/v1/users/:userId/credits/top-up/intent
			userRoutes.POST("/top-up/intent", creditHandler.TopUpIntent)
		}

		// POST /api/v1/credits/fulfill (payment callback / polling entry)
		api.POST("/credits/fulfill", creditHandler.Fulfill)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
