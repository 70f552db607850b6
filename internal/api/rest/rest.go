package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/verdantlabs/carbon-ledger/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes (everything below requires authentication)
	v1 := router.Group("/api/v1", middleware.Auth(authCfg))
	{
		ledger := v1.Group("/ledger")
		{
			ledger.GET("/records", handler.ListLedgerRecords)
			ledger.GET("/records/:tx_hash", handler.GetLedgerRecord)
			ledger.GET("/stats", handler.GetLedgerStats)
			ledger.DELETE("/records/pending", handler.DeleteStalePendingRecords)
		}

		v1.GET("/accounts/:id/records", handler.ListAccountLedgerRecords)
		v1.GET("/projects/:id/records", handler.ListProjectLedgerRecords)
	}
}
