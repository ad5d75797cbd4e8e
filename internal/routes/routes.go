package routes

import (
	"net/http"

	handler "bank-reconciliation-backend/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, reconHandler *handler.ReconciliationHandler, metricsHandler http.Handler) {
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Suggested matches and decisions
	recon := api.Group("/reconciliation")
	{
		recon.GET("/suggestions", reconHandler.GetSuggestions)
		recon.GET("/suggestions/current", reconHandler.GetCurrentSuggestions)
		recon.DELETE("/suggestions/current", reconHandler.EndSuggestionSession)
		recon.POST("/suggestions/:matchId/reject", reconHandler.RejectSuggestion)
		recon.POST("/matches", reconHandler.AcceptMatch)
		recon.POST("/matches/manual", reconHandler.ManualMatch)
		recon.POST("/bulk-accept", reconHandler.BulkAccept)
		recon.GET("/summary", reconHandler.GetSummary)
	}

	api.POST("/bank-accounts", reconHandler.CreateBankAccount)

	bank := api.Group("/bank-transactions")
	{
		bank.GET("", reconHandler.ListBankTransactions)
		bank.GET("/:id/history", reconHandler.GetMatchHistory)
		bank.POST("/import/preview", reconHandler.PreviewImport)
		bank.POST("/import", reconHandler.CommitImport)
	}

	recorded := api.Group("/recorded-transactions")
	{
		recorded.GET("", reconHandler.ListRecordedTransactions)
		recorded.POST("", reconHandler.CreateRecordedTransaction)
	}
}
