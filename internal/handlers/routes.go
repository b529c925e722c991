package handlers

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every route. auth guards everything but the probes.
func (h *Handler) Register(router *gin.Engine, auth gin.HandlerFunc) {
	// Health endpoints
	router.GET("/healthz", h.HealthCheck)
	router.GET("/readyz", h.ReadinessCheck)

	protected := router.Group("/", auth)
	protected.POST("/ingest/run", h.IngestData)
	protected.GET("/quality/report", h.GetDataQualityReport)
	protected.POST("/export/run", h.ExportData)

	api := router.Group("/api", auth)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/kpis", h.GetKPIs)
	dashboard.GET("/trends", h.GetTrends)
	dashboard.GET("/unit-performance", h.GetUnitPerformance)
	dashboard.GET("/notifications", h.GetNotifications)
	dashboard.GET("/aging-analysis", h.GetAgingAnalysis)
	dashboard.GET("/summary", h.GetSummary)

	api.GET("/units", h.GetUnits)
	api.GET("/deals", h.GetDeals)
	api.PATCH("/deals/:id/status", h.UpdateDealStatus)
	api.POST("/deals/:id/toggle-paid", h.TogglePaid)

	api.GET("/export/deals.csv", h.ExportCSV)
	api.GET("/export/deals.xlsx", h.ExportXLSX)
}
