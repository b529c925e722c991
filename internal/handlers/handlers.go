package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/export"
	"sales-monitor/internal/models"
	"sales-monitor/internal/service"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

type Handler struct {
	svc      *service.Service
	exporter *export.Exporter
	logger   *logrus.Logger
}

func New(svc *service.Service, exporter *export.Exporter, logger *logrus.Logger) *Handler {
	return &Handler{
		svc:      svc,
		exporter: exporter,
		logger:   logger,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "sales-monitor",
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.svc.Ready() {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"has_data": true,
		})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":   "not ready",
		"has_data": false,
		"message":  "No deals loaded yet",
	})
}

func (h *Handler) IngestData(c *gin.Context) {
	h.logger.Info("Starting upstream refresh")

	resp, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, resp, resp.Message)
}

func (h *Handler) GetDataQualityReport(c *gin.Context) {
	report, ok := h.svc.QualityReport()
	if !ok {
		fail(c, &APIError{
			Status:  http.StatusNotFound,
			Code:    "NO_REPORT",
			Message: "No data available for quality analysis. Please run ingestion first.",
		})
		return
	}
	respond(c, report, "")
}

// parseState reads period, unit and search from the query string.
func parseState(c *gin.Context) (models.FilterState, error) {
	state := models.DefaultFilterState()

	if raw := c.Query("period"); raw != "" {
		period, ok := analytics.ParsePeriod(raw)
		if !ok {
			return state, badRequest("INVALID_PERIOD", fmt.Sprintf("Unknown period %q", raw))
		}
		state.Period = period
	}
	if unit := c.Query("unit"); unit != "" {
		state.Unit = unit
	}
	state.Search = c.Query("search")
	return state, nil
}

// load parses the filter and fetches a data snapshot; it writes the error
// response itself and reports false on failure.
func (h *Handler) load(c *gin.Context) (models.FilterState, service.Snapshot, bool) {
	state, err := parseState(c)
	if err != nil {
		fail(c, err)
		return state, service.Snapshot{}, false
	}
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return state, snap, false
	}
	return state, snap, true
}

func (h *Handler) GetKPIs(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, h.svc.Calculator().KPIs(snap.Deals, snap.Targets, state), analytics.PeriodLabel(state.Period))
}

func (h *Handler) GetTrends(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, h.svc.Calculator().Trend(snap.Deals, state), analytics.PeriodLabel(state.Period))
}

func (h *Handler) GetUnitPerformance(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, h.svc.Calculator().UnitPerformance(snap.Deals, snap.Targets, state.Period), analytics.PeriodLabel(state.Period))
}

func (h *Handler) GetNotifications(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, h.svc.Calculator().Notifications(analytics.FilterByUnit(snap.Deals, state.Unit)), "")
}

func (h *Handler) GetAgingAnalysis(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, h.svc.Calculator().Aging(analytics.FilterByUnit(snap.Deals, state.Unit)), "")
}

func (h *Handler) GetSummary(c *gin.Context) {
	state, err := parseState(c)
	if err != nil {
		fail(c, err)
		return
	}
	summary, err := h.svc.Dashboard(c.Request.Context(), state)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, summary, summary.PeriodLabel)
}

func (h *Handler) GetUnits(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, snap.Units, "")
}

func (h *Handler) GetDeals(c *gin.Context) {
	state, snap, ok := h.load(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	deals := h.svc.Calculator().Deals(snap.Deals, state)
	total := len(deals)
	// Pages past the end are empty; checked before multiplying so huge
	// page numbers cannot overflow.
	start := total
	if page <= total/perPage+1 {
		start = min((page-1)*perPage, total)
	}
	end := min(start+perPage, total)

	respond(c, models.PagedResponse{
		Data:    deals[start:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
		HasMore: end < total,
	}, "")
}

func dealID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, badRequest("INVALID_ID", "Deal id must be a positive integer")
	}
	return id, nil
}

func (h *Handler) UpdateDealStatus(c *gin.Context) {
	id, err := dealID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest("INVALID_BODY", "Body must be {\"status\": \"open|partial|paid\"}"))
		return
	}
	status, ok := analytics.ParseStatus(req.Status)
	if !ok {
		fail(c, badRequest("INVALID_STATUS", fmt.Sprintf("Unknown status %q", req.Status)))
		return
	}

	deal, err := h.svc.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, deal, "Status updated")
}

func (h *Handler) TogglePaid(c *gin.Context) {
	id, err := dealID(c)
	if err != nil {
		fail(c, err)
		return
	}

	deal, err := h.svc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, deal, "Status updated")
}

func (h *Handler) exportDeals(c *gin.Context) ([]models.Deal, bool) {
	state, snap, ok := h.load(c)
	if !ok {
		return nil, false
	}
	return h.svc.Calculator().Deals(snap.Deals, state), true
}

func (h *Handler) ExportCSV(c *gin.Context) {
	deals, ok := h.exportDeals(c)
	if !ok {
		return
	}
	h.sendDocument(c, export.CSV(deals, time.Now()))
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	deals, ok := h.exportDeals(c)
	if !ok {
		return
	}
	doc, err := export.XLSX(deals, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build workbook")
		fail(c, &APIError{Status: http.StatusInternalServerError, Code: "EXPORT_FAILED", Message: "Failed to build workbook"})
		return
	}
	h.sendDocument(c, doc)
}

func (h *Handler) sendDocument(c *gin.Context, doc export.Document) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// ExportData pushes the filtered deals to every configured sink.
func (h *Handler) ExportData(c *gin.Context) {
	deals, ok := h.exportDeals(c)
	if !ok {
		return
	}

	results, err := h.exporter.Run(c.Request.Context(), deals)
	if err != nil {
		fail(c, err)
		return
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	body := gin.H{
		"success": failed == 0,
		"data": gin.H{
			"records_count": len(deals),
			"exported_at":   time.Now().Format(time.RFC3339),
			"results":       results,
		},
		"message": fmt.Sprintf("%d of %d sinks succeeded", len(results)-failed, len(results)),
	}
	if failed == len(results) {
		body["code"] = "EXPORT_FAILED"
		c.JSON(http.StatusBadGateway, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
