package handlers

import (
	"net/http"
	"runtime"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/export"
	"example.com/ferramentas/internal/metrics"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves statistics, metrics, backup, the Sheets proxy
// and the db-viewer introspection routes
type SystemHandler struct {
	ledger  *service.LedgerService
	metrics *metrics.Metrics
	dbCfg   config.DatabaseConfig
	expCfg  config.ExportConfig
	sheets  *export.SheetsClient
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(ledger *service.LedgerService, metricsCollector *metrics.Metrics, dbCfg config.DatabaseConfig, expCfg config.ExportConfig) *SystemHandler {
	return &SystemHandler{
		ledger:  ledger,
		metrics: metricsCollector,
		dbCfg:   dbCfg,
		expCfg:  expCfg,
		sheets:  export.NewSheetsClient(expCfg.SheetsWebhookURL),
	}
}

// HandleStatistics returns the aggregate ledger counters
func (h *SystemHandler) HandleStatistics(c *gin.Context) {
	stats, err := h.ledger.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// HandleListTables returns the db-viewer table list
func (h *SystemHandler) HandleListTables(c *gin.Context) {
	tables, err := h.ledger.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tables": tables})
}

// HandleTableData returns rows, columns and total count of one table
func (h *SystemHandler) HandleTableData(c *gin.Context) {
	rows, columns, total, err := h.ledger.TableDump(c.Request.Context(), c.Param("table"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"columns": columns,
		"total":   total,
	})
}

// HandleBackup copies the database file to a timestamped backup
func (h *SystemHandler) HandleBackup(c *gin.Context) {
	path, err := export.BackupDatabase(h.dbCfg, h.expCfg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Backup criado: " + path})
}

// sheetsProxyRequest mirrors the webhook payload the front end pushes
type sheetsProxyRequest struct {
	Tab  string                   `json:"aba" binding:"required"`
	Rows []map[string]interface{} `json:"dados"`
}

// HandleSheetsProxy forwards front-end rows to the Google Sheets
// webhook. The front end is served from a static host, so it posts
// here instead of calling the Apps Script endpoint cross-origin.
func (h *SystemHandler) HandleSheetsProxy(c *gin.Context) {
	var req sheetsProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if !h.sheets.Enabled() {
		respondBadRequest(c, "Sincronização com Google Sheets não configurada")
		return
	}

	if err := h.sheets.PushRows(c.Request.Context(), req.Tab, req.Rows); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dados enviados para o Google Sheets"})
}

// HandleMetrics returns all collected metrics
func (h *SystemHandler) HandleMetrics(c *gin.Context) {
	h.metrics.SetGauge("goroutines", int64(runtime.NumGoroutine()))
	c.JSON(http.StatusOK, h.metrics.GetAllMetrics())
}

// HandleHealth returns a simplified health status
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	healthChecks := h.metrics.GetHealthChecks()

	healthy := true
	for _, status := range healthChecks {
		if !status {
			healthy = false
			break
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  healthy,
		"details": healthChecks,
	})
}

// RegisterRoutes registers the handler's routes
func (h *SystemHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/estatisticas", h.HandleStatistics)
	router.GET("/api/db/tables", h.HandleListTables)
	router.GET("/api/db/:table", h.HandleTableData)
	router.POST("/api/backup", h.HandleBackup)
	router.POST("/api/google-sheets", h.HandleSheetsProxy)
	router.GET("/metrics", h.HandleMetrics)
	router.GET("/health", h.HandleHealth)
}
