package handlers

import (
	"net/http"

	"example.com/ferramentas/internal/repository"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
)

// ToolHandler serves the /api/ferramentas routes
type ToolHandler struct {
	ledger *service.LedgerService
}

// NewToolHandler creates a new tool handler
func NewToolHandler(ledger *service.LedgerService) *ToolHandler {
	return &ToolHandler{ledger: ledger}
}

// toolRequest is the create/update payload
type toolRequest struct {
	Name          *string `json:"nome"`
	TotalQuantity *int    `json:"quantidade_total"`
}

// HandleList returns all tools ordered by name
func (h *ToolHandler) HandleList(c *gin.Context) {
	tools, err := h.ledger.ListTools(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tools})
}

// HandleCreate inserts a new tool; quantidade_total defaults to 1
func (h *ToolHandler) HandleCreate(c *gin.Context) {
	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.Name == nil {
		respondError(c, service.ErrNameRequired)
		return
	}

	total := 1
	if req.TotalQuantity != nil {
		total = *req.TotalQuantity
	}

	id, err := h.ledger.CreateTool(c.Request.Context(), *req.Name, total)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Ferramenta adicionada com sucesso",
	})
}

// HandleUpdate applies a partial update; omitted fields keep their value
func (h *ToolHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req toolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := h.ledger.UpdateTool(c.Request.Context(), id, repository.ToolPatch{
		Name:          req.Name,
		TotalQuantity: req.TotalQuantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondNotFound(c, "Ferramenta não encontrada")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ferramenta atualizada com sucesso"})
}

// HandleDelete removes a tool
func (h *ToolHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.ledger.DeleteTool(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondNotFound(c, "Ferramenta não encontrada")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ferramenta removida com sucesso"})
}

// RegisterRoutes registers the handler's routes
func (h *ToolHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/ferramentas", h.HandleList)
	router.POST("/api/ferramentas", h.HandleCreate)
	router.PUT("/api/ferramentas/:id", h.HandleUpdate)
	router.DELETE("/api/ferramentas/:id", h.HandleDelete)
}
