package handlers

import (
	"net/http"

	"example.com/ferramentas/internal/models"
	"example.com/ferramentas/internal/repository"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
)

// RequesterHandler serves the /api/solicitantes routes
type RequesterHandler struct {
	ledger *service.LedgerService
}

// NewRequesterHandler creates a new requester handler
func NewRequesterHandler(ledger *service.LedgerService) *RequesterHandler {
	return &RequesterHandler{ledger: ledger}
}

// requesterRequest is the create/update payload
type requesterRequest struct {
	Name       *string `json:"nome"`
	Email      *string `json:"email"`
	Phone      *string `json:"telefone"`
	Department *string `json:"departamento"`
}

// HandleList returns all requesters ordered by name
func (h *RequesterHandler) HandleList(c *gin.Context) {
	requesters, err := h.ledger.ListRequesters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": requesters})
}

// HandleCreate inserts a new requester
func (h *RequesterHandler) HandleCreate(c *gin.Context) {
	var req requesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if req.Name == nil {
		respondError(c, service.ErrNameRequired)
		return
	}

	requester := &models.Requester{
		Name:       *req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
	}

	id, err := h.ledger.CreateRequester(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Solicitante adicionado com sucesso",
	})
}

// HandleUpdate applies a partial update; omitted fields keep their value
func (h *RequesterHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req requesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := h.ledger.UpdateRequester(c.Request.Context(), id, repository.RequesterPatch{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondNotFound(c, "Solicitante não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Solicitante atualizado com sucesso"})
}

// HandleDelete removes a requester
func (h *RequesterHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.ledger.DeleteRequester(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondNotFound(c, "Solicitante não encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Solicitante removido com sucesso"})
}

// RegisterRoutes registers the handler's routes
func (h *RequesterHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/solicitantes", h.HandleList)
	router.POST("/api/solicitantes", h.HandleCreate)
	router.PUT("/api/solicitantes/:id", h.HandleUpdate)
	router.DELETE("/api/solicitantes/:id", h.HandleDelete)
}
