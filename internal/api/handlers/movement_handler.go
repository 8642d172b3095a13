package handlers

import (
	"net/http"

	"example.com/ferramentas/internal/models"
	"example.com/ferramentas/internal/repository"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
)

// MovementHandler serves the /api/movimentacoes routes
type MovementHandler struct {
	ledger *service.LedgerService
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(ledger *service.LedgerService) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// createMovementRequest is the registration payload. The camelCase keys
// come from the legacy front-end form.
type createMovementRequest struct {
	Type               string  `json:"tipo" binding:"required"`
	RequesterID        uint    `json:"solicitante_id" binding:"required"`
	ToolID             uint    `json:"ferramenta_id" binding:"required"`
	ProjectID          *uint   `json:"projeto_id"`
	CheckoutDate       *string `json:"dataSaida"`
	ExpectedReturnDate *string `json:"dataRetorno"`
	ReturnTime         *string `json:"horaDevolucao"`
	HasReturn          *string `json:"temRetorno"`
	Notes              *string `json:"observacoes"`
	NotificationEmail  *string `json:"emailNotificacao"`
}

// updateMovementRequest is the allow-listed patch payload, keyed by the
// stored column names
type updateMovementRequest struct {
	Type               *string `json:"tipo"`
	RequesterID        *uint   `json:"solicitante_id"`
	ToolID             *uint   `json:"ferramenta_id"`
	ProjectID          *uint   `json:"projeto_id"`
	CheckoutDate       *string `json:"data_saida"`
	ExpectedReturnDate *string `json:"data_retorno"`
	ReturnTime         *string `json:"hora_devolucao"`
	HasReturn          *string `json:"tem_retorno"`
	Notes              *string `json:"observacoes"`
	Status             *string `json:"status"`
	NotificationEmail  *string `json:"email_notificacao"`
}

// HandleList returns movements joined with names, optionally filtered
// by ?status=
func (h *MovementHandler) HandleList(c *gin.Context) {
	movements, err := h.ledger.ListMovements(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": movements})
}

// HandleCreate registers a new movement
func (h *MovementHandler) HandleCreate(c *gin.Context) {
	var req createMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	input := service.CreateMovementInput{
		Type:               req.Type,
		RequesterID:        req.RequesterID,
		ToolID:             req.ToolID,
		ProjectID:          req.ProjectID,
		CheckoutDate:       req.CheckoutDate,
		ExpectedReturnDate: req.ExpectedReturnDate,
		ReturnTime:         req.ReturnTime,
		Notes:              req.Notes,
		NotificationEmail:  req.NotificationEmail,
	}
	if req.HasReturn != nil {
		hasReturn := models.ParseHasReturn(*req.HasReturn)
		input.HasReturn = &hasReturn
	}

	id, err := h.ledger.CreateMovement(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Movimentação registrada com sucesso",
	})
}

// HandleUpdate applies the allow-listed patch
func (h *MovementHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	patch := repository.MovementPatch{
		Type:               req.Type,
		RequesterID:        req.RequesterID,
		ToolID:             req.ToolID,
		ProjectID:          req.ProjectID,
		CheckoutDate:       req.CheckoutDate,
		ExpectedReturnDate: req.ExpectedReturnDate,
		ReturnTime:         req.ReturnTime,
		Notes:              req.Notes,
		Status:             req.Status,
		NotificationEmail:  req.NotificationEmail,
	}
	if req.HasReturn != nil {
		hasReturn := models.ParseHasReturn(*req.HasReturn)
		patch.HasReturn = &hasReturn
	}

	found, err := h.ledger.UpdateMovement(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		respondNotFound(c, "Movimentação não encontrada")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Movimentação atualizada com sucesso"})
}

// HandleComplete concludes a movement, returning the loaned unit
func (h *MovementHandler) HandleComplete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	completed, err := h.ledger.CompleteMovement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !completed {
		respondNotFound(c, "Movimentação não encontrada")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Movimentação concluída com sucesso"})
}

// RegisterRoutes registers the handler's routes
func (h *MovementHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/api/movimentacoes", h.HandleList)
	router.POST("/api/movimentacoes", h.HandleCreate)
	router.PUT("/api/movimentacoes/:id", h.HandleUpdate)
	router.POST("/api/movimentacoes/:id/concluir", h.HandleComplete)
}
