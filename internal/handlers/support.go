// internal/handlers/support.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// SupportHandler serves tickets, reports and suggestions.
type SupportHandler struct {
	supportService *services.SupportService
}

func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// POST /tickets
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.supportService.CreateTicket(c.Request.Context(), a, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, ticket)
}

// GET /tickets
func (h *SupportHandler) ListTickets(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tickets, total, err := h.supportService.ListTickets(c.Request.Context(), a, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, tickets, total, params)
}

// GET /tickets/:id
func (h *SupportHandler) GetTicket(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	ticketID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.supportService.GetTicket(c.Request.Context(), a, ticketID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, ticket)
}

// POST /tickets/:id/messages
func (h *SupportHandler) AddMessage(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	ticketID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.TicketMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.supportService.AddMessage(c.Request.Context(), a, ticketID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, message)
}

// POST /reports
func (h *SupportHandler) CreateReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	a, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.supportService.CreateReport(c.Request.Context(), a, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportSubmitted),
		"report":  report,
	})
}

// POST /suggestions accepts anonymous submissions.
func (h *SupportHandler) CreateSuggestion(c *gin.Context) {
	var req services.CreateSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	suggestion, err := h.supportService.CreateSuggestion(c.Request.Context(), actor(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, suggestion)
}
