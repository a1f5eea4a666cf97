// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminUserFilter{
		PaginationParams: params,
		Status:           c.Query("status"),
		Role:             c.Query("role"),
	}

	users, total, err := h.adminService.GetUsers(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListResponse(c, users, total, params)
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	admin, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUserStatus(c.Request.Context(), admin.ID, userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// GET /admin/reports?status=
func (h *AdminHandler) GetReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.adminService.GetReports(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListResponse(c, reports, total, params)
}

// PUT /admin/reports/:id/resolve
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	admin, ok := requireActor(c)
	if !ok {
		return
	}
	reportID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.ResolveReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.adminService.ResolveReport(c.Request.Context(), admin.ID, reportID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /admin/tickets?status=
func (h *AdminHandler) GetTickets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tickets, total, err := h.adminService.GetTickets(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListResponse(c, tickets, total, params)
}

// PUT /admin/tickets/:id/status
func (h *AdminHandler) UpdateTicketStatus(c *gin.Context) {
	ticketID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTicketStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.adminService.UpdateTicketStatus(c.Request.Context(), ticketID, req.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, ticket)
}

// GET /admin/suggestions?status=
func (h *AdminHandler) GetSuggestions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	suggestions, total, err := h.adminService.GetSuggestions(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListResponse(c, suggestions, total, params)
}

// POST /admin/games
func (h *AdminHandler) CreateGame(c *gin.Context) {
	var req services.CreateGameRequest
	if !bindJSON(c, &req) {
		return
	}

	game, err := h.adminService.CreateGame(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, game)
}

// POST /admin/games/:game_slug/sections
func (h *AdminHandler) CreateSection(c *gin.Context) {
	var req services.CreateSectionRequest
	if !bindJSON(c, &req) {
		return
	}

	section, err := h.adminService.CreateSection(c.Request.Context(), c.Param("game_slug"), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, section)
}

// PUT /admin/sections/:id
func (h *AdminHandler) UpdateSection(c *gin.Context) {
	sectionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSectionRequest
	if !bindJSON(c, &req) {
		return
	}

	section, err := h.adminService.UpdateSection(c.Request.Context(), sectionID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, section)
}
