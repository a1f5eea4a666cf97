// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	itemService    *services.ItemService
}

func NewCatalogHandler(catalogService *services.CatalogService, itemService *services.ItemService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		itemService:    itemService,
	}
}

// GET /games
func (h *CatalogHandler) ListGames(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	games, total, err := h.catalogService.ListGames(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, games, total, params)
}

// GET /games/:game_slug
func (h *CatalogHandler) GetGame(c *gin.Context) {
	game, err := h.catalogService.GetGame(c.Request.Context(), c.Param("game_slug"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, game)
}

// GET /games/:game_slug/:section_slug
func (h *CatalogHandler) ListItems(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	items, total, err := h.catalogService.List(c.Request.Context(),
		c.Param("game_slug"), c.Param("section_slug"), queryFilters(c), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListResponse(c, items, total, params)
}

// GET /games/:game_slug/:section_slug/:item_slug
func (h *CatalogHandler) GetItem(c *gin.Context) {
	detail, err := h.catalogService.Detail(c.Request.Context(),
		c.Param("game_slug"), c.Param("section_slug"), c.Param("item_slug"), actor(c), c.ClientIP())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, detail)
}

// POST /games/:game_slug/:section_slug
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	a, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	section, err := h.catalogService.GetSection(c.Request.Context(), c.Param("game_slug"), c.Param("section_slug"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), section.ID, a.ID, &req)
	if err != nil {
		if utils.KindOf(err) == utils.KindConflict {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyItemSlugTaken))
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemCreated),
		"item":    item,
	})
}

// ownedItem resolves the item from the route and checks the caller may
// modify it.
func (h *CatalogHandler) ownedItem(c *gin.Context) (*models.Item, bool) {
	a, ok := requireActor(c)
	if !ok {
		return nil, false
	}

	section, err := h.catalogService.GetSection(c.Request.Context(), c.Param("game_slug"), c.Param("section_slug"))
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}

	item, err := h.itemService.GetBySlug(c.Request.Context(), section.ID, c.Param("item_slug"))
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}

	if err := h.itemService.Authorize(item, a); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyNotOwner))
		return nil, false
	}

	return item, true
}

// PATCH /games/:game_slug/:section_slug/:item_slug
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}

	var req services.UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.itemService.Update(c.Request.Context(), item.ID, &req)
	if err != nil {
		if utils.KindOf(err) == utils.KindConflict {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyItemSlugTaken))
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyItemUpdated),
		"item":    updated,
	})
}

type updateStatusRequest struct {
	Status models.ItemStatus `json:"status" binding:"required"`
}

// PATCH /games/:game_slug/:section_slug/:item_slug/status
func (h *CatalogHandler) UpdateItemStatus(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.itemService.UpdateStatus(c.Request.Context(), item.ID, req.Status)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, updated)
}

// DELETE /games/:game_slug/:section_slug/:item_slug
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	item, ok := h.ownedItem(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), item.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyItemDeleted)})
}

// GET /stats
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.catalogService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}
