// internal/handlers/like.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// POST /items/:item_id/like
func (h *LikeHandler) Like(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	state, err := h.likeService.Like(c.Request.Context(), a, itemID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, state)
}

// DELETE /items/:item_id/like
func (h *LikeHandler) Unlike(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	state, err := h.likeService.Unlike(c.Request.Context(), a, itemID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, state)
}

// GET /items/:item_id/like
func (h *LikeHandler) State(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	state, err := h.likeService.State(c.Request.Context(), a, itemID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, state)
}

// POST /items/:item_id/favorite
func (h *LikeHandler) AddFavorite(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	if err := h.likeService.AddFavorite(c.Request.Context(), a, itemID); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"is_favorite": true})
}

// DELETE /items/:item_id/favorite
func (h *LikeHandler) RemoveFavorite(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	if err := h.likeService.RemoveFavorite(c.Request.Context(), a, itemID); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /me/favorites
func (h *LikeHandler) ListFavorites(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	items, total, err := h.likeService.ListFavorites(c.Request.Context(), a, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, items, total, params)
}
