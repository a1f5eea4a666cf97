// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// Avatars are small; anything over this is rejected before it reaches storage.
const maxAvatarBytes = 2 << 20

type UserHandler struct {
	userService *services.UserService
	itemService *services.ItemService
}

func NewUserHandler(userService *services.UserService, itemService *services.ItemService) *UserHandler {
	return &UserHandler{
		userService: userService,
		itemService: itemService,
	}
}

// GET /users/:username
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, profile)
}

// GET /users/:username/items
func (h *UserHandler) ListUserItems(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	items, total, err := h.userService.ListPublishedItems(c.Request.Context(), c.Param("username"), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, items, total, params)
}

// GET /me/items lists the caller's items in every status.
func (h *UserHandler) ListMyItems(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	items, total, err := h.itemService.ListByAuthor(c.Request.Context(), a.ID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, items, total, params)
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	a, ok := requireActor(c)
	if !ok {
		return
	}

	var req services.UpdateUserProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), a.ID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// POST /users/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	a, ok := requireActor(c)
	if !ok {
		return
	}

	upload, err := openFormFile(c, "avatar", maxAvatarBytes)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	user, err := h.userService.UploadAvatar(c.Request.Context(), a.ID, upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyFileUploadSuccess),
		"avatar_url": user.AvatarURL,
	})
}
