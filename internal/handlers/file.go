// internal/handlers/file.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type FileHandler struct {
	fileService    *services.FileService
	maxUploadBytes int64
}

func NewFileHandler(fileService *services.FileService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
	}
}

// POST /items/:item_id/files?version=&changelog=
func (h *FileHandler) UploadVersion(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	version := c.Query("version")
	if version == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "version"), nil)
		return
	}

	upload, err := openFormFile(c, "file", h.maxUploadBytes)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	file, err := h.fileService.UploadVersion(c.Request.Context(), a, itemID, &services.UploadVersionRequest{
		VersionNumber: version,
		Filename:      upload.Filename,
		ContentType:   upload.ContentType,
		Changelog:     c.Query("changelog"),
		Extra:         upload.Fields,
		Body:          upload.Body,
	})
	if err != nil {
		handleUploadError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    file,
	})
}

// GET /items/:item_id/files
func (h *FileHandler) ListVersions(c *gin.Context) {
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	files, total, err := h.fileService.ListVersions(c.Request.Context(), actor(c), itemID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, files, total, params)
}

// GET /files/:file_id/download
//
// Responds with the signed link, or redirects to it with ?redirect=1.
func (h *FileHandler) Download(c *gin.Context) {
	fileID, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}

	link, err := h.fileService.GetDownloadURL(c.Request.Context(), actor(c), fileID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if redirect, _ := strconv.ParseBool(c.Query("redirect")); redirect {
		c.Redirect(http.StatusFound, link.URL)
		return
	}
	utils.SuccessResponse(c, link)
}

// DELETE /files/:file_id
func (h *FileHandler) DeleteVersion(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	fileID, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteVersion(c.Request.Context(), a, fileID); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /items/:item_id/gallery
func (h *FileHandler) ListGallery(c *gin.Context) {
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	images, total, err := h.fileService.ListGallery(c.Request.Context(), actor(c), itemID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, images, total, params)
}

// POST /items/:item_id/gallery?primary=
func (h *FileHandler) UploadGalleryImage(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}

	upload, err := openFormFile(c, "file", h.maxUploadBytes)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	primary, _ := strconv.ParseBool(c.Query("primary"))
	image, err := h.fileService.UploadGalleryImage(c.Request.Context(), a, itemID, &services.UploadImageRequest{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		IsPrimary:   primary,
		Body:        upload.Body,
	})
	if err != nil {
		handleUploadError(c, err)
		return
	}

	utils.CreatedResponse(c, image)
}

// PUT /items/:item_id/gallery/:image_id/primary
func (h *FileHandler) SetPrimaryImage(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}
	imageID, ok := uuidParam(c, "image_id")
	if !ok {
		return
	}

	image, err := h.fileService.SetPrimaryImage(c.Request.Context(), a, itemID, imageID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, image)
}

// DELETE /items/:item_id/gallery/:image_id
func (h *FileHandler) DeleteGalleryImage(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}
	imageID, ok := uuidParam(c, "image_id")
	if !ok {
		return
	}

	if err := h.fileService.DeleteGalleryImage(c.Request.Context(), a, itemID, imageID); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
