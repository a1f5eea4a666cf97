// internal/handlers/common.go
package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/modhub-backend/internal/i18n"
	"github.com/javajoker/modhub-backend/internal/services"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// actor returns the authenticated caller, or nil for anonymous requests.
func actor(c *gin.Context) *services.Actor {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	role, _ := utils.GetRoleFromContext(c)
	return services.ActorFromClaims(userID, role)
}

// requireActor writes 401 when the request is anonymous.
func requireActor(c *gin.Context) (*services.Actor, bool) {
	a := actor(c)
	if a == nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	return a, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, name), nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// queryFilters flattens the query string, keeping the first value per key.
func queryFilters(c *gin.Context) map[string]string {
	filters := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	return filters
}

// formUpload is the file part of a multipart body, read as a stream.
type formUpload struct {
	Filename    string
	ContentType string
	Fields      map[string]interface{}
	Body        io.Reader
}

// openFormFile walks the multipart body until the named file part. Plain
// fields seen on the way are collected, fields after the file are not read.
func openFormFile(c *gin.Context, field string, maxBytes int64) (*formUpload, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		return nil, errFileRequired
	}

	fields := map[string]interface{}{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return nil, errFileRequired
		}
		if err != nil {
			return nil, err
		}

		if part.FormName() == field && part.FileName() != "" {
			contentType := part.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			return &formUpload{
				Filename:    part.FileName(),
				ContentType: contentType,
				Fields:      fields,
				Body:        part,
			}, nil
		}

		if part.FileName() == "" {
			if value, err := readField(part); err == nil {
				fields[part.FormName()] = value
			}
		}
		part.Close()
	}
}

func readField(part *multipart.Part) (string, error) {
	b, err := io.ReadAll(io.LimitReader(part, 4<<10))
	return string(b), err
}

var errFileRequired = errors.New("file part missing")

// handleUploadError maps body size and missing-file errors before falling
// back to HandleError.
func handleUploadError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
		return
	}
	if errors.Is(err, errFileRequired) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileRequired), nil)
		return
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		utils.HandleError(c, err)
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}
