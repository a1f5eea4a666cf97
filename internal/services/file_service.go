// internal/services/file_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/metrics"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/storage"
	"github.com/javajoker/modhub-backend/internal/utils"
)

const DefaultSignedURLTTL = 15 * time.Minute

type FileService struct {
	db           *gorm.DB
	store        storage.Store
	items        *ItemService
	signedURLTTL time.Duration
}

type UploadVersionRequest struct {
	VersionNumber string                 `json:"version" validate:"required,max=50,version_number"`
	Filename      string
	ContentType   string
	Changelog     string
	Extra         map[string]interface{}
	Body          io.Reader
}

type UploadImageRequest struct {
	Filename    string
	ContentType string
	IsPrimary   bool
	Body        io.Reader
}

type DownloadLink struct {
	FileID    uuid.UUID `json:"file_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewFileService(db *gorm.DB, store storage.Store, items *ItemService, signedURLTTL time.Duration) *FileService {
	if signedURLTTL <= 0 {
		signedURLTTL = DefaultSignedURLTTL
	}
	return &FileService{
		db:           db,
		store:        store,
		items:        items,
		signedURLTTL: signedURLTTL,
	}
}

// authorizedItem loads the item and checks the actor may modify it.
func (s *FileService) authorizedItem(ctx context.Context, itemID uuid.UUID, actor *Actor) (*models.Item, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Authorize(item, actor); err != nil {
		return nil, err
	}
	return item, nil
}

// UploadVersion streams the body to items/{itemId}/{version}/{filename} and
// records a new version. Version numbers may repeat.
func (s *FileService) UploadVersion(ctx context.Context, actor *Actor, itemID uuid.UUID, req *UploadVersionRequest) (*models.File, error) {
	req.VersionNumber = strings.TrimSpace(req.VersionNumber)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}
	version := req.VersionNumber
	if req.Body == nil {
		return nil, utils.NewValidationError("file is required", nil)
	}

	item, err := s.authorizedItem(ctx, itemID, actor)
	if err != nil {
		return nil, err
	}

	filename := storage.SafeFilename(req.Filename)
	key := fmt.Sprintf("items/%s/%s/%s", item.ID, version, filename)

	obj, err := s.store.Put(ctx, key, req.Body, req.ContentType)
	if err != nil {
		return nil, utils.NewInternalError("failed to store file", err)
	}
	metrics.UploadBytes.Add(float64(obj.Size))

	data := map[string]interface{}{}
	for k, v := range req.Extra {
		data[k] = v
	}
	data["filename"] = filename
	data["mimetype"] = req.ContentType
	data["size"] = obj.Size

	file := &models.File{
		ItemID:        item.ID,
		VersionNumber: version,
		FileURL:       obj.Key,
		Changelog:     req.Changelog,
		Data:          data,
	}

	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		bestEffort("delete orphaned blob", func() error {
			return s.store.Delete(ctx, obj.Key)
		})
		return nil, utils.WrapDBError(err, "file")
	}

	return file, nil
}

// ListVersions returns the item's files, newest first.
func (s *FileService) ListVersions(ctx context.Context, actor *Actor, itemID uuid.UUID, params utils.PaginationParams) ([]models.File, int64, error) {
	if _, err := s.items.GetVisible(ctx, itemID, actor); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.File{}).Where("item_id = ?", itemID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "file")
	}

	files := []models.File{}
	if err := utils.ApplyPagination(query.Order("created_at DESC, id DESC"), params).
		Find(&files).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "file")
	}

	return files, total, nil
}

// GetDownloadURL signs a download URL, then counts the download against
// the file and the item. Files of unpublished items are only reachable by
// the author and admins.
func (s *FileService) GetDownloadURL(ctx context.Context, actor *Actor, fileID uuid.UUID) (*DownloadLink, error) {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		return nil, utils.WrapDBError(err, "file")
	}
	if _, err := s.items.GetVisible(ctx, file.ItemID, actor); err != nil {
		if utils.KindOf(err) == utils.KindNotFound {
			return nil, utils.NewNotFoundError("file")
		}
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, file.FileURL, s.signedURLTTL)
	if err != nil {
		return nil, utils.NewInternalError("failed to sign download url", err)
	}

	bestEffort("increment file downloads", func() error {
		return s.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).
			UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
	})
	s.items.RecomputeDownloadCount(ctx, file.ItemID)
	metrics.FileDownloads.Inc()

	return &DownloadLink{
		FileID:    file.ID,
		URL:       url,
		ExpiresAt: time.Now().Add(s.signedURLTTL),
	}, nil
}

func (s *FileService) DeleteVersion(ctx context.Context, actor *Actor, fileID uuid.UUID) error {
	var file models.File
	if err := s.db.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		return utils.WrapDBError(err, "file")
	}

	if _, err := s.authorizedItem(ctx, file.ItemID, actor); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&file).Error; err != nil {
		return utils.WrapDBError(err, "file")
	}

	s.items.RecomputeDownloadCount(ctx, file.ItemID)
	bestEffort("delete blob", func() error {
		return s.store.Delete(ctx, file.FileURL)
	})

	return nil
}

// ListGallery returns the primary image first, then the rest oldest first.
func (s *FileService) ListGallery(ctx context.Context, actor *Actor, itemID uuid.UUID, params utils.PaginationParams) ([]models.ItemGallery, int64, error) {
	if _, err := s.items.GetVisible(ctx, itemID, actor); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.ItemGallery{}).Where("item_id = ?", itemID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "image")
	}

	images := []models.ItemGallery{}
	if err := utils.ApplyPagination(orderGallery(query), params).Find(&images).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "image")
	}
	return images, total, nil
}

// UploadGalleryImage stores an image under gallery/{itemId}/. The first
// image of an item is always primary, and a new primary demotes the rest.
func (s *FileService) UploadGalleryImage(ctx context.Context, actor *Actor, itemID uuid.UUID, req *UploadImageRequest) (*models.ItemGallery, error) {
	if req.Body == nil {
		return nil, utils.NewValidationError("file is required", nil)
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, utils.NewValidationError("gallery uploads must be images", map[string]string{"content_type": req.ContentType})
	}

	item, err := s.authorizedItem(ctx, itemID, actor)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("gallery/%s/%d_%s", item.ID, time.Now().UnixMilli(), storage.SafeFilename(req.Filename))
	obj, err := s.store.Put(ctx, key, req.Body, req.ContentType)
	if err != nil {
		return nil, utils.NewInternalError("failed to store image", err)
	}
	metrics.UploadBytes.Add(float64(obj.Size))

	image := &models.ItemGallery{
		ItemID:     item.ID,
		URL:        obj.URL,
		StorageKey: obj.Key,
		IsPrimary:  req.IsPrimary,
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.ItemGallery{}).Where("item_id = ?", item.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			image.IsPrimary = true
		}
		if image.IsPrimary {
			if err := clearPrimary(tx, item.ID); err != nil {
				return err
			}
		}
		return tx.Create(image).Error
	})
	if err != nil {
		bestEffort("delete orphaned blob", func() error {
			return s.store.Delete(ctx, obj.Key)
		})
		return nil, utils.WrapDBError(err, "image")
	}

	return image, nil
}

func (s *FileService) SetPrimaryImage(ctx context.Context, actor *Actor, itemID, imageID uuid.UUID) (*models.ItemGallery, error) {
	if _, err := s.authorizedItem(ctx, itemID, actor); err != nil {
		return nil, err
	}

	var image models.ItemGallery
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND item_id = ?", imageID, itemID).First(&image).Error; err != nil {
			return err
		}
		if err := clearPrimary(tx, itemID); err != nil {
			return err
		}
		image.IsPrimary = true
		return tx.Model(&image).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, utils.WrapDBError(err, "image")
	}

	return &image, nil
}

// DeleteGalleryImage promotes the oldest remaining image when the primary
// one goes away.
func (s *FileService) DeleteGalleryImage(ctx context.Context, actor *Actor, itemID, imageID uuid.UUID) error {
	if _, err := s.authorizedItem(ctx, itemID, actor); err != nil {
		return err
	}

	var image models.ItemGallery
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND item_id = ?", imageID, itemID).First(&image).Error; err != nil {
			return err
		}
		if err := tx.Delete(&image).Error; err != nil {
			return err
		}
		if !image.IsPrimary {
			return nil
		}

		var next models.ItemGallery
		err := tx.Where("item_id = ?", itemID).Order("created_at ASC, id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
	if err != nil {
		return utils.WrapDBError(err, "image")
	}

	bestEffort("delete blob", func() error {
		return s.store.Delete(ctx, image.StorageKey)
	})

	return nil
}

func clearPrimary(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Model(&models.ItemGallery{}).
		Where("item_id = ? AND is_primary = ?", itemID, true).
		Update("is_primary", false).Error
}
