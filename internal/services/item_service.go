// internal/services/item_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/storage"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type ItemService struct {
	db    *gorm.DB
	store storage.Store
}

type CreateItemRequest struct {
	Title       string                 `json:"title" validate:"required,min=3,max=255"`
	Slug        string                 `json:"slug,omitempty" validate:"omitempty,slug"`
	Summary     string                 `json:"summary,omitempty" validate:"max=500"`
	Description string                 `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Links       []models.Link          `json:"links,omitempty"`
	Status      models.ItemStatus      `json:"status,omitempty"`
}

// UpdateItemRequest only touches the fields that are present.
type UpdateItemRequest struct {
	Title       *string                `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Slug        *string                `json:"slug,omitempty" validate:"omitempty,slug"`
	Summary     *string                `json:"summary,omitempty" validate:"omitempty,max=500"`
	Description *string                `json:"description,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	Links       *[]models.Link         `json:"links,omitempty"`
}

func (r *UpdateItemRequest) isEmpty() bool {
	return r.Title == nil && r.Slug == nil && r.Summary == nil &&
		r.Description == nil && r.Attributes == nil && r.Links == nil
}

func NewItemService(db *gorm.DB, store storage.Store) *ItemService {
	return &ItemService{
		db:    db,
		store: store,
	}
}

func (s *ItemService) Create(ctx context.Context, sectionID, authorID uuid.UUID, req *CreateItemRequest) (*models.Item, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	if slug == "" {
		return nil, utils.NewValidationError("slug could not be derived from title", nil)
	}

	status := req.Status
	if !status.Valid() {
		status = models.ItemStatusDraft
	}

	item := &models.Item{
		SectionID:   sectionID,
		AuthorID:    &authorID,
		Title:       req.Title,
		Slug:        slug,
		Summary:     req.Summary,
		Description: req.Description,
		Attributes:  datatypes.JSONMap(req.Attributes),
		Links:       datatypes.JSONSlice[models.Link](req.Links),
		Status:      status,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, utils.NewConflictError("slug already taken in this section", err)
		}
		return nil, utils.WrapDBError(err, "item")
	}

	return item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}
	return &item, nil
}

// GetVisible hides unpublished items from everyone but the author and
// admins. Hidden items look missing, never forbidden.
func (s *ItemService) GetVisible(ctx context.Context, itemID uuid.UUID, actor *Actor) (*models.Item, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(item, actor) {
		return nil, utils.NewNotFoundError("item")
	}
	return item, nil
}

func visibleTo(item *models.Item, actor *Actor) bool {
	if item.Status == models.ItemStatusPublished {
		return true
	}
	return actor != nil && (actor.IsAdmin() || item.IsOwnedBy(actor.ID))
}

func (s *ItemService) GetBySlug(ctx context.Context, sectionID uuid.UUID, slug string) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).
		Where("section_id = ? AND slug = ?", sectionID, slug).
		First(&item).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}
	return &item, nil
}

// Authorize allows the author and admins.
func (s *ItemService) Authorize(item *models.Item, actor *Actor) error {
	if actor == nil {
		return utils.NewUnauthorizedError("authentication required")
	}
	if actor.IsAdmin() || item.IsOwnedBy(actor.ID) {
		return nil
	}
	return utils.NewForbiddenError("only the author can modify this item")
}

func (s *ItemService) Update(ctx context.Context, itemID uuid.UUID, req *UpdateItemRequest) (*models.Item, error) {
	if req.isEmpty() {
		return nil, utils.NewValidationError("no fields to update", nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Attributes != nil {
		updates["attributes"] = datatypes.JSONMap(req.Attributes)
	}
	if req.Links != nil {
		updates["links"] = datatypes.JSONSlice[models.Link](*req.Links)
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, utils.NewConflictError("slug already taken in this section", err)
		}
		return nil, utils.WrapDBError(err, "item")
	}

	return s.Get(ctx, itemID)
}

// UpdateStatus accepts any move between known statuses.
func (s *ItemService) UpdateStatus(ctx context.Context, itemID uuid.UUID, status models.ItemStatus) (*models.Item, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("invalid item status", map[string]interface{}{
			"status":  status,
			"allowed": []models.ItemStatus{models.ItemStatusDraft, models.ItemStatusPublished, models.ItemStatusHidden, models.ItemStatusArchived},
		})
	}

	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(item).Update("status", status).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}
	item.Status = status

	return item, nil
}

// Delete removes the item and every row hanging off it, then drops the
// stored blobs.
func (s *ItemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return err
	}

	var keys []string
	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var files []models.File
		if err := tx.Where("item_id = ?", item.ID).Find(&files).Error; err != nil {
			return err
		}
		for _, f := range files {
			keys = append(keys, f.FileURL)
		}

		var images []models.ItemGallery
		if err := tx.Where("item_id = ?", item.ID).Find(&images).Error; err != nil {
			return err
		}
		for _, img := range images {
			keys = append(keys, img.StorageKey)
		}

		for _, model := range []interface{}{
			&models.File{}, &models.ItemGallery{}, &models.ItemLike{}, &models.Favorite{}, &models.Report{},
		} {
			if err := tx.Where("item_id = ?", item.ID).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(item).Error
	})
	if err != nil {
		return utils.WrapDBError(err, "item")
	}

	for _, key := range keys {
		bestEffort("delete blob", func() error {
			return s.store.Delete(ctx, key)
		})
	}

	return nil
}

func (s *ItemService) ListByAuthor(ctx context.Context, authorID uuid.UUID, params utils.PaginationParams) ([]ItemSummary, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{}).Where("items.author_id = ?", authorID)
	return listSummaries(query, params)
}

// Stat counters. Failures are logged, never returned.
func (s *ItemService) RecomputeLikeCount(ctx context.Context, itemID uuid.UUID) {
	bestEffort("recompute likes", func() error {
		return s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).
			UpdateColumn("stats_likes", gorm.Expr("(SELECT COUNT(*) FROM item_likes WHERE item_likes.item_id = ?)", itemID)).Error
	})
}

func (s *ItemService) RecomputeViewCount(ctx context.Context, itemID uuid.UUID) {
	bestEffort("increment views", func() error {
		return s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).
			UpdateColumn("stats_views", gorm.Expr("stats_views + 1")).Error
	})
}

func (s *ItemService) RecomputeDownloadCount(ctx context.Context, itemID uuid.UUID) {
	bestEffort("recompute downloads", func() error {
		return s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", itemID).
			UpdateColumn("stats_downloads", gorm.Expr("(SELECT COALESCE(SUM(download_count), 0) FROM files WHERE files.item_id = ?)", itemID)).Error
	})
}
