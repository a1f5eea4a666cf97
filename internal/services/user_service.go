// internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/javajoker/modhub-backend/internal/database"
	"github.com/javajoker/modhub-backend/internal/metrics"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/storage"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type UserService struct {
	db    *gorm.DB
	store storage.Store
	items *ItemService
}

type UpdateUserProfileRequest struct {
	DisplayName *string        `json:"display_name,omitempty" validate:"omitempty,max=100"`
	AvatarURL   *string        `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Bio         *string        `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Links       *[]models.Link `json:"links,omitempty"`
}

type PublicProfile struct {
	models.PublicUser
	Bio       string                           `json:"bio"`
	Links     datatypes.JSONSlice[models.Link] `json:"links"`
	ItemCount int64                            `json:"item_count"`
	CreatedAt time.Time                        `json:"created_at"`
}

func NewUserService(db *gorm.DB, store storage.Store, items *ItemService) *UserService {
	return &UserService{
		db:    db,
		store: store,
		items: items,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	return &user, nil
}

// GetPublicProfile leaves out email, role and account state.
func (s *UserService) GetPublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("author_id = ? AND status = ?", user.ID, models.ItemStatusPublished).
		Count(&count).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}

	return &PublicProfile{
		PublicUser: *user.Public(),
		Bio:        user.Bio,
		Links:      user.Links,
		ItemCount:  count,
		CreatedAt:  user.CreatedAt,
	}, nil
}

// ListPublishedItems is the public item list of one author.
func (s *UserService) ListPublishedItems(ctx context.Context, username string, params utils.PaginationParams) ([]ItemSummary, int64, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("items.author_id = ? AND items.status = ?", user.ID, models.ItemStatusPublished)
	return listSummaries(query, params)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Links != nil {
		updates["links"] = datatypes.JSONSlice[models.Link](*req.Links)
	}
	if len(updates) == 0 {
		return nil, utils.NewValidationError("no fields to update", nil)
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}

	return s.GetUserByID(ctx, userID)
}

func (s *UserService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*models.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, utils.NewValidationError("avatar must be an image", map[string]string{"content_type": contentType})
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%d_%s", user.ID, time.Now().UnixMilli(), storage.SafeFilename(filename))
	obj, err := s.store.Put(ctx, key, body, contentType)
	if err != nil {
		return nil, utils.NewInternalError("failed to store avatar", err)
	}
	metrics.UploadBytes.Add(float64(obj.Size))

	if err := s.db.WithContext(ctx).Model(user).Update("avatar_url", obj.URL).Error; err != nil {
		return nil, utils.WrapDBError(err, "user")
	}
	user.AvatarURL = obj.URL

	return user, nil
}

// DeleteExpiredUnverified hard-deletes accounts whose verification window
// closed without confirmation, along with their likes, favorites,
// notifications and reports. Their items are kept without an author.
func (s *UserService) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email_verified_at IS NULL AND verification_expires_at IS NOT NULL AND verification_expires_at < ?", now).
		Pluck("id", &ids).Error; err != nil {
		return 0, utils.WrapDBError(err, "user")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var likedItems []uuid.UUID
	var deleted int64
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Model(&models.ItemLike{}).Where("user_id IN ?", ids).
			Distinct().Pluck("item_id", &likedItems).Error; err != nil {
			return err
		}

		owned := []struct {
			model  interface{}
			column string
		}{
			{&models.ItemLike{}, "user_id"},
			{&models.Favorite{}, "user_id"},
			{&models.Notification{}, "user_id"},
			{&models.Report{}, "reporter_id"},
		}
		for _, o := range owned {
			if err := tx.Where(o.column+" IN ?", ids).Delete(o.model).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Item{}).Where("author_id IN ?", ids).
			UpdateColumn("author_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&models.User{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, utils.WrapDBError(err, "user")
	}

	for _, itemID := range likedItems {
		s.items.RecomputeLikeCount(ctx, itemID)
	}

	metrics.UsersCleaned.Add(float64(deleted))
	logrus.WithField("count", deleted).Info("Removed expired unverified accounts")

	return deleted, nil
}
