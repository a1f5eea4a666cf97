// internal/services/like_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

type LikeService struct {
	db                  *gorm.DB
	items               *ItemService
	notificationService *NotificationService
}

type LikeState struct {
	IsLiked bool  `json:"is_liked"`
	Likes   int64 `json:"likes"`
}

func NewLikeService(db *gorm.DB, items *ItemService, notificationService *NotificationService) *LikeService {
	return &LikeService{
		db:                  db,
		items:               items,
		notificationService: notificationService,
	}
}

// Like is idempotent. The author is notified on the first like only.
func (s *LikeService) Like(ctx context.Context, actor *Actor, itemID uuid.UUID) (*LikeState, error) {
	item, err := s.items.GetVisible(ctx, itemID, actor)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ItemLike{ItemID: item.ID, UserID: actor.ID})
	if result.Error != nil {
		return nil, utils.WrapDBError(result.Error, "like")
	}

	s.items.RecomputeLikeCount(ctx, item.ID)

	if result.RowsAffected > 0 && s.notificationService != nil {
		bestEffort("notify item liked", func() error {
			var liker models.User
			if err := s.db.WithContext(ctx).First(&liker, "id = ?", actor.ID).Error; err != nil {
				return err
			}
			return s.notificationService.NotifyItemLiked(ctx, item, &liker)
		})
	}

	return s.State(ctx, actor, item.ID)
}

func (s *LikeService) Unlike(ctx context.Context, actor *Actor, itemID uuid.UUID) (*LikeState, error) {
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Where("item_id = ? AND user_id = ?", itemID, actor.ID).
		Delete(&models.ItemLike{}).Error; err != nil {
		return nil, utils.WrapDBError(err, "like")
	}

	s.items.RecomputeLikeCount(ctx, itemID)

	return s.State(ctx, actor, itemID)
}

func (s *LikeService) State(ctx context.Context, actor *Actor, itemID uuid.UUID) (*LikeState, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var mine int64
	if err := s.db.WithContext(ctx).Model(&models.ItemLike{}).
		Where("item_id = ? AND user_id = ?", itemID, actor.ID).
		Count(&mine).Error; err != nil {
		return nil, utils.WrapDBError(err, "like")
	}

	return &LikeState{IsLiked: mine > 0, Likes: item.Stats.Likes}, nil
}

// Favorites
func (s *LikeService) AddFavorite(ctx context.Context, actor *Actor, itemID uuid.UUID) error {
	item, err := s.items.GetVisible(ctx, itemID, actor)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{ItemID: item.ID, UserID: actor.ID}).Error; err != nil {
		return utils.WrapDBError(err, "favorite")
	}
	return nil
}

func (s *LikeService) RemoveFavorite(ctx context.Context, actor *Actor, itemID uuid.UUID) error {
	if err := s.db.WithContext(ctx).
		Where("item_id = ? AND user_id = ?", itemID, actor.ID).
		Delete(&models.Favorite{}).Error; err != nil {
		return utils.WrapDBError(err, "favorite")
	}
	return nil
}

// ListFavorites returns the caller's bookmarked items that are still
// published, most recently bookmarked first.
func (s *LikeService) ListFavorites(ctx context.Context, actor *Actor, params utils.PaginationParams) ([]ItemSummary, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Joins("JOIN favorites ON favorites.item_id = items.id").
		Where("favorites.user_id = ? AND items.status = ?", actor.ID, models.ItemStatusPublished)

	if params.Sort == "" {
		query = query.Order("favorites.created_at DESC")
	}
	return listSummaries(query, params)
}
