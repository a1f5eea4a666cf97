// internal/services/catalog_service.go
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/modhub-backend/internal/cache"
	"github.com/javajoker/modhub-backend/internal/metrics"
	"github.com/javajoker/modhub-backend/internal/models"
	"github.com/javajoker/modhub-backend/internal/utils"
)

// Catalog sort whitelist. Every order ends on id so pages never overlap.
var itemSorts = map[string]string{
	"newest":    "items.created_at DESC, items.id DESC",
	"oldest":    "items.created_at ASC, items.id ASC",
	"popular":   "items.stats_likes DESC, items.created_at DESC, items.id DESC",
	"downloads": "items.stats_downloads DESC, items.created_at DESC, items.id DESC",
	"views":     "items.stats_views DESC, items.created_at DESC, items.id DESC",
}

const defaultItemSort = "newest"

type CatalogService struct {
	db    *gorm.DB
	items *ItemService
	views cache.ViewDeduper
}

// ItemSummary is the list representation of an item.
type ItemSummary struct {
	ID         uuid.UUID          `json:"id"`
	SectionID  uuid.UUID          `json:"section_id"`
	Title      string             `json:"title"`
	Slug       string             `json:"slug"`
	Summary    string             `json:"summary"`
	Attributes datatypes.JSONMap  `json:"attributes"`
	Status     models.ItemStatus  `json:"status"`
	Stats      models.ItemStats   `json:"stats"`
	Author     *models.PublicUser `json:"author"`
	CoverURL   string             `json:"cover_url"`
	CreatedAt  time.Time          `json:"created_at"`
}

type ItemDetail struct {
	models.Item
	Author          *models.PublicUser   `json:"author"`
	Gallery         []models.ItemGallery `json:"gallery"`
	BannerURL       string               `json:"banner_url"`
	DescriptionHTML string               `json:"description_html"`
	Versions        []models.File        `json:"versions"`
	FilterConfig    []models.FilterField `json:"filter_config"`
}

type PlatformStats struct {
	Games          int64 `json:"games"`
	PublishedItems int64 `json:"published_items"`
	Users          int64 `json:"users"`
	Downloads      int64 `json:"downloads"`
}

func NewCatalogService(db *gorm.DB, items *ItemService, views cache.ViewDeduper) *CatalogService {
	return &CatalogService{
		db:    db,
		items: items,
		views: views,
	}
}

func (s *CatalogService) ListGames(ctx context.Context, params utils.PaginationParams) ([]models.Game, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Game{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "game")
	}

	games := []models.Game{}
	if err := utils.ApplyPagination(query.Order("title ASC, id ASC"), params).
		Find(&games).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "game")
	}
	return games, total, nil
}

func (s *CatalogService) GetGame(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Where("slug = ?", slug).
		First(&game).Error; err != nil {
		return nil, utils.WrapDBError(err, "game")
	}
	return &game, nil
}

// GetSection resolves the game first, then the section within it.
func (s *CatalogService) GetSection(ctx context.Context, gameSlug, sectionSlug string) (*models.Section, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("slug = ?", gameSlug).First(&game).Error; err != nil {
		return nil, utils.WrapDBError(err, "game")
	}

	var section models.Section
	if err := s.db.WithContext(ctx).
		Where("game_id = ? AND slug = ?", game.ID, sectionSlug).
		First(&section).Error; err != nil {
		return nil, utils.WrapDBError(err, "section")
	}
	section.Game = &game

	return &section, nil
}

// List returns published items of one section. Every non-reserved key in
// filters must equal the item's attribute of the same name.
func (s *CatalogService) List(ctx context.Context, gameSlug, sectionSlug string, filters map[string]string, params utils.PaginationParams) ([]ItemSummary, int64, error) {
	section, err := s.GetSection(ctx, gameSlug, sectionSlug)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.Item{}).
		Where("items.section_id = ? AND items.status = ?", section.ID, models.ItemStatusPublished)

	// Sorted keys keep the generated SQL stable.
	keys := make([]string, 0, len(filters))
	for key := range filters {
		if !utils.ReservedQueryKeys[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		query = query.Where(attributeEquals(s.db, key, filters[key]))
	}

	if q := strings.TrimSpace(params.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(items.title) LIKE ? OR LOWER(items.summary) LIKE ?)", like, like)
	}

	return listSummaries(query, params)
}

// attributeEquals compares the text form of attributes[key] with value.
// Both are bound parameters.
func attributeEquals(db *gorm.DB, key, value string) clause.Expr {
	if db.Dialector.Name() == "postgres" {
		return gorm.Expr("jsonb_extract_path_text(items.attributes, ?) = ?", key, value)
	}
	// SQLite reports JSON booleans as 1/0, so they are spelled out to match
	// the PostgreSQL text form.
	return gorm.Expr(`EXISTS (SELECT 1 FROM json_each(items.attributes) AS attr WHERE attr.key = ? AND `+
		`(CASE attr.type WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' ELSE CAST(attr.value AS TEXT) END) = ?)`,
		key, value)
}

// listSummaries counts, sorts and pages query, which must be scoped to
// the items model.
func listSummaries(query *gorm.DB, params utils.PaginationParams) ([]ItemSummary, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "item")
	}

	var items []models.Item
	query = utils.ApplySort(query, params.Sort, itemSorts, defaultItemSort)
	if err := utils.ApplyPagination(query, params).
		Preload("Author").
		Preload("Gallery", orderGallery).
		Find(&items).Error; err != nil {
		return nil, 0, utils.WrapDBError(err, "item")
	}

	summaries := make([]ItemSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, summarize(&items[i]))
	}

	return summaries, total, nil
}

// orderGallery puts the primary image first, then upload order.
func orderGallery(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC, created_at ASC, id ASC")
}

func summarize(item *models.Item) ItemSummary {
	return ItemSummary{
		ID:         item.ID,
		SectionID:  item.SectionID,
		Title:      item.Title,
		Slug:       item.Slug,
		Summary:    item.Summary,
		Attributes: item.Attributes,
		Status:     item.Status,
		Stats:      item.Stats,
		Author:     item.Author.Public(),
		CoverURL:   coverURL(item.Gallery),
		CreatedAt:  item.CreatedAt,
	}
}

func coverURL(gallery []models.ItemGallery) string {
	for _, img := range gallery {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(gallery) > 0 {
		return gallery[0].URL
	}
	return ""
}

// Detail returns the full item. Unpublished items are visible to their
// author and admins only. The first view per client within the dedup
// window bumps the view counter.
func (s *CatalogService) Detail(ctx context.Context, gameSlug, sectionSlug, itemSlug string, actor *Actor, clientIP string) (*ItemDetail, error) {
	section, err := s.GetSection(ctx, gameSlug, sectionSlug)
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Gallery", orderGallery).
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Where("section_id = ? AND slug = ?", section.ID, itemSlug).
		First(&item).Error; err != nil {
		return nil, utils.WrapDBError(err, "item")
	}

	if !visibleTo(&item, actor) {
		return nil, utils.NewNotFoundError("item")
	}

	if s.countView(ctx, item.ID, clientIP) {
		item.Stats.Views++
	}

	detail := &ItemDetail{
		Item:            item,
		Author:          item.Author.Public(),
		Gallery:         item.Gallery,
		BannerURL:       coverURL(item.Gallery),
		DescriptionHTML: utils.RenderMarkdown(item.Description),
		Versions:        item.Files,
		FilterConfig:    section.FilterConfig,
	}
	if detail.Gallery == nil {
		detail.Gallery = []models.ItemGallery{}
	}
	if detail.Versions == nil {
		detail.Versions = []models.File{}
	}
	if detail.FilterConfig == nil {
		detail.FilterConfig = []models.FilterField{}
	}
	detail.Item.Files = nil
	detail.Item.Gallery = nil

	return detail, nil
}

func (s *CatalogService) countView(ctx context.Context, itemID uuid.UUID, clientIP string) bool {
	if s.views == nil {
		return false
	}

	first, err := s.views.FirstSeen(ctx, cache.ViewKey(itemID.String(), clientIP))
	if err != nil {
		logrus.WithError(err).WithField("item_id", itemID).Warn("View dedup unavailable")
		return false
	}
	if !first {
		return false
	}

	s.items.RecomputeViewCount(ctx, itemID)
	metrics.ItemViews.Inc()
	return true
}

func (s *CatalogService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Game{}).Count(&stats.Games).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}
	if err := db.Model(&models.Item{}).Where("status = ?", models.ItemStatusPublished).
		Count(&stats.PublishedItems).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}
	if err := db.Model(&models.File{}).Select("COALESCE(SUM(download_count), 0)").
		Scan(&stats.Downloads).Error; err != nil {
		return nil, utils.WrapDBError(err, "stats")
	}

	return stats, nil
}
