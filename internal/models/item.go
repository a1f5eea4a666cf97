// internal/models/item.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ItemStats is stored as three integer columns so counters can be bumped
// atomically with plain UPDATEs on any dialect.
type ItemStats struct {
	Views     int64 `json:"views" gorm:"not null;default:0"`
	Likes     int64 `json:"likes" gorm:"not null;default:0"`
	Downloads int64 `json:"downloads" gorm:"not null;default:0"`
}

type Item struct {
	BaseModel
	SectionID   uuid.UUID                 `json:"section_id" gorm:"type:uuid;not null;uniqueIndex:idx_items_section_slug,priority:1"`
	AuthorID    *uuid.UUID                `json:"author_id" gorm:"type:uuid;index"`
	Title       string                    `json:"title" gorm:"size:255;not null"`
	Slug        string                    `json:"slug" gorm:"size:150;not null;uniqueIndex:idx_items_section_slug,priority:2"`
	Summary     string                    `json:"summary" gorm:"size:500"`
	Description string                    `json:"description" gorm:"type:text"`
	Attributes  datatypes.JSONMap         `json:"attributes"`
	Links       datatypes.JSONSlice[Link] `json:"links"`
	Status      ItemStatus                `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	Stats       ItemStats                 `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`

	// Relationships
	Section *Section      `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Author  *User         `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Gallery []ItemGallery `json:"gallery,omitempty" gorm:"foreignKey:ItemID"`
	Files   []File        `json:"files,omitempty" gorm:"foreignKey:ItemID"`
}

func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.AuthorID != nil && *i.AuthorID == userID
}

type ItemGallery struct {
	BaseModel
	ItemID     uuid.UUID `json:"item_id" gorm:"type:uuid;not null;index"`
	URL        string    `json:"url" gorm:"size:1024;not null"`
	StorageKey string    `json:"storage_key" gorm:"size:512;not null"`
	IsPrimary  bool      `json:"is_primary" gorm:"not null;default:false"`
}

func (ItemGallery) TableName() string {
	return "item_gallery"
}

type ItemLike struct {
	BaseModel
	ItemID uuid.UUID `json:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_item_likes_item_user,priority:1"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_item_likes_item_user,priority:2;index"`
}

type Favorite struct {
	BaseModel
	ItemID uuid.UUID `json:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_item_user,priority:1"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_item_user,priority:2;index"`

	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}
