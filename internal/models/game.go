// internal/models/game.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Game struct {
	BaseModel
	Slug        string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description" gorm:"type:text"`
	CoverURL    string `json:"cover_url" gorm:"size:512"`

	// Relationships
	Sections []Section `json:"sections,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

// FilterField declares one attribute key the UI offers as a catalog filter.
// It is display metadata only; the catalog accepts any attribute key.
type FilterField struct {
	Key          string   `json:"key,omitempty"`
	Label        string   `json:"label"`
	Options      []string `json:"options"`
	IsPreview    bool     `json:"is_preview"`
	PreviewLimit int      `json:"preview_limit"`
}

type Section struct {
	BaseModel
	GameID       uuid.UUID                        `json:"game_id" gorm:"type:uuid;not null;uniqueIndex:idx_sections_game_slug,priority:1"`
	Slug         string                           `json:"slug" gorm:"size:100;not null;uniqueIndex:idx_sections_game_slug,priority:2"`
	Name         string                           `json:"name" gorm:"size:255;not null"`
	UIConfig     datatypes.JSONMap                `json:"ui_config"`
	FilterConfig datatypes.JSONSlice[FilterField] `json:"filter_config"`

	// Relationships
	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID"`
}
