// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID        `json:"user_id" gorm:"type:uuid;index"`
	Action       string            `json:"action" gorm:"size:100;not null;index"`
	ResourceType string            `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID        `json:"resource_id" gorm:"type:uuid;index"`
	Payload      datatypes.JSONMap `json:"payload"`
	Status       int               `json:"status"`
	IPAddress    string            `json:"ip_address" gorm:"size:45"`
	UserAgent    string            `json:"user_agent" gorm:"type:text"`
}

// Report flags an item for moderation.
type Report struct {
	BaseModel
	ReporterID  uuid.UUID    `json:"reporter_id" gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID    `json:"item_id" gorm:"type:uuid;not null;index"`
	Reason      string       `json:"reason" gorm:"size:100;not null"`
	Description string       `json:"description" gorm:"type:text"`
	Status      ReportStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	AdminNotes  string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ResolvedBy  *uuid.UUID   `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt  *time.Time   `json:"resolved_at"`

	// Relationships
	Reporter *User `json:"-" gorm:"foreignKey:ReporterID"`
	Item     *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

type Suggestion struct {
	BaseModel
	UserID *uuid.UUID       `json:"user_id" gorm:"type:uuid;index"`
	GameID *uuid.UUID       `json:"game_id" gorm:"type:uuid;index"`
	Title  string           `json:"title" gorm:"size:255;not null"`
	Body   string           `json:"body" gorm:"type:text;not null"`
	Status SuggestionStatus `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
}
