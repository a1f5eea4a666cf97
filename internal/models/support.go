// internal/models/support.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    string            `json:"type" gorm:"type:varchar(50);not null;index"`
	Title   string            `json:"title" gorm:"size:255;not null"`
	Message string            `json:"message" gorm:"type:text;not null"`
	Data    datatypes.JSONMap `json:"data,omitempty"`
	IsRead  bool              `json:"is_read" gorm:"not null;default:false;index"`
	ReadAt  *time.Time        `json:"read_at"`
}

type Ticket struct {
	BaseModel
	UserID   uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Subject  string       `json:"subject" gorm:"size:255;not null"`
	Status   TicketStatus `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	Priority string       `json:"priority" gorm:"type:varchar(20);not null;default:'normal'"`

	Messages []TicketMessage `json:"messages,omitempty" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
}

type TicketMessage struct {
	BaseModel
	TicketID uuid.UUID `json:"ticket_id" gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Body     string    `json:"body" gorm:"type:text;not null"`
}
