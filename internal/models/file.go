// internal/models/file.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// File is one uploaded version of an item. Version numbers are free text and
// may repeat; ordering is by upload time.
type File struct {
	BaseModel
	ItemID        uuid.UUID         `json:"item_id" gorm:"type:uuid;not null;index"`
	VersionNumber string            `json:"version_number" gorm:"size:50;not null"`
	FileURL       string            `json:"file_url" gorm:"size:1024;not null"`
	Changelog     string            `json:"changelog" gorm:"type:text"`
	Data          datatypes.JSONMap `json:"data"`
	DownloadCount int64             `json:"download_count" gorm:"not null;default:0"`
}
