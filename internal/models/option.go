package models

import (
	"time"

	"gorm.io/datatypes"
)

// Option is a named, JSON-encoded settings document
type Option struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;size:191;not null" json:"name"`
	Value     datatypes.JSON `json:"value"`
	Autoload  bool           `gorm:"default:true" json:"autoload"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the table name for Option model
func (Option) TableName() string {
	return "options"
}
