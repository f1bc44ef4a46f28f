package model

import "time"

// Building represents an office building.
type Building struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Address     string    `gorm:"size:512" json:"address"`
	TotalFloors int       `gorm:"not null;default:1" json:"totalFloors"`
	TotalBlocks int       `gorm:"not null;default:1" json:"totalBlocks"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}
