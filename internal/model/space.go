package model

import "time"

// SpaceKind enumerates the bookable space categories.
type SpaceKind string

const (
	SpaceDesk        SpaceKind = "desk"
	SpaceOffice      SpaceKind = "office"
	SpaceMeetingRoom SpaceKind = "meeting_room"
)

// Valid reports whether k is a known space kind.
func (k SpaceKind) Valid() bool {
	switch k {
	case SpaceDesk, SpaceOffice, SpaceMeetingRoom:
		return true
	}
	return false
}

// Space is a bookable resource unit. The catalog holds at most one Space
// per (building, kind) pair; capacity models the quantity count, not
// individual desks.
type Space struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	BuildingID string    `gorm:"size:36;not null;uniqueIndex:idx_spaces_building_kind" json:"buildingId"`
	Kind       SpaceKind `gorm:"size:32;not null;uniqueIndex:idx_spaces_building_kind" json:"kind"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Floor      string    `gorm:"size:64" json:"floor"`
	Block      string    `gorm:"size:64" json:"block"`
	Capacity   int       `gorm:"not null;default:1" json:"capacity"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}
