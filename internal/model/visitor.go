package model

import "time"

// Visitor is a guest registered at a kiosk. Visitors hold check-ins but
// never bookings.
type Visitor struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	FirstName    string    `gorm:"size:128;not null" json:"firstName"`
	LastName     string    `gorm:"size:128;not null" json:"lastName"`
	Company      string    `gorm:"size:256" json:"company"`
	Mobile       string    `gorm:"size:32;not null" json:"mobile"`
	Email        string    `gorm:"size:255" json:"email"`
	HostUserID   string    `gorm:"size:36;index" json:"hostUserId"`
	BuildingID   string    `gorm:"size:36;index" json:"buildingId"`
	RegisteredAt time.Time `gorm:"not null" json:"registeredAt"`
}
