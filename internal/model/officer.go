package model

import "time"

// SecurityOfficer verifies QR tokens and performs checkouts. Officers log
// in with a badge number and a hashed PIN.
type SecurityOfficer struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	BadgeNumber string    `gorm:"size:64;uniqueIndex;not null" json:"badgeNumber"`
	FirstName   string    `gorm:"size:128;not null" json:"firstName"`
	LastName    string    `gorm:"size:128;not null" json:"lastName"`
	PINHash     string    `gorm:"column:pin_hash;size:255;not null" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
