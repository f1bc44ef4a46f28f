package model

import "time"

// PushSubscription holds a security-dashboard browser push subscription.
// A subscription scoped to a building receives presence events for that
// building; an empty BuildingID receives everything.
type PushSubscription struct {
	Endpoint   string    `gorm:"primaryKey" json:"endpoint"`
	P256DH     string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth       string    `gorm:"not null" json:"auth"`
	BuildingID string    `gorm:"size:36;index" json:"buildingId"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}
