package model

import "time"

// CheckInStatus is the presence lifecycle state. CHECKED_OUT is terminal
// for checkout purposes, but Verify may transition a checked-out record
// back to CHECKED_IN as a re-entry mechanism.
type CheckInStatus string

const (
	CheckInPending    CheckInStatus = "pending"
	CheckInCheckedIn  CheckInStatus = "checked_in"
	CheckInCheckedOut CheckInStatus = "checked_out"
)

// SubjectType says whether a check-in belongs to an employee or a visitor.
type SubjectType string

const (
	SubjectEmployee SubjectType = "employee"
	SubjectVisitor  SubjectType = "visitor"
)

// CheckIn is a presence record. Exactly one of UserID and VisitorID is set.
// OfficerID records the officer who last acted on the record (verification
// or checkout). QRPayload is the opaque token embedded in the QR image; it
// carries the record's own identity.
type CheckIn struct {
	ID                string        `gorm:"primaryKey;size:36" json:"id"`
	UserID            *string       `gorm:"size:36;index" json:"userId"`
	VisitorID         *string       `gorm:"size:36;index" json:"visitorId"`
	SubjectType       SubjectType   `gorm:"size:16;not null" json:"subjectType"`
	BuildingID        string        `gorm:"size:36;index" json:"buildingId"`
	Floor             string        `gorm:"size:64" json:"floor"`
	Block             string        `gorm:"size:64" json:"block"`
	LaptopModel       string        `gorm:"size:256" json:"laptopModel"`
	LaptopAssetNumber string        `gorm:"size:128" json:"laptopAssetNumber"`
	CheckInTime       time.Time     `gorm:"not null;index" json:"checkInTime"`
	CheckOutTime      *time.Time    `json:"checkOutTime"`
	ExpiresAt         *time.Time    `json:"expiresAt"`
	OfficerID         *string       `gorm:"size:36" json:"officerId"`
	Status            CheckInStatus `gorm:"size:16;not null;index" json:"status"`
	QRPayload         string        `gorm:"column:qr_payload;size:64" json:"qrPayload"`
}

// Active reports whether the record still counts as an active presence.
func (c *CheckIn) Active() bool {
	return c.Status != CheckInCheckedOut
}
