package store

import (
	"time"

	"workplace-access-backend/internal/model"
)

// BookingFilter narrows booking listings. Zero values mean "any".
type BookingFilter struct {
	UserID     string
	SpaceID    string
	BuildingID string
	Kind       model.SpaceKind
	Date       string
	Status     model.BookingStatus
}

// CheckInFilter narrows check-in listings. Zero values mean "any".
type CheckInFilter struct {
	UserID      string
	VisitorID   string
	BuildingID  string
	Floor       string
	Block       string
	Status      model.CheckInStatus
	SubjectType model.SubjectType
	Since       *time.Time
	Until       *time.Time
}
