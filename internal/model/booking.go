package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses are the statuses that block overlapping admission.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Booking reserves a space for a calendar date and a half-open time
// interval [StartTime, EndTime). Dates are "2006-01-02" and times are
// zero-padded "15:04" strings, so lexicographic order matches time order
// and the overlap predicate can run directly in SQL.
type Booking struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	UserID      string        `gorm:"size:36;not null;index" json:"userId"`
	SpaceID     string        `gorm:"size:36;not null;index:idx_bookings_space_date" json:"spaceId"`
	BookingDate string        `gorm:"size:10;not null;index:idx_bookings_space_date" json:"bookingDate"`
	StartTime   string        `gorm:"size:5;not null" json:"startTime"`
	EndTime     string        `gorm:"size:5;not null" json:"endTime"`
	Status      BookingStatus `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time     `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updatedAt"`
}

// BookingCheckIn links a CheckIn to the Booking it fulfills. Rows are
// written in the same transaction as the CheckIn and never updated.
type BookingCheckIn struct {
	BookingID string    `gorm:"primaryKey;size:36" json:"bookingId"`
	CheckInID string    `gorm:"primaryKey;size:36" json:"checkinId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}
