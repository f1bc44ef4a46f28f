// Package booking decides admission of reservations against existing ones
// for the same space and exposes availability queries.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/store"
)

// Scheduler owns booking admission control. All check-then-insert decisions
// run inside one transaction, serialized per space by the store's keyed
// lock; the Postgres exclusion constraint backs the check up across
// processes.
type Scheduler struct {
	store store.Store
}

// NewScheduler creates a Scheduler on top of the given store.
func NewScheduler(s store.Store) *Scheduler {
	return &Scheduler{store: s}
}

// Request carries the caller-supplied fields of a create or update.
type Request struct {
	UserID     string
	BuildingID string
	Kind       model.SpaceKind
	Date       string // "2006-01-02"
	Start      string // "15:04"
	End        string // "15:04"
}

// Availability is the result of an availability query.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	SpaceID   string `json:"spaceId,omitempty"`
}

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// validateInterval checks the date format and that [start, end) is a
// well-formed half-open interval. Zero-padded "HH:MM" strings order
// lexicographically the same way the times they denote do, so plain string
// comparison implements the interval arithmetic from here on.
func validateInterval(date, start, end string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperror.InvalidArgument("invalid booking date %q, want YYYY-MM-DD", date)
	}
	if !timeOfDayRe.MatchString(start) {
		return apperror.InvalidArgument("invalid start time %q, want HH:MM", start)
	}
	if !timeOfDayRe.MatchString(end) {
		return apperror.InvalidArgument("invalid end time %q, want HH:MM", end)
	}
	if start >= end {
		return apperror.InvalidArgument("start time must be before end time")
	}
	return nil
}

// countActiveOverlaps counts PENDING or CONFIRMED bookings on the space and
// date whose interval overlaps [start, end) under the strict open-interval
// test: existing.start < end AND existing.end > start. Equal boundaries do
// not overlap, which keeps back-to-back bookings admissible.
func countActiveOverlaps(tx *gorm.DB, spaceID, date, start, end, excludeID string) (int64, error) {
	q := tx.Model(&model.Booking{}).
		Where("space_id = ? AND booking_date = ?", spaceID, date).
		Where("status IN ?", statusStrings(model.ActiveBookingStatuses)).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func statusStrings(ss []model.BookingStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// CheckAvailability reports whether a space of the given kind is free in
// the building for the date and interval.
func (s *Scheduler) CheckAvailability(ctx context.Context, buildingID string, kind model.SpaceKind, date, start, end string) (Availability, error) {
	if !kind.Valid() {
		return Availability{}, apperror.InvalidArgument("unknown space kind %q", kind)
	}
	if err := validateInterval(date, start, end); err != nil {
		return Availability{}, err
	}

	space, err := s.store.FindSpace(ctx, buildingID, kind)
	if err != nil {
		return Availability{}, err
	}
	if space == nil {
		return Availability{Available: false, Reason: fmt.Sprintf("no %s found in building", kind)}, nil
	}

	n, err := countActiveOverlaps(s.store.DB().WithContext(ctx), space.ID, date, start, end, "")
	if err != nil {
		return Availability{}, err
	}
	if n > 0 {
		return Availability{Available: false, Reason: "space is already booked for the selected time"}, nil
	}
	return Availability{Available: true, SpaceID: space.ID}, nil
}

// Create admits a new booking. The overlap check and the insert are one
// atomic admission decision.
func (s *Scheduler) Create(ctx context.Context, req Request) (*model.Booking, error) {
	if !req.Kind.Valid() {
		return nil, apperror.InvalidArgument("unknown space kind %q", req.Kind)
	}
	if err := validateInterval(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	building, err := s.store.GetBuilding(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, apperror.NotFound("building not found")
	}
	space, err := s.store.FindSpace(ctx, req.BuildingID, req.Kind)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperror.NotFound("no %s available in building", req.Kind)
	}

	unlock := s.store.Lock("space:" + space.ID)
	defer unlock()

	bk := &model.Booking{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		SpaceID:     space.ID,
		BookingDate: req.Date,
		StartTime:   req.Start,
		EndTime:     req.End,
		Status:      model.BookingPending,
	}
	err = s.store.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := countActiveOverlaps(tx, space.ID, req.Date, req.Start, req.End, "")
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("space is already booked for the selected time")
		}
		return tx.Create(bk).Error
	})
	if err != nil {
		return nil, err
	}
	return bk, nil
}

// Update overwrites a booking's subject, interval and space selector. It
// re-resolves the space when the selector changed and re-validates the new
// interval against the other active bookings, excluding the booking being
// updated.
func (s *Scheduler) Update(ctx context.Context, id string, req Request) (*model.Booking, error) {
	if !req.Kind.Valid() {
		return nil, apperror.InvalidArgument("unknown space kind %q", req.Kind)
	}
	if err := validateInterval(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	bk, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if bk == nil {
		return nil, apperror.NotFound("booking not found")
	}
	space, err := s.store.FindSpace(ctx, req.BuildingID, req.Kind)
	if err != nil {
		return nil, err
	}
	if space == nil {
		return nil, apperror.NotFound("no %s available in building", req.Kind)
	}

	unlock := s.store.Lock("space:" + space.ID)
	defer unlock()

	err = s.store.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := countActiveOverlaps(tx, space.ID, req.Date, req.Start, req.End, bk.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("space is already booked for the selected time")
		}
		bk.UserID = req.UserID
		bk.SpaceID = space.ID
		bk.BookingDate = req.Date
		bk.StartTime = req.Start
		bk.EndTime = req.End
		return tx.Save(bk).Error
	})
	if err != nil {
		return nil, err
	}
	return bk, nil
}

// Delete permanently removes a booking. No soft-delete, no cascading
// check-in invalidation.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	res := s.store.DB().WithContext(ctx).Delete(&model.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("booking not found")
	}
	return nil
}

// List returns bookings matching the filter.
func (s *Scheduler) List(ctx context.Context, f store.BookingFilter) ([]model.Booking, error) {
	return s.store.ListBookings(ctx, f)
}
