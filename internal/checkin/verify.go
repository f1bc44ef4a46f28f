package checkin

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/notification"
)

// Verify binds a presented QR token to its check-in record and transitions
// it into CHECKED_IN, recording the verifying officer. A PENDING record is
// granted first entry; a CHECKED_OUT record is granted re-entry. Any other
// state is refused, which is what stops a double scan of the same
// still-PENDING token from succeeding twice: the two submissions are
// serialized by the record's lock and the second one sees CHECKED_IN.
func (s *Service) Verify(ctx context.Context, checkinID, officerID string) (*model.CheckIn, error) {
	unlock := s.store.Lock("checkin:" + checkinID)
	defer unlock()

	var ci model.CheckIn
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&ci, "id = ?", checkinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("check-in record not found")
			}
			return err
		}

		if ci.ExpiresAt != nil {
			now := s.clock.Now().UTC()
			if now.After(asUTC(*ci.ExpiresAt)) {
				return apperror.TokenExpired("qr code has expired")
			}
		}

		if ci.Status != model.CheckInPending && ci.Status != model.CheckInCheckedOut {
			return apperror.InvalidState("check-in is not pending or already processed")
		}

		ci.Status = model.CheckInCheckedIn
		ci.OfficerID = &officerID
		return tx.Save(&ci).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Dispatch(notification.Event{
			Kind:       notification.EventCheckedIn,
			CheckInID:  ci.ID,
			BuildingID: ci.BuildingID,
			Subject:    subjectLabel(&ci),
		})
	}
	return &ci, nil
}

// asUTC reinterprets the wall-clock fields of a stored timestamp as UTC.
// Drivers round-trip expiry values without zone information; reading them
// in any other zone would shift the expiry instant and fail scans
// spuriously.
func asUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
