// Package checkin manages the presence lifecycle of subjects and visitors:
// creation of a PENDING record with a QR token, officer verification into
// CHECKED_IN, and checkout into the terminal CHECKED_OUT state.
package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/clock"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/notification"
	"workplace-access-backend/internal/store"
)

// Dispatcher receives presence events for asynchronous delivery. The
// worker pool in internal/notification implements it.
type Dispatcher interface {
	Dispatch(ev notification.Event)
}

// Service is the check-in state machine. Admission decisions are
// serialized per subject (creation) and per record (verification,
// checkout) through the store's keyed lock and run inside one transaction.
type Service struct {
	store    store.Store
	clock    clock.Clock
	tokenTTL time.Duration
	notify   Dispatcher
}

// NewService creates a check-in Service. tokenTTL bounds the QR token
// lifetime (24h in production config). notify may be nil.
func NewService(s store.Store, clk clock.Clock, tokenTTL time.Duration, notify Dispatcher) *Service {
	return &Service{store: s, clock: clk, tokenTTL: tokenTTL, notify: notify}
}

// CreateRequest carries a check-in request. Exactly one of UserID and
// VisitorID must be set. BookingID optionally links the check-in to the
// booking it fulfills.
type CreateRequest struct {
	UserID            string
	VisitorID         string
	BuildingID        string
	Floor             string
	Block             string
	LaptopModel       string
	LaptopAssetNumber string
	BookingID         string
}

// Create admits a new check-in in PENDING state and returns the record.
// The QR payload is the record's own identity; rendering it to a scannable
// image is the client's concern.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.CheckIn, error) {
	if (req.UserID == "") == (req.VisitorID == "") {
		return nil, apperror.InvalidArgument("exactly one of userId and visitorId must be set")
	}

	var (
		subjectType model.SubjectType
		subjectCol  string
		subjectID   string
	)
	if req.UserID != "" {
		user, err := s.store.GetUser(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperror.NotFound("user not found")
		}
		subjectType, subjectCol, subjectID = model.SubjectEmployee, "user_id", req.UserID
	} else {
		visitor, err := s.store.GetVisitor(ctx, req.VisitorID)
		if err != nil {
			return nil, err
		}
		if visitor == nil {
			return nil, apperror.NotFound("visitor not found")
		}
		subjectType, subjectCol, subjectID = model.SubjectVisitor, "visitor_id", req.VisitorID
	}

	unlock := s.store.Lock("presence:" + subjectCol + ":" + subjectID)
	defer unlock()

	now := s.clock.Now().UTC()
	expires := now.Add(s.tokenTTL)
	ci := &model.CheckIn{
		ID:                uuid.NewString(),
		SubjectType:       subjectType,
		BuildingID:        req.BuildingID,
		Floor:             req.Floor,
		Block:             req.Block,
		LaptopModel:       req.LaptopModel,
		LaptopAssetNumber: req.LaptopAssetNumber,
		CheckInTime:       now,
		ExpiresAt:         &expires,
		Status:            model.CheckInPending,
	}
	if subjectType == model.SubjectEmployee {
		ci.UserID = &subjectID
	} else {
		ci.VisitorID = &subjectID
	}
	ci.QRPayload = ci.ID

	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.CheckIn{}).
			Where(subjectCol+" = ? AND status <> ?", subjectID, model.CheckInCheckedOut).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperror.Conflict("subject already has an active check-in")
		}

		// Redundant with the active-presence check above, but preserved:
		// it pins the error precedence for a still-CHECKED_IN latest
		// record.
		var last model.CheckIn
		err := tx.Where(subjectCol+" = ?", subjectID).
			Order("check_in_time DESC").
			First(&last).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && last.Status == model.CheckInCheckedIn {
			return apperror.Conflict("subject is currently checked in and cannot check in again")
		}

		if err := tx.Create(ci).Error; err != nil {
			return err
		}

		// The association insert shares the transaction so a failed link
		// never leaves an orphaned check-in behind.
		if req.BookingID != "" {
			var bk model.Booking
			if err := tx.First(&bk, "id = ?", req.BookingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("booking not found")
				}
				return err
			}
			link := &model.BookingCheckIn{BookingID: bk.ID, CheckInID: ci.ID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ci, nil
}

// Checkout finalizes a CHECKED_IN record: terminal state, checkout
// timestamp and the acting officer are recorded, and the record is never
// mutated again through this path.
func (s *Service) Checkout(ctx context.Context, checkinID, officerID string) (*model.CheckIn, error) {
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
		if ci.Status != model.CheckInCheckedIn {
			return apperror.InvalidState("subject is not currently checked in")
		}
		now := s.clock.Now().UTC()
		ci.Status = model.CheckInCheckedOut
		ci.CheckOutTime = &now
		ci.OfficerID = &officerID
		return tx.Save(&ci).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.Dispatch(notification.Event{
			Kind:       notification.EventCheckedOut,
			CheckInID:  ci.ID,
			BuildingID: ci.BuildingID,
			Subject:    subjectLabel(&ci),
		})
	}
	return &ci, nil
}

// Snapshot is the read-only status projection of a check-in. It carries no
// authorization-sensitive decision and is accessible to any caller.
type Snapshot struct {
	CheckInID         string     `json:"checkinId"`
	Status            string     `json:"status"`
	UserID            *string    `json:"userId"`
	VisitorID         *string    `json:"visitorId"`
	Floor             string     `json:"floor"`
	Block             string     `json:"block"`
	LaptopModel       string     `json:"laptopModel"`
	LaptopAssetNumber string     `json:"laptopAssetNumber"`
	ExpiresAt         *time.Time `json:"expiresAt"`
}

// GetStatus returns the status snapshot for a check-in.
func (s *Service) GetStatus(ctx context.Context, checkinID string) (*Snapshot, error) {
	ci, err := s.store.GetCheckIn(ctx, checkinID)
	if err != nil {
		return nil, err
	}
	if ci == nil {
		return nil, apperror.NotFound("check-in record not found")
	}
	return &Snapshot{
		CheckInID:         ci.ID,
		Status:            string(ci.Status),
		UserID:            ci.UserID,
		VisitorID:         ci.VisitorID,
		Floor:             ci.Floor,
		Block:             ci.Block,
		LaptopModel:       ci.LaptopModel,
		LaptopAssetNumber: ci.LaptopAssetNumber,
		ExpiresAt:         ci.ExpiresAt,
	}, nil
}

// LinkedCheckIn pairs a booking-linked check-in with its booking.
type LinkedCheckIn struct {
	BookingID string         `json:"bookingId"`
	CheckInID string         `json:"checkinId"`
	Booking   *model.Booking `json:"booking"`
	CheckIn   *model.CheckIn `json:"checkin"`
}

// MyCheckIns holds a subject's general and booking-linked check-ins.
type MyCheckIns struct {
	General       []model.CheckIn `json:"generalCheckins"`
	BookingLinked []LinkedCheckIn `json:"bookingCheckins"`
}

// ListMine returns all check-ins for a user, splitting out the ones linked
// to bookings.
func (s *Service) ListMine(ctx context.Context, userID string) (*MyCheckIns, error) {
	general, err := s.store.ListCheckIns(ctx, store.CheckInFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	out := &MyCheckIns{General: general, BookingLinked: []LinkedCheckIn{}}
	for i := range general {
		ci := general[i]
		link, err := s.store.GetLinkByCheckIn(ctx, ci.ID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			continue
		}
		bk, err := s.store.GetBooking(ctx, link.BookingID)
		if err != nil {
			return nil, err
		}
		out.BookingLinked = append(out.BookingLinked, LinkedCheckIn{
			BookingID: link.BookingID,
			CheckInID: ci.ID,
			Booking:   bk,
			CheckIn:   &ci,
		})
	}
	return out, nil
}

// List returns check-ins matching the filter (admin/officer surface).
func (s *Service) List(ctx context.Context, f store.CheckInFilter) ([]model.CheckIn, error) {
	return s.store.ListCheckIns(ctx, f)
}

func subjectLabel(ci *model.CheckIn) string {
	if ci.UserID != nil {
		return "employee " + *ci.UserID
	}
	if ci.VisitorID != nil {
		return "visitor " + *ci.VisitorID
	}
	return "unknown subject"
}
