package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workplace-access-backend/internal/model"
)

// Store defines the interface for all database operations. Lookups return
// (nil, nil) when the entity does not exist; services decide whether an
// unresolved reference is an error.
type Store interface {
	DB() *gorm.DB
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	// Lock serializes check-then-act admission decisions on the given key
	// (a space id, subject id or check-in id). The returned func releases
	// the lock.
	Lock(key string) (unlock func())

	GetBuilding(ctx context.Context, id string) (*model.Building, error)
	ListBuildings(ctx context.Context) ([]model.Building, error)
	CreateBuilding(ctx context.Context, b *model.Building) error

	GetSpace(ctx context.Context, id string) (*model.Space, error)
	// FindSpace resolves the unique space for (building, kind).
	FindSpace(ctx context.Context, buildingID string, kind model.SpaceKind) (*model.Space, error)
	ListSpaces(ctx context.Context, buildingID string) ([]model.Space, error)
	CreateSpace(ctx context.Context, s *model.Space) error

	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SaveUser(ctx context.Context, u *model.User) error

	GetVisitor(ctx context.Context, id string) (*model.Visitor, error)

	GetOfficer(ctx context.Context, id string) (*model.SecurityOfficer, error)
	GetOfficerByBadge(ctx context.Context, badge string) (*model.SecurityOfficer, error)

	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)

	GetCheckIn(ctx context.Context, id string) (*model.CheckIn, error)
	ListCheckIns(ctx context.Context, f CheckInFilter) ([]model.CheckIn, error)
	GetLinkByCheckIn(ctx context.Context, checkinID string) (*model.BookingCheckIn, error)

	UpsertSubscription(ctx context.Context, s *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db    *gorm.DB
	locks *keyedLocks
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, locks: newKeyedLocks()}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *gormStore) Lock(key string) func() {
	return s.locks.lock(key)
}

// first runs a First query and maps ErrRecordNotFound to (nil, nil).
func first[T any](ctx context.Context, db *gorm.DB, conds ...any) (*T, error) {
	var v T
	err := db.WithContext(ctx).First(&v, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *gormStore) GetBuilding(ctx context.Context, id string) (*model.Building, error) {
	return first[model.Building](ctx, s.db, "id = ?", id)
}

func (s *gormStore) ListBuildings(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	if err := s.db.WithContext(ctx).Order("name").Find(&buildings).Error; err != nil {
		return nil, err
	}
	return buildings, nil
}

func (s *gormStore) CreateBuilding(ctx context.Context, b *model.Building) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *gormStore) GetSpace(ctx context.Context, id string) (*model.Space, error) {
	return first[model.Space](ctx, s.db, "id = ?", id)
}

func (s *gormStore) FindSpace(ctx context.Context, buildingID string, kind model.SpaceKind) (*model.Space, error) {
	return first[model.Space](ctx, s.db, "building_id = ? AND kind = ?", buildingID, kind)
}

func (s *gormStore) ListSpaces(ctx context.Context, buildingID string) ([]model.Space, error) {
	q := s.db.WithContext(ctx)
	if buildingID != "" {
		q = q.Where("building_id = ?", buildingID)
	}
	var spaces []model.Space
	if err := q.Order("building_id, kind").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (s *gormStore) CreateSpace(ctx context.Context, sp *model.Space) error {
	return s.db.WithContext(ctx).Create(sp).Error
}

func (s *gormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return first[model.User](ctx, s.db, "id = ?", id)
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](ctx, s.db, "email = ?", email)
}

func (s *gormStore) SaveUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormStore) GetVisitor(ctx context.Context, id string) (*model.Visitor, error) {
	return first[model.Visitor](ctx, s.db, "id = ?", id)
}

func (s *gormStore) GetOfficer(ctx context.Context, id string) (*model.SecurityOfficer, error) {
	return first[model.SecurityOfficer](ctx, s.db, "id = ?", id)
}

func (s *gormStore) GetOfficerByBadge(ctx context.Context, badge string) (*model.SecurityOfficer, error) {
	return first[model.SecurityOfficer](ctx, s.db, "badge_number = ?", badge)
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return first[model.Booking](ctx, s.db, "id = ?", id)
}

func (s *gormStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{})
	if f.UserID != "" {
		q = q.Where("bookings.user_id = ?", f.UserID)
	}
	if f.SpaceID != "" {
		q = q.Where("bookings.space_id = ?", f.SpaceID)
	}
	if f.BuildingID != "" || f.Kind != "" {
		q = q.Joins("JOIN spaces ON spaces.id = bookings.space_id")
		if f.BuildingID != "" {
			q = q.Where("spaces.building_id = ?", f.BuildingID)
		}
		if f.Kind != "" {
			q = q.Where("spaces.kind = ?", f.Kind)
		}
	}
	if f.Date != "" {
		q = q.Where("bookings.booking_date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	var bookings []model.Booking
	if err := q.Order("bookings.booking_date, bookings.start_time").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) GetCheckIn(ctx context.Context, id string) (*model.CheckIn, error) {
	return first[model.CheckIn](ctx, s.db, "id = ?", id)
}

func (s *gormStore) ListCheckIns(ctx context.Context, f CheckInFilter) ([]model.CheckIn, error) {
	q := s.db.WithContext(ctx).Model(&model.CheckIn{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.VisitorID != "" {
		q = q.Where("visitor_id = ?", f.VisitorID)
	}
	if f.BuildingID != "" {
		q = q.Where("building_id = ?", f.BuildingID)
	}
	if f.Floor != "" {
		q = q.Where("floor = ?", f.Floor)
	}
	if f.Block != "" {
		q = q.Where("block = ?", f.Block)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SubjectType != "" {
		q = q.Where("subject_type = ?", f.SubjectType)
	}
	if f.Since != nil {
		q = q.Where("check_in_time >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("check_in_time <= ?", *f.Until)
	}
	var checkins []model.CheckIn
	if err := q.Order("check_in_time DESC").Find(&checkins).Error; err != nil {
		return nil, err
	}
	return checkins, nil
}

func (s *gormStore) GetLinkByCheckIn(ctx context.Context, checkinID string) (*model.BookingCheckIn, error) {
	return first[model.BookingCheckIn](ctx, s.db, "check_in_id = ?", checkinID)
}

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "building_id"}),
	}).Create(sub).Error
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	return first[model.PushSubscription](ctx, s.db, "endpoint = ?", endpoint)
}
