package store

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workplace-access-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_GetBookingNotFoundIsNil(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	bk, err := s.GetBooking(context.Background(), "missing")
	assert.NoError(t, err, "an absent row is not an error")
	assert.Nil(t, bk)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindSpace(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "spaces" WHERE building_id = $1 AND kind = $2`)).
		WithArgs("hq", "desk", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "building_id", "kind", "name", "capacity", "created_at"}).
			AddRow("space-1", "hq", "desk", "Hot desks", 12, time.Now()))

	sp, err := s.FindSpace(context.Background(), "hq", model.SpaceDesk)
	require.NoError(t, err)
	require.NotNil(t, sp)
	assert.Equal(t, "space-1", sp.ID)
	assert.Equal(t, model.SpaceDesk, sp.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListBookingsJoinsSpaces(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "bookings" JOIN spaces ON spaces\.id = bookings\.space_id WHERE spaces\.building_id = \$1 AND spaces\.kind = \$2`).
		WithArgs("hq", "desk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "space_id", "booking_date", "start_time", "end_time", "status"}).
			AddRow("bk-1", "alice", "space-1", "2026-09-01", "09:00", "11:00", "pending"))

	bookings, err := s.ListBookings(context.Background(), BookingFilter{BuildingID: "hq", Kind: model.SpaceDesk})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "bk-1", bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpsertSubscription(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	require.NoError(t, gormDB.AutoMigrate(&model.PushSubscription{}))
	s := NewGormStore(gormDB)
	ctx := context.Background()

	sub := &model.PushSubscription{Endpoint: "https://example.com/push", P256DH: "p1", Auth: "a1", BuildingID: "hq"}
	require.NoError(t, s.UpsertSubscription(ctx, sub))

	// Same endpoint again replaces the keys and scope in place.
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://example.com/push", P256DH: "p2", Auth: "a2", BuildingID: "",
	}))

	got, err := s.GetSubscription(ctx, "https://example.com/push")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p2", got.P256DH)
	assert.Equal(t, "", got.BuildingID)

	require.NoError(t, s.DeleteSubscription(ctx, "https://example.com/push"))
	got, err = s.GetSubscription(ctx, "https://example.com/push")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormStore_DeleteSubscription(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = $1`)).
		WithArgs("https://example.com/push").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.DeleteSubscription(context.Background(), "https://example.com/push")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyedLocksSerializeSameKey(t *testing.T) {
	gormDB, _ := newTestDB(t)
	s := NewGormStore(gormDB)

	var mu sync.Mutex
	var order []int
	unlock := s.Lock("space:1")

	done := make(chan struct{})
	go func() {
		u := s.Lock("space:1")
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
		u()
		close(done)
	}()

	// Disjoint keys do not block.
	other := s.Lock("space:2")
	other()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock")
	}
	assert.Equal(t, []int{1, 2}, order)
}
