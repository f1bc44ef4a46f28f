package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/db"
	"workplace-access-backend/internal/model"
	"workplace-access-backend/internal/store"
)

// A helper to create an isolated in-memory SQLite database per test.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.Migrate(testDB))
	return store.NewGormStore(testDB)
}

func seedBuildingWithDesk(t *testing.T, s store.Store) (buildingID, spaceID string) {
	t.Helper()
	ctx := context.Background()

	b := &model.Building{ID: uuid.NewString(), Name: "HQ", TotalFloors: 5, TotalBlocks: 2, IsActive: true}
	require.NoError(t, s.CreateBuilding(ctx, b))

	sp := &model.Space{
		ID:         uuid.NewString(),
		BuildingID: b.ID,
		Kind:       model.SpaceDesk,
		Name:       "Hot desks",
		Floor:      "3",
		Capacity:   1,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateSpace(ctx, sp))
	return b.ID, sp.ID
}

func deskRequest(buildingID, userID, date, start, end string) Request {
	return Request{
		UserID:     userID,
		BuildingID: buildingID,
		Kind:       model.SpaceDesk,
		Date:       date,
		Start:      start,
		End:        end,
	}
}

func TestScheduler_CreateAndOverlap(t *testing.T) {
	s := newTestStore(t)
	buildingID, spaceID := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	first, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, spaceID, first.SpaceID)
	assert.Equal(t, model.BookingPending, first.Status)
	assert.NotEmpty(t, first.ID)

	testCases := []struct {
		name       string
		start, end string
		wantKind   apperror.Kind
	}{
		{"identical interval", "09:00", "11:00", apperror.KindConflict},
		{"overlaps the tail", "10:00", "12:00", apperror.KindConflict},
		{"overlaps the head", "08:00", "09:30", apperror.KindConflict},
		{"contains the existing", "08:00", "12:00", apperror.KindConflict},
		{"contained by the existing", "09:30", "10:30", apperror.KindConflict},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", tc.start, tc.end))
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, apperror.KindOf(err))
		})
	}
}

func TestScheduler_BackToBackIsAdmissible(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	_, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)

	// [11:00, 13:00) starts exactly where [09:00, 11:00) ends.
	_, err = sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", "11:00", "13:00"))
	assert.NoError(t, err)

	// Same interval on another date is also free.
	_, err = sched.Create(ctx, deskRequest(buildingID, "carol", "2026-09-02", "09:00", "11:00"))
	assert.NoError(t, err)
}

func TestScheduler_CancelledBookingDoesNotBlock(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	bk, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)

	require.NoError(t, s.DB().Model(&model.Booking{}).
		Where("id = ?", bk.ID).
		Update("status", model.BookingCancelled).Error)

	_, err = sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", "09:00", "11:00"))
	assert.NoError(t, err)
}

func TestScheduler_ValidationErrors(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  Request
	}{
		{"unknown kind", Request{UserID: "alice", BuildingID: buildingID, Kind: "garage", Date: "2026-09-01", Start: "09:00", End: "10:00"}},
		{"bad date", deskRequest(buildingID, "alice", "tomorrow", "09:00", "10:00")},
		{"bad start time", deskRequest(buildingID, "alice", "2026-09-01", "9am", "10:00")},
		{"unpadded start time", deskRequest(buildingID, "alice", "2026-09-01", "9:00", "10:00")},
		{"bad end time", deskRequest(buildingID, "alice", "2026-09-01", "09:00", "25:00")},
		{"empty interval", deskRequest(buildingID, "alice", "2026-09-01", "10:00", "10:00")},
		{"inverted interval", deskRequest(buildingID, "alice", "2026-09-01", "11:00", "10:00")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sched.Create(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
		})
	}
}

func TestScheduler_UnresolvedReferences(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	_, err := sched.Create(ctx, deskRequest("no-such-building", "alice", "2026-09-01", "09:00", "10:00"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	// Building exists, but holds no meeting room.
	req := deskRequest(buildingID, "alice", "2026-09-01", "09:00", "10:00")
	req.Kind = model.SpaceMeetingRoom
	_, err = sched.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestScheduler_UpdateExcludesItself(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	bk, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)

	// Shifting a booking into an interval that only overlaps its own old
	// one must succeed.
	updated, err := sched.Update(ctx, bk.ID, deskRequest(buildingID, "alice", "2026-09-01", "10:00", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "12:00", updated.EndTime)

	_, err = sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", "13:00", "14:00"))
	require.NoError(t, err)

	// But moving onto someone else's interval is still refused.
	_, err = sched.Update(ctx, bk.ID, deskRequest(buildingID, "alice", "2026-09-01", "13:30", "15:00"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = sched.Update(ctx, "no-such-booking", deskRequest(buildingID, "alice", "2026-09-01", "16:00", "17:00"))
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestScheduler_Delete(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	bk, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)

	require.NoError(t, sched.Delete(ctx, bk.ID))

	gone, err := s.GetBooking(ctx, bk.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = sched.Delete(ctx, bk.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	// The freed interval is bookable again.
	_, err = sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", "09:00", "11:00"))
	assert.NoError(t, err)
}

func TestScheduler_CheckAvailability(t *testing.T) {
	s := newTestStore(t)
	buildingID, spaceID := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	avail, err := sched.CheckAvailability(ctx, buildingID, model.SpaceDesk, "2026-09-01", "09:00", "11:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, spaceID, avail.SpaceID)

	_, err = sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "11:00"))
	require.NoError(t, err)

	avail, err = sched.CheckAvailability(ctx, buildingID, model.SpaceDesk, "2026-09-01", "10:00", "12:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "space is already booked for the selected time", avail.Reason)

	// Adjacent interval stays available.
	avail, err = sched.CheckAvailability(ctx, buildingID, model.SpaceDesk, "2026-09-01", "11:00", "12:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)

	// Absent space kind is reported, not errored.
	avail, err = sched.CheckAvailability(ctx, buildingID, model.SpaceOffice, "2026-09-01", "09:00", "11:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "no office found in building", avail.Reason)
}

func TestScheduler_List(t *testing.T) {
	s := newTestStore(t)
	buildingID, _ := seedBuildingWithDesk(t, s)
	sched := NewScheduler(s)
	ctx := context.Background()

	_, err := sched.Create(ctx, deskRequest(buildingID, "alice", "2026-09-01", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = sched.Create(ctx, deskRequest(buildingID, "bob", "2026-09-01", "10:00", "11:00"))
	require.NoError(t, err)

	all, err := sched.List(ctx, store.BookingFilter{BuildingID: buildingID, Kind: model.SpaceDesk})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := sched.List(ctx, store.BookingFilter{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].UserID)
}
