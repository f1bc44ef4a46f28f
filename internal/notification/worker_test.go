package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

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

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	ev := Event{Kind: EventCheckedIn, CheckInID: "ci-1", BuildingID: "hq", Subject: "employee alice"}
	wp.Dispatch(ev)

	select {
	case job := <-wp.jobs:
		assert.Equal(t, ev, job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchDropsWhenFull(t *testing.T) {
	db, _ := newTestDB(t)
	// Pool of size 1: one queued job fills the channel; no worker running.
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.Dispatch(Event{Kind: EventCheckedIn, CheckInID: "ci-1"})
	// Must not block.
	wp.Dispatch(Event{Kind: EventCheckedIn, CheckInID: "ci-2"})

	assert.Len(t, wp.Jobs(), 1)
	job := <-wp.jobs
	assert.Equal(t, "ci-1", job.CheckInID)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to building-scoped subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Contains(t, string(payload), "Verified entry")
				assert.Contains(t, string(payload), "employee alice")
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE building_id = \$1 OR building_id = ''`).
			WithArgs("hq").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "building_id", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", "hq", time.Now()))

		wp.Dispatch(Event{Kind: EventCheckedIn, CheckInID: "ci-1", BuildingID: "hq", Subject: "employee alice"})
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions" WHERE building_id = \$1 OR building_id = ''`).
			WithArgs("hq").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "building_id", "created_at"}).
				AddRow("https://example.com/expired", "test_p256dh", "test_auth", "", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(Event{Kind: EventCheckedOut, CheckInID: "ci-2", BuildingID: "hq", Subject: "visitor guest-1"})

		// A short sleep to allow the worker to process the job.
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
