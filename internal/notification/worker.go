// Package notification pushes presence events to subscribed security
// dashboards over web push.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"workplace-access-backend/internal/model"
)

// EventKind names a presence transition worth announcing.
type EventKind string

const (
	EventCheckedIn  EventKind = "checked_in"
	EventCheckedOut EventKind = "checked_out"
)

// Event describes a presence transition on a check-in record.
type Event struct {
	Kind       EventKind `json:"kind"`
	CheckInID  string    `json:"checkinId"`
	BuildingID string    `json:"buildingId"`
	Subject    string    `json:"subject"`
}

// NotificationSender defines the interface for sending a web push
// notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the
// webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case ev := <-wp.jobs:
			wp.sendEvent(ctx, ev)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends an event to the worker pool without blocking the caller's
// request; events are dropped when the queue is full.
func (wp *WorkerPool) Dispatch(ev Event) {
	select {
	case wp.jobs <- ev:
	default:
		log.Printf("notification queue full, dropping %s event for check-in %s", ev.Kind, ev.CheckInID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}

// sendEvent fans the event out to every subscription scoped to its
// building (or scoped to no building at all).
func (wp *WorkerPool) sendEvent(ctx context.Context, ev Event) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("building_id = ? OR building_id = ''", ev.BuildingID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for building %s: %v", ev.BuildingID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"title": title(ev),
		"body":  fmt.Sprintf("%s (check-in %s)", ev.Subject, ev.CheckInID),
	})
	if err != nil {
		log.Printf("error encoding payload for check-in %s: %v", ev.CheckInID, err)
		return
	}

	log.Printf("sending %d notifications for check-in %s", len(subscriptions), ev.CheckInID)
	for _, sub := range subscriptions {
		wp.sendNotification(sub, payload)
	}
}

func title(ev Event) string {
	switch ev.Kind {
	case EventCheckedIn:
		return "Verified entry"
	case EventCheckedOut:
		return "Checked out"
	}
	return string(ev.Kind)
}

func (wp *WorkerPool) sendNotification(sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Gone means the browser dropped the subscription; clean it up.
	if resp.StatusCode == http.StatusGone {
		if err := wp.db.Delete(&model.PushSubscription{Endpoint: sub.Endpoint}).Error; err != nil {
			log.Printf("error removing stale subscription %s: %v", sub.Endpoint, err)
		}
	}
}
