package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"github.com/amnosapps/condominio-backend/internal/model"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers that notify staff subscribed to
// an apartment when one of its reservations becomes flagged.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case reservationID := <-wp.jobs:
			log.Printf("Worker %d processing reservation %d", id, reservationID)
			wp.sendNotificationsForReservation(ctx, reservationID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(reservationID int64) {
	wp.jobs <- reservationID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// sendNotificationsForReservation resolves the flagged reservation to
// its apartment and pushes a message to every subscription on it.
func (wp *WorkerPool) sendNotificationsForReservation(ctx context.Context, reservationID int64) {
	var reservation model.Reservation
	if err := wp.db.WithContext(ctx).First(&reservation, reservationID).Error; err != nil {
		log.Printf("Error fetching reservation %d: %v", reservationID, err)
		return
	}

	var apartment model.Apartment
	err := wp.db.WithContext(ctx).
		Where("id = ? OR number = ?", reservation.ApartmentID, reservation.ApartmentNumber).
		First(&apartment).Error
	if err != nil {
		log.Printf("Error resolving apartment for reservation %d: %v", reservationID, err)
		return
	}

	var subscriptions []model.PushSubscription
	err = wp.db.WithContext(ctx).
		Joins("JOIN subscription_apartment_mapping sam ON sam.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("sam.apartment_id = ?", apartment.ID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for apartment %d: %v", apartment.ID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	var open model.PendingActionOpen
	flag := occupancy.FlagNoShow
	if err := wp.db.WithContext(ctx).First(&open, reservationID).Error; err != nil {
		log.Printf("Error fetching pending action for reservation %d: %v", reservationID, err)
	} else {
		flag = occupancy.PendingFlag(open.Flag)
	}

	var message string
	switch flag {
	case occupancy.FlagNoExit:
		message = fmt.Sprintf("Apto %s: %s não registrou check-out", apartment.Number, reservation.GuestName)
	default:
		message = fmt.Sprintf("Apto %s: %s não registrou check-in", apartment.Number, reservation.GuestName)
	}

	log.Printf("Sending %d notifications for reservation %d", len(subscriptions), reservationID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	// Manually construct the webpush.Subscription object
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == 410 {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
