package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Staff subscribe per apartment and are notified when a reservation on
// one of their apartments becomes flagged.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Apartments []*Apartment `gorm:"many2many:subscription_apartment_mapping;"`
}