package model

import "time"

// Reservation is a guest stay as committed by the management backend.
// Planned dates (Checkin/Checkout) and actual event timestamps
// (CheckinAt/CheckoutAt) are kept apart; either side may be missing on
// malformed upstream records, so all four are nullable.
type Reservation struct {
	ID            int64 `gorm:"primaryKey"` // Upstream ID
	CondominiumID int64 `gorm:"index;not null"`

	// The upstream API is inconsistent about the join key: some
	// payloads carry the apartment ID, others only its number.
	ApartmentID     int64  `gorm:"index"`
	ApartmentNumber string `gorm:"size:32"`

	GuestName string `gorm:"size:256"`
	GuestsQty int

	Checkin    *time.Time `gorm:"index"`
	Checkout   *time.Time `gorm:"index"`
	CheckinAt  *time.Time
	CheckoutAt *time.Time

	// Active is false for cancelled reservations. Cancellation is terminal.
	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	AdditionalGuests []Guest `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
}

// Guest is an additional guest on a reservation, excluding the primary one.
type Guest struct {
	ID            int64  `gorm:"primaryKey"` // Upstream ID
	ReservationID int64  `gorm:"index;not null"`
	Name          string `gorm:"size:256;not null"`
	Document      string `gorm:"size:64"`
}
