package model

import "time"

// PendingActionOpen represents a reservation currently flagged for
// operator attention (hot table).
type PendingActionOpen struct {
	ReservationID int64     `gorm:"primaryKey"`
	CondominiumID int64     `gorm:"index;not null"`
	Flag          string    `gorm:"size:16;not null"`
	DetectedAt    time.Time `gorm:"not null"`
}

// PendingActionHistory is the log of flags that have been resolved,
// either by staff action upstream or by the reservation leaving the
// flagged state (cold table).
type PendingActionHistory struct {
	ID            int64     `gorm:"autoIncrement"`
	ReservationID int64     `gorm:"not null;index;primaryKey"`
	ResolvedAt    time.Time `gorm:"not null;index;primaryKey"`
	CondominiumID int64     `gorm:"index;not null"`
	Flag          string    `gorm:"size:16;not null"`
	PeriodStart   time.Time `gorm:"not null"`
	PeriodEnd     time.Time `gorm:"not null"`
}
