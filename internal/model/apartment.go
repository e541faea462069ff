package model

import "time"

// ApartmentType distinguishes the two management regimes an apartment
// can be under: short-stay reservations or a fixed resident roster.
type ApartmentType string

const (
	TypeSeasonal    ApartmentType = "seasonal"
	TypeResidential ApartmentType = "residential"
)

// ApartmentStatus is the operational status reported by the management
// backend. It is synced verbatim and never derived locally.
type ApartmentStatus string

const (
	ApartmentAvailable   ApartmentStatus = "available"
	ApartmentOccupied    ApartmentStatus = "occupied"
	ApartmentMaintenance ApartmentStatus = "maintenance"
)

// Apartment represents a condominium unit.
type Apartment struct {
	ID            int64           `gorm:"primaryKey"` // Upstream ID
	CondominiumID int64           `gorm:"index;not null"`
	Number        string          `gorm:"size:32;not null"`
	TypeName      ApartmentType   `gorm:"size:32;not null"`
	Status        ApartmentStatus `gorm:"size:32;not null"`
	MaxOccupation int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Associations
	Residents []Resident `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
}

// Resident is one entry of a residential apartment's roster.
type Resident struct {
	ID          int64  `gorm:"primaryKey"` // Upstream ID
	ApartmentID int64  `gorm:"index;not null"`
	Name        string `gorm:"size:256;not null"`
	Phone       string `gorm:"size:64"`
	Email       string `gorm:"size:256"`
}
