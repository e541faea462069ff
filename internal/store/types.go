package store

import "time"

// ApartmentRecord is a single apartment as returned by the management API.
type ApartmentRecord struct {
	ID            int64            `json:"id"`
	Number        string           `json:"number"`
	TypeName      string           `json:"type_name"`
	Status        string           `json:"status"`
	MaxOccupation int              `json:"max_occupation"`
	Residents     []ResidentRecord `json:"residents"`
}

// ResidentRecord is one roster entry on a residential apartment payload.
type ResidentRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ReservationRecord is a single reservation as returned by the
// management API. Dates arrive as strings in more than one format; the
// sync service parses them into the *Parsed fields before persisting,
// leaving a field nil when the upstream value is missing or malformed.
type ReservationRecord struct {
	ID               int64         `json:"id"`
	Apartment        int64         `json:"apartment"` // ID; zero when only the number was sent
	ApartmentNumber  string        `json:"apartment_number"`
	GuestName        string        `json:"guest_name"`
	GuestsQty        int           `json:"guests_qty"`
	Checkin          *string       `json:"checkin"`
	Checkout         *string       `json:"checkout"`
	CheckinAt        *string       `json:"checkin_at"`
	CheckoutAt       *string       `json:"checkout_at"`
	Active           bool          `json:"active"`
	AdditionalGuests []GuestRecord `json:"additional_guests"`

	CheckinParsed    *time.Time `json:"-"`
	CheckoutParsed   *time.Time `json:"-"`
	CheckinAtParsed  *time.Time `json:"-"`
	CheckoutAtParsed *time.Time `json:"-"`
}

// GuestRecord is one additional guest on a reservation payload.
type GuestRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
}
