package occupancy

import (
	"time"

	"github.com/amnosapps/condominio-backend/internal/model"
)

// JoinFunc decides whether a reservation belongs to an apartment. The
// upstream API is inconsistent about the join key, so the caller picks
// the rule; DefaultJoin covers both shapes it is known to produce.
type JoinFunc func(model.Apartment, model.Reservation) bool

// DefaultJoin matches on apartment ID when the reservation carries one,
// falling back to the apartment number.
func DefaultJoin(a model.Apartment, r model.Reservation) bool {
	if r.ApartmentID != 0 {
		return r.ApartmentID == a.ID
	}
	return r.ApartmentNumber != "" && r.ApartmentNumber == a.Number
}

// WeekEntry is one reservation span rendered on a calendar row.
type WeekEntry struct {
	Column        int               `json:"column"`
	Span          int               `json:"span"`
	ReservationID int64             `json:"reservationId"`
	GuestName     string            `json:"guestName"`
	Status        ReservationStatus `json:"status"`
}

// WeekRow is the calendar row for one apartment.
type WeekRow struct {
	ApartmentID     int64       `json:"apartmentId"`
	ApartmentNumber string      `json:"apartmentNumber"`
	Entries         []WeekEntry `json:"entries"`
}

// WeekGrid is a seven-column occupancy calendar anchored on a Sunday.
type WeekGrid struct {
	WeekStart time.Time    `json:"weekStart"`
	Days      [7]time.Time `json:"days"`
	Rows      []WeekRow    `json:"rows"`
	// Totals counts, per day column, the active reservations whose
	// planned [checkin, checkout] contains that day, across all
	// apartments. It is independent of row rendering.
	Totals [7]int `json:"totals"`
}

// BuildWeek lays reservations onto a week grid. Rows keep the input
// order of apartments. A reservation that started before weekStart is
// re-anchored at column 0 rather than skipped; spans are clipped at the
// week boundary. When reservations overlap on the same apartment and
// day, the first one in input order keeps the cells and later ones are
// dropped from that row. Reservations with missing or backwards planned
// dates never place on the grid.
func BuildWeek(apts []model.Apartment, rs []model.Reservation, weekStart time.Time, now time.Time, join JoinFunc) WeekGrid {
	if join == nil {
		join = DefaultJoin
	}
	weekStart = StartOfDay(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	grid := WeekGrid{WeekStart: weekStart}
	for i := range grid.Days {
		grid.Days[i] = weekStart.AddDate(0, 0, i)
	}

	for _, a := range apts {
		row := WeekRow{ApartmentID: a.ID, ApartmentNumber: a.Number}
		var occupied [7]bool

		for _, r := range rs {
			if !r.Active || r.Checkin == nil || r.Checkout == nil || !join(a, r) {
				continue
			}
			// Backwards planned dates would pass the overlap filter when
			// both straddle the window and yield a negative span.
			if r.Checkout.Before(*r.Checkin) {
				continue
			}
			checkin := StartOfDay(*r.Checkin)
			checkout := StartOfDay(*r.Checkout)
			if checkout.Before(weekStart) || checkin.After(weekEnd) {
				continue
			}

			spanStart := checkin
			if spanStart.Before(weekStart) {
				spanStart = weekStart
			}
			spanEnd := checkout
			if spanEnd.After(weekEnd) {
				spanEnd = weekEnd
			}

			col := DaysBetween(weekStart, spanStart)
			span := DaysBetween(spanStart, spanEnd) + 1

			taken := false
			for c := col; c < col+span; c++ {
				if occupied[c] {
					taken = true
					break
				}
			}
			if taken {
				continue
			}
			for c := col; c < col+span; c++ {
				occupied[c] = true
			}

			row.Entries = append(row.Entries, WeekEntry{
				Column:        col,
				Span:          span,
				ReservationID: r.ID,
				GuestName:     r.GuestName,
				Status:        Classify(r, now),
			})
		}
		grid.Rows = append(grid.Rows, row)
	}

	for _, r := range rs {
		if !r.Active || r.Checkin == nil || r.Checkout == nil {
			continue
		}
		iv := Interval{Start: StartOfDay(*r.Checkin), End: StartOfDay(*r.Checkout)}
		for i, d := range grid.Days {
			if IsWithin(d, iv) {
				grid.Totals[i]++
			}
		}
	}

	return grid
}
