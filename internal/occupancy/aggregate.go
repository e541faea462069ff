package occupancy

import (
	"time"

	"github.com/amnosapps/condominio-backend/internal/model"
)

// RangeKind names the reporting ranges the dashboard offers.
type RangeKind string

const (
	RangeToday RangeKind = "today"
	RangeWeek  RangeKind = "week"
	RangeMonth RangeKind = "month"
)

// RangeFor resolves a named range against the injected now. Week is the
// Sunday-aligned week containing now; all ranges end on the last
// nanosecond of their final day so inclusive day counting holds.
func RangeFor(kind RangeKind, now time.Time) Interval {
	switch kind {
	case RangeWeek:
		start := StartOfWeek(now)
		return Interval{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}
	case RangeMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Interval{Start: first, End: EndOfDay(first.AddDate(0, 1, -1))}
	default:
		return Interval{Start: StartOfDay(now), End: EndOfDay(now)}
	}
}

// CustomRange widens an explicit [start, end] pair to whole days.
func CustomRange(start, end time.Time) Interval {
	return Interval{Start: StartOfDay(start), End: EndOfDay(end)}
}

// StartOfWeek returns the Sunday midnight opening t's week.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// StatusCounts tallies apartments by operational status.
type StatusCounts struct {
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}

// TypeCounts tallies apartments by management regime.
type TypeCounts struct {
	Seasonal    int `json:"seasonal"`
	Residential int `json:"residential"`
}

// ApartmentUsage is the per-apartment reporting row for seasonal units.
type ApartmentUsage struct {
	ApartmentID  int64                 `json:"apartmentId"`
	Number       string                `json:"number"`
	Status       model.ApartmentStatus `json:"status"`
	Guests       int                   `json:"guests"`
	DaysOccupied int                   `json:"daysOccupied"`
}

// Summary aggregates occupancy over a reporting range.
type Summary struct {
	Range          Interval         `json:"range"`
	StatusCounts   StatusCounts     `json:"statusCounts"`
	TypeCounts     TypeCounts       `json:"typeCounts"`
	CheckinsToday  int              `json:"checkinsToday"`
	CheckoutsToday int              `json:"checkoutsToday"`
	TotalPeople    int              `json:"totalPeople"`
	Apartments     []ApartmentUsage `json:"apartments"`
}

// people counts the primary guest plus the additional ones.
func people(r model.Reservation) int {
	return len(r.AdditionalGuests) + 1
}

// Summarize computes the dashboard aggregates for one reporting range.
// Status and type tallies are range-independent. CheckinsToday counts
// only pending check-ins (not yet actioned, still active) and
// CheckoutsToday only in-progress stays, both against now's day rather
// than the range. Day counts per apartment use the clamped overlap with
// the range, so a reservation spanning a boundary contributes only its
// in-range days.
func Summarize(apts []model.Apartment, rs []model.Reservation, rng Interval, now time.Time, join JoinFunc) Summary {
	if join == nil {
		join = DefaultJoin
	}
	sum := Summary{Range: rng}
	today := Interval{Start: StartOfDay(now), End: EndOfDay(now)}

	for _, a := range apts {
		switch a.Status {
		case model.ApartmentAvailable:
			sum.StatusCounts.Available++
		case model.ApartmentOccupied:
			sum.StatusCounts.Occupied++
		case model.ApartmentMaintenance:
			sum.StatusCounts.Maintenance++
		}
		switch a.TypeName {
		case model.TypeSeasonal:
			sum.TypeCounts.Seasonal++
		case model.TypeResidential:
			sum.TypeCounts.Residential++
		}
	}

	for _, r := range rs {
		if r.Checkin != nil && IsWithin(*r.Checkin, today) && r.CheckinAt == nil && r.Active {
			sum.CheckinsToday++
		}
		if r.Checkout != nil && IsWithin(*r.Checkout, today) && r.CheckinAt != nil && r.CheckoutAt == nil {
			sum.CheckoutsToday++
		}
		if r.Active && r.Checkin != nil && IsWithin(*r.Checkin, rng) {
			sum.TotalPeople += people(r)
		}
	}

	for _, a := range apts {
		if a.TypeName != model.TypeSeasonal {
			continue
		}
		usage := ApartmentUsage{ApartmentID: a.ID, Number: a.Number, Status: a.Status}
		for _, r := range rs {
			if !r.Active || r.Checkin == nil || r.Checkout == nil || !join(a, r) {
				continue
			}
			iv := Interval{Start: *r.Checkin, End: *r.Checkout}
			if _, ok := Clamp(iv, rng); !ok {
				continue
			}
			usage.Guests += people(r)
			usage.DaysOccupied += DaysOccupied(iv, rng)
		}
		sum.Apartments = append(sum.Apartments, usage)
	}

	return sum
}

// MonthlySeries buckets occupancy by month for one year. A reservation
// contributes +1 to every month its planned interval touches within the
// year. Residents of residential apartments are always present, so each
// resident contributes +1 to every month regardless of reservations.
func MonthlySeries(apts []model.Apartment, rs []model.Reservation, year int, loc *time.Location) [12]int {
	if loc == nil {
		loc = time.UTC
	}
	var buckets [12]int

	for _, r := range rs {
		if !r.Active || r.Checkin == nil || r.Checkout == nil || r.Checkout.Before(*r.Checkin) {
			continue
		}
		iv := Interval{Start: *r.Checkin, End: *r.Checkout}
		for m := 0; m < 12; m++ {
			first := time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, loc)
			month := Interval{Start: first, End: EndOfDay(first.AddDate(0, 1, -1))}
			if _, ok := Clamp(iv, month); ok {
				buckets[m]++
			}
		}
	}

	for _, a := range apts {
		if a.TypeName != model.TypeResidential {
			continue
		}
		for m := 0; m < 12; m++ {
			buckets[m] += len(a.Residents)
		}
	}

	return buckets
}
