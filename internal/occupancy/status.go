package occupancy

import (
	"time"

	"github.com/amnosapps/condominio-backend/internal/model"
)

// ReservationStatus is the primary lifecycle state of a reservation.
// Exactly one primary status applies to any reservation; NoExit is
// never primary, it is an overlay flag on top of Active (see Flag).
type ReservationStatus string

const (
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusActive    ReservationStatus = "active"
	StatusNoShow    ReservationStatus = "no_show"
	StatusFuture    ReservationStatus = "future"
)

// PendingFlag marks a reservation that needs operator attention.
type PendingFlag string

const (
	FlagNoShow PendingFlag = "no_show"
	FlagNoExit PendingFlag = "no_exit"
)

// Classify maps a reservation to its primary lifecycle status. Actual
// event timestamps always win over planned dates; planned dates only
// drive classification while both actuals are null. First match wins:
//
//  1. cancelled reservations are Cancelled, terminally
//  2. both actuals set: Completed
//  3. checked in, not checked out: Active
//  4. never checked in and the planned checkout day is already past: NoShow
//  5. otherwise: Future
//
// A checkout timestamp without a matching checkin violates the upstream
// precondition; the weaker state (Active) is favored rather than
// guessing Completed. DataWarnings surfaces the condition.
func Classify(r model.Reservation, now time.Time) ReservationStatus {
	if !r.Active {
		return StatusCancelled
	}
	if r.CheckinAt != nil && r.CheckoutAt != nil {
		return StatusCompleted
	}
	if r.CheckinAt != nil || r.CheckoutAt != nil {
		return StatusActive
	}
	if r.Checkout != nil && r.Checkout.Before(StartOfDay(now)) {
		return StatusNoShow
	}
	return StatusFuture
}

// Flag returns the pending-action overlay for a reservation, if any.
// The comparison is against today's midnight: a checkout planned for
// today is not yet overdue, only a strictly past planned checkout with
// missing actual timestamps is flagged.
func Flag(r model.Reservation, now time.Time) (PendingFlag, bool) {
	if !r.Active {
		return "", false
	}
	if r.Checkout == nil || !r.Checkout.Before(StartOfDay(now)) {
		return "", false
	}
	if r.CheckinAt == nil && r.CheckoutAt == nil {
		return FlagNoShow, true
	}
	if r.CheckinAt != nil && r.CheckoutAt == nil {
		return FlagNoExit, true
	}
	return "", false
}

// DataWarning reports a record that violates an upstream invariant.
// These never abort a computation; callers decide whether to surface them.
type DataWarning struct {
	ReservationID int64
	Message       string
}

// DataWarnings scans a reservation set for integrity violations.
func DataWarnings(rs []model.Reservation) []DataWarning {
	var out []DataWarning
	for _, r := range rs {
		if r.CheckoutAt != nil && r.CheckinAt == nil {
			out = append(out, DataWarning{
				ReservationID: r.ID,
				Message:       "checkout timestamp recorded without a checkin timestamp",
			})
		}
		if r.Checkin != nil && r.Checkout != nil && r.Checkout.Before(*r.Checkin) {
			out = append(out, DataWarning{
				ReservationID: r.ID,
				Message:       "planned checkout precedes planned checkin",
			})
		}
	}
	return out
}
