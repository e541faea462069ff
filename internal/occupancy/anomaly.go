package occupancy

import (
	"time"

	"github.com/amnosapps/condominio-backend/internal/model"
)

// PendingAction is one reservation that needs operator attention.
type PendingAction struct {
	ReservationID int64
	Flag          PendingFlag
}

// DetectPending scans a reservation set and returns the pending-action
// flags, in input order. Cancelled reservations and reservations with
// missing planned dates are never flagged. The result is computed as a
// standalone batch because callers need the count and the filtered
// subset independently of full per-item classification.
func DetectPending(rs []model.Reservation, now time.Time) []PendingAction {
	var out []PendingAction
	for _, r := range rs {
		if flag, ok := Flag(r, now); ok {
			out = append(out, PendingAction{ReservationID: r.ID, Flag: flag})
		}
	}
	return out
}
