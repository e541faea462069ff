package sync

import "github.com/amnosapps/condominio-backend/internal/store"

// apartmentsResponse models the management API's apartment listing.
type apartmentsResponse []store.ApartmentRecord

// reservationsResponse models the management API's reservation listing.
type reservationsResponse []store.ReservationRecord
