package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amnosapps/condominio-backend/internal/model"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
)

// ReservationResponse is the flattened structure for a reservation with
// its classified lifecycle status and pending-action overlay.
type ReservationResponse struct {
	ID              int64                       `json:"id"`
	ApartmentID     int64                       `json:"apartmentId,omitempty"`
	ApartmentNumber string                      `json:"apartmentNumber,omitempty"`
	GuestName       string                      `json:"guestName"`
	GuestsQty       int                         `json:"guestsQty"`
	Checkin         *time.Time                  `json:"checkin"`
	Checkout        *time.Time                  `json:"checkout"`
	CheckinAt       *time.Time                  `json:"checkinAt"`
	CheckoutAt      *time.Time                  `json:"checkoutAt"`
	Active          bool                        `json:"active"`
	Status          occupancy.ReservationStatus `json:"status"`
	PendingFlag     occupancy.PendingFlag       `json:"pendingFlag,omitempty"`
}

func toReservationResponse(r model.Reservation, now time.Time) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID,
		ApartmentID:     r.ApartmentID,
		ApartmentNumber: r.ApartmentNumber,
		GuestName:       r.GuestName,
		GuestsQty:       r.GuestsQty,
		Checkin:         r.Checkin,
		Checkout:        r.Checkout,
		CheckinAt:       r.CheckinAt,
		CheckoutAt:      r.CheckoutAt,
		Active:          r.Active,
		Status:          occupancy.Classify(r, now),
	}
	if flag, ok := occupancy.Flag(r, now); ok {
		resp.PendingFlag = flag
	}
	return resp
}

// dateRangeParams reads the optional start_date/end_date pair.
func dateRangeParams(c *gin.Context) (start, end *time.Time, ok bool) {
	startParam := c.Query("start_date")
	endParam := c.Query("end_date")
	if startParam == "" && endParam == "" {
		return nil, nil, true
	}
	s, err := time.Parse("2006-01-02", startParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date. Use YYYY-MM-DD."})
		return nil, nil, false
	}
	e, err := time.Parse("2006-01-02", endParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date. Use YYYY-MM-DD."})
		return nil, nil, false
	}
	e = occupancy.EndOfDay(e)
	return &s, &e, true
}

// GetReservations handles the GET /api/reservations request.
func (h *Handler) GetReservations(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}
	start, end, ok := dateRangeParams(c)
	if !ok {
		return
	}

	reservations, err := h.store.ListReservations(c.Request.Context(), condominiumID, start, end)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	now := h.clock.Now()
	responses := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		responses = append(responses, toReservationResponse(r, now))
	}
	c.JSON(http.StatusOK, responses)
}

// GetPendingReservations handles the GET /api/reservations/pending
// request: the subset of reservations flagged NoShow or NoExit, with
// the count callers use for the pending tab badge.
func (h *Handler) GetPendingReservations(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}

	reservations, err := h.store.ListReservations(c.Request.Context(), condominiumID, nil, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	now := h.clock.Now()
	pending := occupancy.DetectPending(reservations, now)
	flagged := make(map[int64]bool, len(pending))
	for _, p := range pending {
		flagged[p.ReservationID] = true
	}

	responses := make([]ReservationResponse, 0, len(pending))
	for _, r := range reservations {
		if flagged[r.ID] {
			responses = append(responses, toReservationResponse(r, now))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":        len(responses),
		"reservations": responses,
	})
}
