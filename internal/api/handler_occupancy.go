package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amnosapps/condominio-backend/internal/occupancy"
)

// GetOccupancy handles the GET /api/occupancy request: aggregate counts
// and the per-apartment usage table for a named or custom range.
func (h *Handler) GetOccupancy(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}

	now := h.clock.Now()
	var rng occupancy.Interval
	switch kind := c.DefaultQuery("range", "today"); kind {
	case "today", "week", "month":
		rng = occupancy.RangeFor(occupancy.RangeKind(kind), now)
	case "custom":
		start, err := time.Parse("2006-01-02", c.Query("start_date"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date. Use YYYY-MM-DD."})
			return
		}
		end, err := time.Parse("2006-01-02", c.Query("end_date"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date. Use YYYY-MM-DD."})
			return
		}
		if end.Before(start) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "end_date precedes start_date"})
			return
		}
		rng = occupancy.CustomRange(start, end)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid range. Use today, week, month or custom."})
		return
	}

	apartments, err := h.store.ListApartments(c.Request.Context(), condominiumID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve apartments"})
		return
	}

	// Today's check-in and checkout movements are reported against now's
	// day regardless of the requested range, so the fetch window covers
	// both the range and today.
	fetchStart, fetchEnd := rng.Start, rng.End
	if t := occupancy.StartOfDay(now); t.Before(fetchStart) {
		fetchStart = t
	}
	if t := occupancy.EndOfDay(now); t.After(fetchEnd) {
		fetchEnd = t
	}
	reservations, err := h.store.ListReservations(c.Request.Context(), condominiumID, &fetchStart, &fetchEnd)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	summary := occupancy.Summarize(apartments, reservations, rng, now, nil)
	c.JSON(http.StatusOK, summary)
}

// GetMonthlyOccupancy handles the GET /api/occupancy/monthly request:
// the 12-bucket series for one year.
func (h *Handler) GetMonthlyOccupancy(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1970 || year > 9999 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	apartments, err := h.store.ListApartments(c.Request.Context(), condominiumID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve apartments"})
		return
	}

	// Only reservations touching the requested year can move a bucket.
	loc := h.clock.Now().Location()
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	yearEnd := occupancy.EndOfDay(yearStart.AddDate(1, 0, -1))
	reservations, err := h.store.ListReservations(c.Request.Context(), condominiumID, &yearStart, &yearEnd)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	buckets := occupancy.MonthlySeries(apartments, reservations, year, loc)
	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"months": buckets,
	})
}
