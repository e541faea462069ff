package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amnosapps/condominio-backend/internal/occupancy"
)

// GetCalendar handles the GET /api/calendar request, returning the
// weekly occupancy grid for one condominium.
func (h *Handler) GetCalendar(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}

	weekStart, err := time.Parse("2006-01-02", c.Query("week_start"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid week_start. Use YYYY-MM-DD."})
		return
	}
	if weekStart.Weekday() != time.Sunday {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "week_start must be a Sunday"})
		return
	}

	apartments, err := h.store.ListApartments(c.Request.Context(), condominiumID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve apartments"})
		return
	}

	// Fetch only reservations overlapping the visible week.
	weekEnd := occupancy.EndOfDay(weekStart.AddDate(0, 0, 6))
	reservations, err := h.store.ListReservations(c.Request.Context(), condominiumID, &weekStart, &weekEnd)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reservations"})
		return
	}

	grid := occupancy.BuildWeek(apartments, reservations, weekStart, h.clock.Now(), nil)
	c.JSON(http.StatusOK, grid)
}
