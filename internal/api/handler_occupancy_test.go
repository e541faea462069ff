package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amnosapps/condominio-backend/internal/model"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
	"github.com/amnosapps/condominio-backend/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func timePtr(t time.Time) *time.Time { return &t }

// setupTestRouter builds a router backed by an in-memory database
// seeded with one condominium's worth of fixtures.
func setupTestRouter(t *testing.T, dsn string, now time.Time) *gin.Engine {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Apartment{},
		&model.Resident{},
		&model.Reservation{},
		&model.Guest{},
		&model.PendingActionOpen{},
		&model.PendingActionHistory{},
		&model.PushSubscription{},
	))

	apartments := []model.Apartment{
		{ID: 1, CondominiumID: 9, Number: "101", TypeName: model.TypeSeasonal, Status: model.ApartmentOccupied, MaxOccupation: 4},
		{ID: 2, CondominiumID: 9, Number: "102", TypeName: model.TypeSeasonal, Status: model.ApartmentAvailable, MaxOccupation: 2},
		{ID: 3, CondominiumID: 9, Number: "201", TypeName: model.TypeResidential, Status: model.ApartmentOccupied,
			Residents: []model.Resident{{ID: 1, Name: "Elisa Prado"}}},
	}
	require.NoError(t, db.Create(&apartments).Error)

	reservations := []model.Reservation{
		// In progress, checked in, spans today.
		{ID: 10, CondominiumID: 9, ApartmentID: 1, GuestName: "Ana Souza", Active: true,
			Checkin:   timePtr(now.AddDate(0, 0, -2)),
			Checkout:  timePtr(now.AddDate(0, 0, 3)),
			CheckinAt: timePtr(now.AddDate(0, 0, -2))},
		// Overdue no-show on apartment 102.
		{ID: 11, CondominiumID: 9, ApartmentID: 2, GuestName: "Bruno Lima", Active: true,
			Checkin:  timePtr(now.AddDate(0, 0, -10)),
			Checkout: timePtr(now.AddDate(0, 0, -8))},
		// Pending check-in today on apartment 102.
		{ID: 12, CondominiumID: 9, ApartmentID: 2, GuestName: "Carla Dias", Active: true,
			Checkin:  timePtr(now),
			Checkout: timePtr(now.AddDate(0, 0, 4))},
	}
	require.NoError(t, db.Create(&reservations).Error)

	gin.SetMode(gin.TestMode)
	return NewRouter(store.NewGormStore(db), nil, fixedClock{now})
}

func TestGetOccupancy(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:occupancy_api?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/occupancy?condominium=9&range=week", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary occupancy.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, occupancy.StatusCounts{Available: 1, Occupied: 2}, summary.StatusCounts)
	assert.Equal(t, occupancy.TypeCounts{Seasonal: 2, Residential: 1}, summary.TypeCounts)
	assert.Len(t, summary.Apartments, 2, "usage table lists seasonal apartments only")
}

func TestGetOccupancyCustomRange(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:occupancy_api_custom?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/occupancy?condominium=9&range=custom&start_date=2024-11-11&end_date=2024-11-13", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary occupancy.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	// Only Bruno's stay touches the requested window: three in-range
	// days, not his raw span.
	require.Len(t, summary.Apartments, 2)
	assert.Equal(t, 0, summary.Apartments[0].DaysOccupied)
	assert.Equal(t, "102", summary.Apartments[1].Number)
	assert.Equal(t, 3, summary.Apartments[1].DaysOccupied)
	assert.Equal(t, 1, summary.Apartments[1].Guests)

	// Today's movements report against today even when the range lies
	// entirely in the past.
	assert.Equal(t, 1, summary.CheckinsToday)
	assert.Equal(t, 0, summary.CheckoutsToday)
}

func TestGetMonthlyOccupancy(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:occupancy_api_monthly?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/occupancy/monthly?condominium=9&year=2024", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Year   int     `json:"year"`
		Months [12]int `json:"months"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2024, resp.Year)
	// One resident is present year round; the three November stays add
	// to that month's bucket only.
	assert.Equal(t, 1, resp.Months[0])
	assert.Equal(t, 4, resp.Months[10])
}

func TestGetOccupancyRejectsBadRange(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:occupancy_api_badrange?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/occupancy?condominium=9&range=fortnight", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/occupancy?range=today", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "condominium is required")
}

func TestGetPendingReservations(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:pending_api?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reservations/pending?condominium=9", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count        int                   `json:"count"`
		Reservations []ReservationResponse `json:"reservations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(11), resp.Reservations[0].ID)
	assert.Equal(t, occupancy.StatusNoShow, resp.Reservations[0].Status)
	assert.Equal(t, occupancy.FlagNoShow, resp.Reservations[0].PendingFlag)
}

func TestGetCalendar(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:calendar_api?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/calendar?condominium=9&week_start=2024-11-17", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var grid occupancy.WeekGrid
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))

	require.Len(t, grid.Rows, 3)
	// Reservation 10 runs Nov 19 through Nov 24 on apartment 101:
	// Tuesday column, clipped at the Saturday boundary.
	require.Len(t, grid.Rows[0].Entries, 1)
	assert.Equal(t, 2, grid.Rows[0].Entries[0].Column)
	assert.Equal(t, 5, grid.Rows[0].Entries[0].Span)
	assert.Equal(t, occupancy.StatusActive, grid.Rows[0].Entries[0].Status)
}

func TestGetCalendarRejectsNonSunday(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:calendar_api_nonsunday?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/calendar?condominium=9&week_start=2024-11-18", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutSubscriptionRejectsBadBody(t *testing.T) {
	now := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	router := setupTestRouter(t, "file:subscription_api?mode=memory&cache=shared", now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
