package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amnosapps/condominio-backend/config"
	"github.com/amnosapps/condominio-backend/internal/model"
	"github.com/amnosapps/condominio-backend/internal/store"
	syncsvc "github.com/amnosapps/condominio-backend/internal/sync"
)

// TestPendingActionLifecycle drives two full sync cycles against a mock
// management API: a reservation is first reported without a check-in
// past its planned checkout (flagged no_show), then reappears fully
// checked out, which must resolve the flag into the history table.
func TestPendingActionLifecycle(t *testing.T) {
	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(
		&model.Apartment{},
		&model.Resident{},
		&model.Reservation{},
		&model.Guest{},
		&model.PendingActionOpen{},
		&model.PendingActionHistory{},
		&model.PushSubscription{},
	))

	checkin := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
	checkout := time.Now().AddDate(0, 0, -2).Format("2006-01-02")
	checkinAt := time.Now().AddDate(0, 0, -5).Format("2006-01-02 15:04:05")
	checkoutAt := time.Now().AddDate(0, 0, -2).Format("2006-01-02 15:04:05")

	// 2. Mock server to simulate the management API.
	var cycle int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/apartments/":
			apartments := []store.ApartmentRecord{
				{ID: 1, Number: "101", TypeName: "seasonal", Status: "occupied", MaxOccupation: 4},
				{ID: 2, Number: "201", TypeName: "residential", Status: "occupied",
					Residents: []store.ResidentRecord{{ID: 31, Name: "Elisa Prado", Email: "elisa@example.com"}}},
			}
			require.NoError(t, json.NewEncoder(w).Encode(apartments))
		case "/api/reservations/":
			rec := store.ReservationRecord{
				ID:        501,
				Apartment: 1,
				GuestName: "Bruno Lima",
				GuestsQty: 1,
				Checkin:   &checkin,
				Checkout:  &checkout,
				Active:    true,
				AdditionalGuests: []store.GuestRecord{
					{ID: 601, Name: "Carla Lima"},
				},
			}
			if cycle > 0 {
				// The guest was checked in and out late by staff.
				rec.CheckinAt = &checkinAt
				rec.CheckoutAt = &checkoutAt
			}
			require.NoError(t, json.NewEncoder(w).Encode([]store.ReservationRecord{rec}))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	// 3. Create a mock configuration pointed at the test server.
	mockConfig := &config.Config{
		Sync: config.SyncConfig{
			Enabled:        true,
			BaseURL:        server.URL,
			Timezone:       "UTC",
			CondominiumIDs: []int64{9},
			LookbackDays:   30,
			LookaheadDays:  90,
		},
	}
	mockConfig.WorkerPool.Size = 1

	// 4. Instantiate the store and sync service.
	gormStore := store.NewGormStore(testDB)
	syncService := syncsvc.NewService(mockConfig, gormStore)

	// --- Cycle 1: overdue reservation without check-in ---
	t.Run("Cycle 1: no-show flag opens", func(t *testing.T) {
		syncService.SyncOnce(context.Background())

		var apartment model.Apartment
		require.NoError(t, testDB.Preload("Residents").First(&apartment, 2).Error)
		assert.Equal(t, model.TypeResidential, apartment.TypeName)
		require.Len(t, apartment.Residents, 1)
		assert.Equal(t, "Elisa Prado", apartment.Residents[0].Name)

		var reservation model.Reservation
		require.NoError(t, testDB.Preload("AdditionalGuests").First(&reservation, 501).Error)
		require.NotNil(t, reservation.Checkin, "checkin date should have parsed")
		assert.Nil(t, reservation.CheckinAt)
		assert.Len(t, reservation.AdditionalGuests, 1)

		var open model.PendingActionOpen
		require.NoError(t, testDB.First(&open, 501).Error)
		assert.Equal(t, "no_show", open.Flag)
		assert.Equal(t, int64(9), open.CondominiumID)

		var historyCount int64
		testDB.Model(&model.PendingActionHistory{}).Count(&historyCount)
		assert.Equal(t, int64(0), historyCount)
	})

	// --- Cycle 2: staff recorded the late check-in and check-out ---
	t.Run("Cycle 2: flag resolves into history", func(t *testing.T) {
		cycle++
		syncService.SyncOnce(context.Background())

		var reservation model.Reservation
		require.NoError(t, testDB.First(&reservation, 501).Error)
		assert.NotNil(t, reservation.CheckinAt)
		assert.NotNil(t, reservation.CheckoutAt)

		var openCount int64
		testDB.Model(&model.PendingActionOpen{}).Count(&openCount)
		assert.Equal(t, int64(0), openCount, "open flag should be closed")

		var history model.PendingActionHistory
		require.NoError(t, testDB.Where("reservation_id = ?", 501).First(&history).Error)
		assert.Equal(t, "no_show", history.Flag)
		assert.False(t, history.PeriodEnd.Before(history.PeriodStart))
		assert.WithinDuration(t, time.Now(), history.ResolvedAt, 5*time.Second)
	})
}
