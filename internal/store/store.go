package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amnosapps/condominio-backend/internal/model"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	UpsertApartments(ctx context.Context, condominiumID int64, items []ApartmentRecord) error
	UpsertReservations(ctx context.Context, condominiumID int64, items []ReservationRecord) error
	ListApartments(ctx context.Context, condominiumID int64) ([]model.Apartment, error)
	ListReservations(ctx context.Context, condominiumID int64, start, end *time.Time) ([]model.Reservation, error)
	SyncPendingActions(ctx context.Context, now time.Time, condominiumID int64, actions []occupancy.PendingAction) ([]int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertApartments replaces the apartment snapshot for one condominium.
// Apartments are batch-upserted by upstream ID; resident rosters are
// replaced wholesale since the upstream owns them.
func (s *gormStore) UpsertApartments(ctx context.Context, condominiumID int64, items []ApartmentRecord) error {
	if len(items) == 0 {
		return nil
	}

	apartments := make([]model.Apartment, 0, len(items))
	for _, item := range items {
		apartments = append(apartments, model.Apartment{
			ID:            item.ID,
			CondominiumID: condominiumID,
			Number:        item.Number,
			TypeName:      model.ApartmentType(item.TypeName),
			Status:        model.ApartmentStatus(item.Status),
			MaxOccupation: item.MaxOccupation,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"condominium_id", "number", "type_name", "status", "max_occupation", "updated_at"}),
		}).Create(&apartments).Error; err != nil {
			return fmt.Errorf("batch upsert apartments failed: %w", err)
		}

		for _, item := range items {
			if err := tx.Where("apartment_id = ?", item.ID).Delete(&model.Resident{}).Error; err != nil {
				return fmt.Errorf("failed to clear residents for apartment %d: %w", item.ID, err)
			}
			if len(item.Residents) == 0 {
				continue
			}
			residents := make([]model.Resident, 0, len(item.Residents))
			for _, r := range item.Residents {
				residents = append(residents, model.Resident{
					ID:          r.ID,
					ApartmentID: item.ID,
					Name:        r.Name,
					Phone:       r.Phone,
					Email:       r.Email,
				})
			}
			if err := tx.Create(&residents).Error; err != nil {
				return fmt.Errorf("failed to save residents for apartment %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

// UpsertReservations persists a reservation snapshot. Records keep the
// join key exactly as the upstream sent it (ID or number); additional
// guest lists are replaced wholesale.
func (s *gormStore) UpsertReservations(ctx context.Context, condominiumID int64, items []ReservationRecord) error {
	if len(items) == 0 {
		return nil
	}

	reservations := make([]model.Reservation, 0, len(items))
	for _, item := range items {
		reservations = append(reservations, model.Reservation{
			ID:              item.ID,
			CondominiumID:   condominiumID,
			ApartmentID:     item.Apartment,
			ApartmentNumber: item.ApartmentNumber,
			GuestName:       item.GuestName,
			GuestsQty:       item.GuestsQty,
			Checkin:         item.CheckinParsed,
			Checkout:        item.CheckoutParsed,
			CheckinAt:       item.CheckinAtParsed,
			CheckoutAt:      item.CheckoutAtParsed,
			Active:          item.Active,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"condominium_id", "apartment_id", "apartment_number", "guest_name",
				"guests_qty", "checkin", "checkout", "checkin_at", "checkout_at",
				"active", "updated_at",
			}),
		}).Create(&reservations).Error; err != nil {
			return fmt.Errorf("batch upsert reservations failed: %w", err)
		}

		for _, item := range items {
			if err := tx.Where("reservation_id = ?", item.ID).Delete(&model.Guest{}).Error; err != nil {
				return fmt.Errorf("failed to clear guests for reservation %d: %w", item.ID, err)
			}
			if len(item.AdditionalGuests) == 0 {
				continue
			}
			guests := make([]model.Guest, 0, len(item.AdditionalGuests))
			for _, g := range item.AdditionalGuests {
				guests = append(guests, model.Guest{
					ID:            g.ID,
					ReservationID: item.ID,
					Name:          g.Name,
					Document:      g.Document,
				})
			}
			if err := tx.Create(&guests).Error; err != nil {
				return fmt.Errorf("failed to save guests for reservation %d: %w", item.ID, err)
			}
		}
		return nil
	})
}

func (s *gormStore) ListApartments(ctx context.Context, condominiumID int64) ([]model.Apartment, error) {
	var apartments []model.Apartment
	err := s.db.WithContext(ctx).
		Preload("Residents").
		Where("condominium_id = ?", condominiumID).
		Order("number").
		Find(&apartments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	return apartments, nil
}

// ListReservations returns reservations for a condominium, optionally
// restricted to those whose planned interval overlaps [start, end].
// Rows with a missing planned date always pass the filter; the engine
// decides what to do with them, the query must not hide them.
func (s *gormStore) ListReservations(ctx context.Context, condominiumID int64, start, end *time.Time) ([]model.Reservation, error) {
	q := s.db.WithContext(ctx).
		Preload("AdditionalGuests").
		Where("condominium_id = ?", condominiumID)
	if start != nil && end != nil {
		q = q.Where("(checkin IS NULL OR checkin <= ?) AND (checkout IS NULL OR checkout >= ?)", *end, *start)
	}

	var reservations []model.Reservation
	if err := q.Order("checkin").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// SyncPendingActions reconciles the pending-action ledger with the
// detector's latest output and returns the reservation IDs that became
// newly flagged in this pass. Flags no longer reported are archived to
// the history table with the period they were open.
func (s *gormStore) SyncPendingActions(ctx context.Context, now time.Time, condominiumID int64, actions []occupancy.PendingAction) ([]int64, error) {
	var openRecords []model.PendingActionOpen
	if err := s.db.WithContext(ctx).
		Where("condominium_id = ?", condominiumID).
		Find(&openRecords).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch open pending actions: %w", err)
	}

	openMap := make(map[int64]model.PendingActionOpen, len(openRecords))
	for _, r := range openRecords {
		openMap[r.ReservationID] = r
	}

	var newlyFlagged []int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, action := range actions {
			old, exists := openMap[action.ReservationID]
			if exists {
				// NoShow can escalate to NoExit when a late checkin is
				// recorded upstream; archive the old flag and open a new one.
				if old.Flag != string(action.Flag) {
					if err := archivePendingAction(tx, old, now); err != nil {
						return err
					}
					updated := model.PendingActionOpen{
						ReservationID: action.ReservationID,
						CondominiumID: condominiumID,
						Flag:          string(action.Flag),
						DetectedAt:    now,
					}
					if err := tx.Save(&updated).Error; err != nil {
						return fmt.Errorf("failed to update pending action for reservation %d: %w", action.ReservationID, err)
					}
				}
				delete(openMap, action.ReservationID)
				continue
			}

			record := model.PendingActionOpen{
				ReservationID: action.ReservationID,
				CondominiumID: condominiumID,
				Flag:          string(action.Flag),
				DetectedAt:    now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create pending action for reservation %d: %w", action.ReservationID, err)
			}
			newlyFlagged = append(newlyFlagged, action.ReservationID)
		}

		// Flags no longer reported have been resolved upstream.
		for _, remaining := range openMap {
			if err := archivePendingAction(tx, remaining, now); err != nil {
				return err
			}
			if err := tx.Delete(&model.PendingActionOpen{}, remaining.ReservationID).Error; err != nil {
				return fmt.Errorf("failed to delete pending action for reservation %d: %w", remaining.ReservationID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newlyFlagged, nil
}

// archivePendingAction logs a closed flag with the period it was open.
func archivePendingAction(tx *gorm.DB, record model.PendingActionOpen, resolvedAt time.Time) error {
	history := model.PendingActionHistory{
		ReservationID: record.ReservationID,
		CondominiumID: record.CondominiumID,
		ResolvedAt:    resolvedAt,
		Flag:          record.Flag,
		PeriodStart:   record.DetectedAt,
		PeriodEnd:     resolvedAt,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to archive pending action for reservation %d: %w", record.ReservationID, err)
	}
	return nil
}
