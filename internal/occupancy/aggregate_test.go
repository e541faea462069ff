package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amnosapps/condominio-backend/internal/model"
)

func TestRangeFor(t *testing.T) {
	now := at(2024, 11, 21, 10, 30) // Thursday

	today := RangeFor(RangeToday, now)
	assert.Equal(t, date(2024, 11, 21), today.Start)
	assert.Equal(t, date(2024, 11, 22).Add(-time.Nanosecond), today.End)

	week := RangeFor(RangeWeek, now)
	assert.Equal(t, date(2024, 11, 17), week.Start, "week opens on Sunday")
	assert.Equal(t, date(2024, 11, 24).Add(-time.Nanosecond), week.End)

	month := RangeFor(RangeMonth, now)
	assert.Equal(t, date(2024, 11, 1), month.Start)
	assert.Equal(t, date(2024, 12, 1).Add(-time.Nanosecond), month.End)
}

func TestSummarizeCounts(t *testing.T) {
	now := at(2024, 11, 21, 10, 0)
	rng := RangeFor(RangeMonth, now)

	apts := []model.Apartment{
		{ID: 1, Number: "101", TypeName: model.TypeSeasonal, Status: model.ApartmentAvailable},
		{ID: 2, Number: "102", TypeName: model.TypeSeasonal, Status: model.ApartmentOccupied},
		{ID: 3, Number: "103", TypeName: model.TypeResidential, Status: model.ApartmentOccupied},
		{ID: 4, Number: "104", TypeName: model.TypeSeasonal, Status: model.ApartmentMaintenance},
	}

	sum := Summarize(apts, nil, rng, now, nil)

	assert.Equal(t, StatusCounts{Available: 1, Occupied: 2, Maintenance: 1}, sum.StatusCounts)
	assert.Equal(t, TypeCounts{Seasonal: 3, Residential: 1}, sum.TypeCounts)
	// Residential apartments never appear in the usage table.
	assert.Len(t, sum.Apartments, 3)
}

func TestSummarizeTodayMovements(t *testing.T) {
	now := at(2024, 11, 21, 10, 0)
	rng := RangeFor(RangeToday, now)

	rs := []model.Reservation{
		// Pending check-in today: counted.
		{ID: 1, Active: true, Checkin: tp(at(2024, 11, 21, 15, 0)), Checkout: tp(date(2024, 11, 25))},
		// Check-in today already actioned: not counted.
		{ID: 2, Active: true, Checkin: tp(at(2024, 11, 21, 15, 0)), Checkout: tp(date(2024, 11, 25)),
			CheckinAt: tp(at(2024, 11, 21, 9, 0))},
		// Cancelled check-in today: not counted.
		{ID: 3, Active: false, Checkin: tp(at(2024, 11, 21, 15, 0)), Checkout: tp(date(2024, 11, 25))},
		// In-progress checkout today: counted.
		{ID: 4, Active: true, Checkin: tp(date(2024, 11, 18)), Checkout: tp(at(2024, 11, 21, 9, 0)),
			CheckinAt: tp(at(2024, 11, 18, 15, 0))},
		// Checkout today already actioned: not counted.
		{ID: 5, Active: true, Checkin: tp(date(2024, 11, 18)), Checkout: tp(at(2024, 11, 21, 9, 0)),
			CheckinAt: tp(at(2024, 11, 18, 15, 0)), CheckoutAt: tp(at(2024, 11, 21, 8, 30))},
		// Checkout today with no checkin on record: not in progress.
		{ID: 6, Active: true, Checkin: tp(date(2024, 11, 18)), Checkout: tp(at(2024, 11, 21, 9, 0))},
	}

	sum := Summarize(nil, rs, rng, now, nil)
	assert.Equal(t, 1, sum.CheckinsToday)
	assert.Equal(t, 1, sum.CheckoutsToday)
}

func TestSummarizeUsageTable(t *testing.T) {
	now := at(2024, 11, 21, 10, 0)
	rng := CustomRange(date(2024, 11, 5), date(2024, 11, 7))

	apts := []model.Apartment{
		{ID: 1, Number: "101", TypeName: model.TypeSeasonal, Status: model.ApartmentOccupied},
	}

	spanning := reservation(1, date(2024, 11, 1), date(2024, 11, 10))
	spanning.ApartmentID = 1
	spanning.AdditionalGuests = []model.Guest{{ID: 1, Name: "Bruno"}, {ID: 2, Name: "Carla"}}

	outside := reservation(2, date(2024, 11, 20), date(2024, 11, 25))
	outside.ApartmentID = 1

	sum := Summarize(apts, []model.Reservation{spanning, outside}, rng, now, nil)

	assert.Len(t, sum.Apartments, 1)
	usage := sum.Apartments[0]
	assert.Equal(t, "101", usage.Number)
	assert.Equal(t, model.ApartmentOccupied, usage.Status)
	// Primary guest plus two additional ones.
	assert.Equal(t, 3, usage.Guests)
	// Only the in-range days (5th, 6th, 7th), not the raw 9-day span.
	assert.Equal(t, 3, usage.DaysOccupied)
}

func TestSummarizeTotalPeople(t *testing.T) {
	now := at(2024, 11, 21, 10, 0)
	rng := RangeFor(RangeMonth, now)

	inRange := reservation(1, date(2024, 11, 10), date(2024, 11, 15))
	inRange.AdditionalGuests = []model.Guest{{ID: 1, Name: "Bruno"}}

	// Checkin outside the range: excluded even though the stay overlaps.
	before := reservation(2, date(2024, 10, 28), date(2024, 11, 3))
	before.AdditionalGuests = []model.Guest{{ID: 2, Name: "Carla"}, {ID: 3, Name: "Davi"}}

	sum := Summarize(nil, []model.Reservation{inRange, before}, rng, now, nil)
	assert.Equal(t, 2, sum.TotalPeople)
}

func TestMonthlySeries(t *testing.T) {
	// A reservation touching February through April increments exactly
	// those three buckets, each by one.
	r := reservation(1, date(2024, 2, 20), date(2024, 4, 5))

	buckets := MonthlySeries(nil, []model.Reservation{r}, 2024, time.UTC)
	assert.Equal(t, [12]int{0, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0}, buckets)
}

func TestMonthlySeriesResidentsAlwaysPresent(t *testing.T) {
	apts := []model.Apartment{{
		ID: 1, Number: "201", TypeName: model.TypeResidential,
		Residents: []model.Resident{{ID: 1, Name: "Elisa"}, {ID: 2, Name: "Fabio"}},
	}}

	buckets := MonthlySeries(apts, nil, 2024, time.UTC)
	for m, n := range buckets {
		assert.Equal(t, 2, n, "month %d", m+1)
	}
}

func TestMonthlySeriesIgnoresOtherYears(t *testing.T) {
	r := reservation(1, date(2023, 12, 20), date(2023, 12, 28))
	buckets := MonthlySeries(nil, []model.Reservation{r}, 2024, time.UTC)
	assert.Equal(t, [12]int{}, buckets)

	// A stay crossing New Year touches January of the requested year.
	crossing := reservation(2, date(2023, 12, 28), date(2024, 1, 3))
	buckets = MonthlySeries(nil, []model.Reservation{crossing}, 2024, time.UTC)
	assert.Equal(t, [12]int{1}, buckets)
}

func TestMonthlySeriesSkipsMalformed(t *testing.T) {
	backwards := reservation(1, date(2024, 5, 10), date(2024, 5, 1))
	missing := model.Reservation{ID: 2, Active: true}
	cancelled := reservation(3, date(2024, 6, 1), date(2024, 6, 5))
	cancelled.Active = false

	buckets := MonthlySeries(nil, []model.Reservation{backwards, missing, cancelled}, 2024, time.UTC)
	assert.Equal(t, [12]int{}, buckets)
}
