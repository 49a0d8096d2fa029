package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

func TestReduceIsPure(t *testing.T) {
	base := DefaultFilters(day(2026, 10, 1))
	next := Reduce(base, SetSearch{Field: SearchPatient, Query: "  budi "})

	assert.Empty(t, base.SearchPatient)
	assert.Equal(t, "budi", next.SearchPatient)
	assert.Equal(t, base, Reduce(base, nil))
}

func TestReduceActions(t *testing.T) {
	f := DefaultFilters(day(2026, 10, 1))

	f = Reduce(f, SetDateRange{Start: day(2026, 10, 31), End: day(2026, 10, 1)})
	assert.Equal(t, day(2026, 10, 1), f.StartDate, "reversed bounds are swapped")
	assert.Equal(t, day(2026, 10, 31), f.EndDate)

	f = Reduce(f, SetMonth{Month: ""})
	assert.Equal(t, models.All, f.Month)
	assert.True(t, f.StartDate.IsZero(), "month selection clears the range")

	f = Reduce(f, SetYear{Year: "2025"})
	assert.Equal(t, 2025, f.YearValue())

	f = Reduce(f, SetDoctor{ID: "", Name: " drg. Sari "})
	assert.Equal(t, models.All, f.SelectedDoctorID)
	assert.Equal(t, "drg. Sari", f.Doctor)

	f = Reduce(f, Reset{Now: day(2026, 11, 2)})
	assert.Equal(t, DefaultFilters(day(2026, 11, 2)), f)
}

func TestDateAndRangeReplaceEachOther(t *testing.T) {
	f := Reduce(allFilters(), SetDateRange{Start: day(2026, 10, 1), End: day(2026, 10, 31)})

	f = Reduce(f, SetDate{Date: day(2026, 10, 15)})
	assert.False(t, f.HasDateRange())
	assert.Equal(t, day(2026, 10, 15), f.Date)

	records := []models.SalesReport{{ID: "a", Date: day(2026, 10, 1)}, {ID: "b", Date: day(2026, 10, 15)}}
	got := FilterSales(records, f)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	f = Reduce(f, SetDateRange{Start: day(2026, 10, 1), End: day(2026, 10, 2)})
	assert.True(t, f.Date.IsZero())
	assert.True(t, f.HasDateRange())
}

func TestParseSearchField(t *testing.T) {
	got, err := ParseSearchField("searchproduct")
	require.NoError(t, err)
	assert.Equal(t, SearchProduct, got)

	_, err = ParseSearchField("searchStock")
	assert.Error(t, err)
}

func TestFilterBookKeepsTabsIndependent(t *testing.T) {
	now := day(2026, 10, 5)
	book := NewFilterBook(func() time.Time { return now })

	book.Dispatch(models.ReportSales, SetSearch{Field: SearchProduct, Query: "sikat"})
	assert.Equal(t, "sikat", book.Get(models.ReportSales).SearchProduct)
	assert.Empty(t, book.Get(models.ReportTreatments).SearchProduct)

	book.ResetAll(day(2026, 11, 1))
	assert.Equal(t, DefaultFilters(day(2026, 11, 1)), book.Get(models.ReportSales))
}

type memoryState struct {
	period  models.Period
	found   bool
	saves   int
	loadErr error
}

func (m *memoryState) LoadPeriod(context.Context) (models.Period, bool, error) {
	return m.period, m.found, m.loadErr
}

func (m *memoryState) SavePeriod(_ context.Context, p models.Period) error {
	m.period, m.found = p, true
	m.saves++
	return nil
}

func TestPeriodGuard(t *testing.T) {
	store := &memoryState{}
	book := NewFilterBook(nil)
	guard := NewPeriodGuard(store, book, time.UTC, nil)
	ctx := context.Background()

	reset, f, err := guard.Check(ctx, day(2026, 10, 5))
	require.NoError(t, err)
	assert.True(t, reset, "first run persists the period")
	assert.Equal(t, "10", f.Month)
	assert.Equal(t, models.Period{Year: 2026, Month: time.October}, store.period)

	book.Dispatch(models.ReportSales, SetMonth{Month: "3"})

	reset, _, err = guard.Check(ctx, day(2026, 10, 28))
	require.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, "3", book.Get(models.ReportSales).Month, "same month keeps user filters")

	reset, f, err = guard.Check(ctx, day(2026, 11, 1))
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Equal(t, "11", f.Month)
	assert.Equal(t, "11", book.Get(models.ReportSales).Month)
	assert.Equal(t, 2, store.saves)
}

func TestPeriodGuardUsesClinicLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	store := &memoryState{found: true, period: models.Period{Year: 2026, Month: time.October}}
	guard := NewPeriodGuard(store, nil, jakarta, nil)

	// 18:00 UTC on 31 October is already 1 November in Jakarta.
	reset, _, err := guard.Check(context.Background(), time.Date(2026, 10, 31, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Equal(t, time.November, store.period.Month)
}

func TestPeriodGuardLoadError(t *testing.T) {
	store := &memoryState{loadErr: errors.New("mongo down")}
	_, _, err := NewPeriodGuard(store, nil, time.UTC, nil).Check(context.Background(), day(2026, 10, 1))
	assert.ErrorContains(t, err, "mongo down")
	assert.Zero(t, store.saves)
}
