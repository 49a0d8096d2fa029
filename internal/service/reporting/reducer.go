package reporting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// Action is one change to a ReportFilters value.
type Action interface {
	apply(models.ReportFilters) models.ReportFilters
}

// Reduce returns f with a applied. f itself is never modified.
func Reduce(f models.ReportFilters, a Action) models.ReportFilters {
	if a == nil {
		return f
	}
	return a.apply(f)
}

// SetMonth selects a month ("1".."12" or models.All) and clears any range.
type SetMonth struct{ Month string }

func (a SetMonth) apply(f models.ReportFilters) models.ReportFilters {
	f.Month = normalizeAll(a.Month)
	f.StartDate, f.EndDate, f.Date = time.Time{}, time.Time{}, time.Time{}
	return f
}

// SetYear selects a year or models.All and clears any range.
type SetYear struct{ Year string }

func (a SetYear) apply(f models.ReportFilters) models.ReportFilters {
	f.Year = normalizeAll(a.Year)
	f.StartDate, f.EndDate, f.Date = time.Time{}, time.Time{}, time.Time{}
	return f
}

// SetDateRange sets an inclusive range and drops any single date. Reversed
// bounds are swapped.
type SetDateRange struct{ Start, End time.Time }

func (a SetDateRange) apply(f models.ReportFilters) models.ReportFilters {
	start, end := a.Start, a.End
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		start, end = end, start
	}
	f.StartDate, f.EndDate = start, end
	f.Date = time.Time{}
	return f
}

// SetDate filters a single day and drops any date range.
type SetDate struct{ Date time.Time }

func (a SetDate) apply(f models.ReportFilters) models.ReportFilters {
	f.Date = a.Date
	f.StartDate, f.EndDate = time.Time{}, time.Time{}
	return f
}

// SetDoctor selects a doctor by id and/or name.
type SetDoctor struct{ ID, Name string }

func (a SetDoctor) apply(f models.ReportFilters) models.ReportFilters {
	f.SelectedDoctorID = normalizeAll(a.ID)
	f.Doctor = strings.TrimSpace(a.Name)
	return f
}

// SetEmployee filters by employee name.
type SetEmployee struct{ Name string }

func (a SetEmployee) apply(f models.ReportFilters) models.ReportFilters {
	f.Employee = strings.TrimSpace(a.Name)
	return f
}

// SetShift selects pagi, sore or models.All.
type SetShift struct{ Shift string }

func (a SetShift) apply(f models.ReportFilters) models.ReportFilters {
	f.Shift = strings.ToLower(normalizeAll(a.Shift))
	return f
}

// SetType selects check-in, check-out or models.All.
type SetType struct{ Type string }

func (a SetType) apply(f models.ReportFilters) models.ReportFilters {
	f.Type = strings.ToLower(normalizeAll(a.Type))
	return f
}

// SearchField names one of the free-text filters.
type SearchField string

const (
	SearchAll              SearchField = "search"
	SearchProduct          SearchField = "searchProduct"
	SearchFieldTripProduct SearchField = "searchFieldTripProduct"
	SearchLocation         SearchField = "searchLocation"
	SearchPatient          SearchField = "searchPatient"
	SearchTreatment        SearchField = "searchTreatment"
	SearchCategory         SearchField = "searchCategory"
	SearchCustomer         SearchField = "searchCustomer"
)

// SearchFields lists every free-text filter.
var SearchFields = []SearchField{
	SearchAll, SearchProduct, SearchFieldTripProduct, SearchLocation,
	SearchPatient, SearchTreatment, SearchCategory, SearchCustomer,
}

// SetSearch sets one free-text filter.
type SetSearch struct {
	Field SearchField
	Query string
}

func (a SetSearch) apply(f models.ReportFilters) models.ReportFilters {
	q := strings.TrimSpace(a.Query)
	switch a.Field {
	case SearchProduct:
		f.SearchProduct = q
	case SearchFieldTripProduct:
		f.SearchFieldTripProduct = q
	case SearchLocation:
		f.SearchLocation = q
	case SearchPatient:
		f.SearchPatient = q
	case SearchTreatment:
		f.SearchTreatment = q
	case SearchCategory:
		f.SearchCategory = q
	case SearchCustomer:
		f.SearchCustomer = q
	default:
		f.Search = q
	}
	return f
}

// Reset returns the defaults for the month of Now.
type Reset struct{ Now time.Time }

func (a Reset) apply(models.ReportFilters) models.ReportFilters {
	return DefaultFilters(a.Now)
}

func normalizeAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, models.All) {
		return models.All
	}
	return v
}

// FilterBook keeps one filter value per report tab so tabs stay
// independent. Safe for concurrent use.
type FilterBook struct {
	mu      sync.RWMutex
	filters map[models.ReportType]models.ReportFilters
	now     func() time.Time
}

// NewFilterBook creates a book whose tabs default to the month of now().
func NewFilterBook(now func() time.Time) *FilterBook {
	if now == nil {
		now = time.Now
	}
	return &FilterBook{
		filters: make(map[models.ReportType]models.ReportFilters),
		now:     now,
	}
}

// Get returns the filters of tab t.
func (b *FilterBook) Get(t models.ReportType) models.ReportFilters {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if f, ok := b.filters[t]; ok {
		return f
	}
	return DefaultFilters(b.now())
}

// Dispatch applies actions to tab t and stores the result.
func (b *FilterBook) Dispatch(t models.ReportType, actions ...Action) models.ReportFilters {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.filters[t]
	if !ok {
		f = DefaultFilters(b.now())
	}
	for _, a := range actions {
		f = Reduce(f, a)
	}
	b.filters[t] = f
	return f
}

// ResetAll drops every tab back to the defaults for now.
func (b *FilterBook) ResetAll(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t := range b.filters {
		b.filters[t] = DefaultFilters(now)
	}
}

// ParseSearchField validates a free-text filter name.
func ParseSearchField(name string) (SearchField, error) {
	for _, f := range SearchFields {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown search field %q", name)
}
