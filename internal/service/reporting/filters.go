package reporting

import (
	"strconv"
	"strings"
	"time"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// DefaultFilters selects the month of now with every other dimension open.
func DefaultFilters(now time.Time) models.ReportFilters {
	return models.ReportFilters{
		SelectedDoctorID: models.All,
		Shift:            models.All,
		Type:             models.All,
		Month:            strconv.Itoa(int(now.Month())),
		Year:             strconv.Itoa(now.Year()),
	}
}

// FilterAttendance never mutates records; the same holds for every Filter* function.
func FilterAttendance(records []models.AttendanceReport, f models.ReportFilters) []models.AttendanceReport {
	return keep(records, func(r models.AttendanceReport) bool {
		return matchDate(r.Date, f) &&
			matchDoctor(r.DoctorID, r.DoctorName, f) &&
			matchExact(r.Shift, f.Shift) &&
			matchExact(string(r.Type), f.Type) &&
			matchAny(f.Search, r.DoctorName, r.Specialization, r.Shift)
	})
}

// FilterSalaries matches on the payroll month rather than a record date.
func FilterSalaries(records []models.SalaryReport, f models.ReportFilters) []models.SalaryReport {
	return keep(records, func(r models.SalaryReport) bool {
		return matchPeriod(r.Period(), f) &&
			contains(r.EmployeeName, f.Employee) &&
			matchAny(f.Search, r.EmployeeName)
	})
}

func FilterDoctorFees(records []models.DoctorFeeReport, f models.ReportFilters) []models.DoctorFeeReport {
	return keep(records, func(r models.DoctorFeeReport) bool {
		return matchDate(r.Date, f) &&
			matchDoctor(r.DoctorID, r.DoctorName, f) &&
			matchExact(r.Shift, f.Shift) &&
			matchAny(f.Search, r.DoctorName, r.Shift)
	})
}

func FilterExpenses(records []models.ExpenseReport, f models.ReportFilters) []models.ExpenseReport {
	return keep(records, func(r models.ExpenseReport) bool {
		return matchDate(r.Date, f) &&
			contains(r.Category, f.SearchCategory) &&
			matchAny(f.Search, r.Category, r.Description, r.Notes)
	})
}

func FilterTreatments(records []models.TreatmentReport, f models.ReportFilters) []models.TreatmentReport {
	return keep(records, func(r models.TreatmentReport) bool {
		return matchDate(r.Date, f) &&
			matchDoctor(r.DoctorID, r.DoctorName, f) &&
			matchExact(r.Shift, f.Shift) &&
			contains(r.PatientName, f.SearchPatient) &&
			contains(r.TreatmentName, f.SearchTreatment) &&
			matchAny(f.Search, r.PatientName, r.DoctorName, r.TreatmentName)
	})
}

func FilterSales(records []models.SalesReport, f models.ReportFilters) []models.SalesReport {
	return keep(records, func(r models.SalesReport) bool {
		return matchDate(r.Date, f) &&
			contains(r.ProductName, f.SearchProduct) &&
			contains(r.Category, f.SearchCategory) &&
			contains(r.CustomerName, f.SearchCustomer) &&
			matchAny(f.Search, r.ProductName, r.Category, r.CustomerName)
	})
}

func FilterFieldTripSales(records []models.FieldTripSaleReport, f models.ReportFilters) []models.FieldTripSaleReport {
	return keep(records, func(r models.FieldTripSaleReport) bool {
		return matchDate(r.Date, f) &&
			contains(r.ProductName, f.SearchFieldTripProduct) &&
			matchAny(f.SearchLocation, r.Location, r.Organization) &&
			matchAny(f.SearchCustomer, r.CustomerName, r.Organization) &&
			matchStaff(r.SelectedDoctors, f.Doctor) &&
			matchStaff(r.SelectedEmployees, f.Employee) &&
			matchAny(f.Search, r.CustomerName, r.Organization, r.ProductName, r.Location)
	})
}

func keep[T any](records []T, pred func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func unset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, models.All)
}

func contains(field, query string) bool {
	if unset(query) {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(strings.TrimSpace(query)))
}

func matchAny(query string, fields ...string) bool {
	if unset(query) {
		return true
	}
	for _, field := range fields {
		if contains(field, query) {
			return true
		}
	}
	return false
}

func matchExact(field, want string) bool {
	return unset(want) || strings.EqualFold(strings.TrimSpace(field), strings.TrimSpace(want))
}

// matchDoctor resolves by id when one is selected and the record carries
// one, otherwise by name substring.
func matchDoctor(id, name string, f models.ReportFilters) bool {
	if !unset(f.SelectedDoctorID) && id != "" {
		return id == f.SelectedDoctorID
	}
	return contains(name, f.Doctor)
}

func matchStaff(staff []models.FieldTripStaff, query string) bool {
	if unset(query) {
		return true
	}
	for _, s := range staff {
		if contains(s.Name, query) {
			return true
		}
	}
	return false
}

// matchDate applies the period part of f to a dated record. An explicit
// range wins over a single date, which wins over month/year. Undated records
// only pass when no period is selected.
func matchDate(d time.Time, f models.ReportFilters) bool {
	if !f.PeriodActive() {
		return true
	}
	if d.IsZero() {
		return false
	}
	day := startOfDay(d)
	switch {
	case f.HasDateRange():
		return !day.Before(startOfDay(f.StartDate)) && !day.After(startOfDay(f.EndDate))
	case !f.Date.IsZero():
		return sameDay(day, f.Date)
	}
	if m := f.MonthValue(); m != 0 && d.Month() != m {
		return false
	}
	if y := f.YearValue(); y != 0 && d.Year() != y {
		return false
	}
	return true
}

// matchPeriod is matchDate for month-granular records: a range matches when
// it overlaps the month.
func matchPeriod(p models.Period, f models.ReportFilters) bool {
	if !f.PeriodActive() {
		return true
	}
	if p.IsZero() {
		return false
	}
	switch {
	case f.HasDateRange():
		first := p.Start(f.StartDate.Location())
		last := p.End(f.StartDate.Location())
		return !last.Before(startOfDay(f.StartDate)) && !first.After(startOfDay(f.EndDate))
	case !f.Date.IsZero():
		return models.PeriodOf(f.Date) == p
	}
	if m := f.MonthValue(); m != 0 && p.Month != m {
		return false
	}
	if y := f.YearValue(); y != 0 && p.Year != y {
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
