package models

import (
	"strconv"
	"time"
)

// ReportFilters is the immutable filter state of one report tab. Month and
// Year hold a number as text or All. Zero times mean "not set".
type ReportFilters struct {
	SelectedDoctorID string    `json:"selectedDoctorId"`
	Shift            string    `json:"shift"`
	Date             time.Time `json:"date"`
	Type             string    `json:"type"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Doctor           string    `json:"doctor"`
	Employee         string    `json:"employee"`
	Month            string    `json:"month"`
	Year             string    `json:"year"`

	Search                 string `json:"search"`
	SearchProduct          string `json:"searchProduct"`
	SearchFieldTripProduct string `json:"searchFieldTripProduct"`
	SearchLocation         string `json:"searchLocation"`
	SearchPatient          string `json:"searchPatient"`
	SearchTreatment        string `json:"searchTreatment"`
	SearchCategory         string `json:"searchCategory"`
	SearchCustomer         string `json:"searchCustomer"`
}

// HasDateRange reports whether both range ends are set.
func (f ReportFilters) HasDateRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}

// MonthValue returns the selected month, or 0 when the month is All or
// unparsable.
func (f ReportFilters) MonthValue() time.Month {
	m, err := strconv.Atoi(f.Month)
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return time.Month(m)
}

// YearValue returns the selected year, or 0 when the year is All or
// unparsable.
func (f ReportFilters) YearValue() int {
	y, err := strconv.Atoi(f.Year)
	if err != nil || y <= 0 {
		return 0
	}
	return y
}

// PeriodActive reports whether any period constraint is in effect.
func (f ReportFilters) PeriodActive() bool {
	return f.HasDateRange() || f.MonthValue() != 0 || f.YearValue() != 0 || !f.Date.IsZero()
}

// Subtitle describes the active period for document headers.
func (f ReportFilters) Subtitle() string {
	const layout = "02/01/2006"
	switch {
	case f.HasDateRange():
		return "Periode " + f.StartDate.Format(layout) + " - " + f.EndDate.Format(layout)
	case !f.Date.IsZero():
		return "Tanggal " + f.Date.Format(layout)
	}
	m, y := f.MonthValue(), f.YearValue()
	switch {
	case m != 0 && y != 0:
		return "Periode " + Period{Year: y, Month: m}.Label()
	case m != 0:
		return "Bulan " + MonthName(m)
	case y != 0:
		return "Tahun " + strconv.Itoa(y)
	default:
		return "Semua Periode"
	}
}
