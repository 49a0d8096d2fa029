package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// All is the filter value that disables a dimension.
const All = "all"

// Employee is a clinic staff member as returned by /employees.
type Employee struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Status     string          `json:"status"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	JoinDate   time.Time       `json:"joinDate"`
}

// Active reports whether the employee is still working at the clinic.
func (e Employee) Active() bool {
	return e.Status == "" || strings.EqualFold(e.Status, "active") || strings.EqualFold(e.Status, "aktif")
}

// Doctor is a practitioner as returned by /doctors.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
	Status         string `json:"status"`
}

// Period identifies a calendar month.
type Period struct {
	Year  int        `json:"year" bson:"year"`
	Month time.Month `json:"month" bson:"month"`
}

// PeriodOf returns the month t falls in.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Before orders periods chronologically.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Start returns the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// End returns the last day of the period in loc (date precision).
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, -1)
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	return PeriodOf(p.Start(time.UTC).AddDate(0, -1, 0))
}

// Label renders the period the way printed reports show it, e.g. "Oktober 2026".
func (p Period) Label() string {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%s %d", MonthName(p.Month), p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}
