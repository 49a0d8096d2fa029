package documents

import (
	"strconv"
	"strings"
	"time"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// Kind selects the template a document is rendered with.
type Kind string

const (
	KindReport  Kind = "report"
	KindInvoice Kind = "invoice"
	KindReceipt Kind = "receipt"
)

// ClinicHeader is printed at the top of every document.
type ClinicHeader struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	LogoURL string `json:"logoUrl"`
}

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
	AlignCenter Align = "center"
)

// Column is one table header.
type Column struct {
	Title string `json:"title"`
	Align Align  `json:"align"`
}

// Cell holds the printed text and the plain value used by exports. Empty
// cells print "-" and export as an empty field.
type Cell struct {
	Text string `json:"text"`
	Raw  string `json:"raw,omitempty"`
}

// TotalLine is one footer row under a report table.
type TotalLine struct {
	Label    string `json:"label"`
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Document is a report table ready to be rendered or exported.
type Document struct {
	Kind        Kind              `json:"kind"`
	Type        models.ReportType `json:"type"`
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Clinic      ClinicHeader      `json:"clinic"`
	Columns     []Column          `json:"columns"`
	Rows        [][]Cell          `json:"rows"`
	Totals      []TotalLine       `json:"totals"`
	RecordCount int               `json:"recordCount"`
}

// Header returns the column titles.
func (d *Document) Header() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Title
	}
	return out
}

var dayNames = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// shortDate renders 02/01/2006, or "-" for the zero time.
func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// longDate renders "16 Oktober 2026".
func longDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return strings.Join([]string{strconv.Itoa(t.Day()), models.MonthName(t.Month()), strconv.Itoa(t.Year())}, " ")
}

// fullDate renders "Jumat, 16 Oktober 2026 14:05".
func fullDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dayNames[t.Weekday()] + ", " + longDate(t) + " " + t.Format("15:04")
}
