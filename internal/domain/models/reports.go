package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType tags one tab of the reporting module.
type ReportType string

const (
	ReportAttendance     ReportType = "attendance"
	ReportSalary         ReportType = "salary"
	ReportDoctorFees     ReportType = "doctor-fees"
	ReportExpenses       ReportType = "expenses"
	ReportTreatments     ReportType = "treatments"
	ReportSales          ReportType = "sales"
	ReportFieldTripSales ReportType = "field-trip-sales"
	ReportFinancial      ReportType = "financial"
)

// ReportTypes lists every report in display order.
var ReportTypes = []ReportType{
	ReportAttendance,
	ReportSalary,
	ReportDoctorFees,
	ReportExpenses,
	ReportTreatments,
	ReportSales,
	ReportFieldTripSales,
	ReportFinancial,
}

// ParseReportType accepts the canonical tag and a few legacy spellings.
func ParseReportType(v string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "attendance", "absensi":
		return ReportAttendance, nil
	case "salary", "salaries", "gaji":
		return ReportSalary, nil
	case "doctor-fees", "doctor-fee", "doctorfees", "fee":
		return ReportDoctorFees, nil
	case "expenses", "expense", "pengeluaran":
		return ReportExpenses, nil
	case "treatments", "treatment", "tindakan":
		return ReportTreatments, nil
	case "sales", "penjualan":
		return ReportSales, nil
	case "field-trip-sales", "field-trip", "fieldtrip":
		return ReportFieldTripSales, nil
	case "financial", "keuangan":
		return ReportFinancial, nil
	default:
		return "", fmt.Errorf("unknown report type %q", v)
	}
}

// Title is the Indonesian heading used on printed documents.
func (t ReportType) Title() string {
	switch t {
	case ReportAttendance:
		return "Laporan Absensi Dokter"
	case ReportSalary:
		return "Laporan Gaji Karyawan"
	case ReportDoctorFees:
		return "Laporan Fee Dokter"
	case ReportExpenses:
		return "Laporan Pengeluaran"
	case ReportTreatments:
		return "Laporan Tindakan"
	case ReportSales:
		return "Laporan Penjualan Produk"
	case ReportFieldTripSales:
		return "Laporan Penjualan Field Trip"
	case ReportFinancial:
		return "Laporan Keuangan"
	default:
		return "Laporan"
	}
}

// AttendanceType distinguishes check-in from check-out rows.
type AttendanceType string

const (
	CheckIn  AttendanceType = "check-in"
	CheckOut AttendanceType = "check-out"
)

// AttendanceReport is one check-in or check-out event of a doctor.
type AttendanceReport struct {
	ID             string         `json:"id"`
	DoctorID       string         `json:"doctorId"`
	DoctorName     string         `json:"doctorName"`
	Specialization string         `json:"specialization,omitempty"`
	Shift          string         `json:"shift"`
	Date           time.Time      `json:"date"`
	Type           AttendanceType `json:"type"`
	Time           string         `json:"time"`
}

// FieldTripBonusEntry records one field trip that contributed to a bonus.
type FieldTripBonusEntry struct {
	SaleID   string          `json:"saleId"`
	Date     time.Time       `json:"date"`
	Customer string          `json:"customer"`
	Product  string          `json:"product"`
	Amount   decimal.Decimal `json:"amount"`
}

// SalaryReport is one monthly payroll row.
type SalaryReport struct {
	ID                string                `json:"id"`
	EmployeeID        string                `json:"employeeId"`
	EmployeeName      string                `json:"employeeName"`
	Month             time.Month            `json:"month"`
	Year              int                   `json:"year"`
	BaseSalary        decimal.Decimal       `json:"baseSalary"`
	Bonus             decimal.Decimal       `json:"bonus"`
	HolidayAllowance  decimal.Decimal       `json:"holidayAllowance"`
	TotalSalary       decimal.Decimal       `json:"totalSalary"`
	FieldTripBonusLog []FieldTripBonusEntry `json:"fieldTripBonusLog,omitempty"`
}

// Period returns the payroll month.
func (s SalaryReport) Period() Period {
	return Period{Year: s.Year, Month: s.Month}
}

// FieldTripBonus sums the field trip log.
func (s SalaryReport) FieldTripBonus() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.FieldTripBonusLog {
		total = total.Add(e.Amount)
	}
	return total
}

// DoctorFeeReport is the fee earned by a doctor for one shift.
type DoctorFeeReport struct {
	ID           string          `json:"id"`
	DoctorID     string          `json:"doctorId"`
	DoctorName   string          `json:"doctorName"`
	Shift        string          `json:"shift"`
	Date         time.Time       `json:"date"`
	TreatmentFee decimal.Decimal `json:"treatmentFee"`
	SittingFee   decimal.Decimal `json:"sittingFee"`
}

// FinalFee applies the clinic rule: a doctor is paid whichever is larger,
// the accumulated treatment fee or the flat sitting fee for the shift.
func (d DoctorFeeReport) FinalFee() decimal.Decimal {
	return FinalFee(d.TreatmentFee, d.SittingFee)
}

// FinalFee returns max(treatmentFee, sittingFee).
func FinalFee(treatmentFee, sittingFee decimal.Decimal) decimal.Decimal {
	return decimal.Max(treatmentFee, sittingFee)
}

// ExpenseReport is an append-only ledger row.
type ExpenseReport struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Receipt     string          `json:"receipt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// TreatmentReport is one patient treatment.
type TreatmentReport struct {
	ID            string          `json:"id"`
	PatientName   string          `json:"patientName"`
	DoctorID      string          `json:"doctorId"`
	DoctorName    string          `json:"doctorName"`
	TreatmentName string          `json:"treatmentName"`
	Shift         string          `json:"shift,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	Date          time.Time       `json:"date"`
}

// SalesReport is one product sale.
type SalesReport struct {
	ID            string          `json:"id"`
	ProductName   string          `json:"productName"`
	Category      string          `json:"category"`
	Quantity      int64           `json:"quantity"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CustomerName  string          `json:"customerName,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Date          time.Time       `json:"date"`
}

// Subtotal is quantity × price before discount.
func (s SalesReport) Subtotal() decimal.Decimal {
	return s.PricePerUnit.Mul(decimal.NewFromInt(s.Quantity))
}

// PaymentStatus of a field trip sale.
type PaymentStatus string

const (
	PaymentPaid        PaymentStatus = "lunas"
	PaymentDownPayment PaymentStatus = "dp"
	PaymentTempo       PaymentStatus = "tempo"
)

// ParsePaymentStatus maps the many spellings the dashboard stored over time.
func ParsePaymentStatus(v string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "dp", "down-payment", "down_payment", "uang muka":
		return PaymentDownPayment
	case "tempo", "credit", "kredit", "invoice":
		return PaymentTempo
	default:
		return PaymentPaid
	}
}

// Label is the upper-case form printed on invoices.
func (p PaymentStatus) Label() string {
	switch p {
	case PaymentDownPayment:
		return "DP"
	case PaymentTempo:
		return "TEMPO"
	default:
		return "LUNAS"
	}
}

// FieldTripStaff is a doctor or employee assigned to a field trip with the
// fee or bonus they earn from it.
type FieldTripStaff struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FieldTripSaleReport is a sold outreach event.
type FieldTripSaleReport struct {
	ID                  string           `json:"id"`
	CustomerName        string           `json:"customerName"`
	CustomerPhone       string           `json:"customerPhone,omitempty"`
	Organization        string           `json:"organization"`
	Location            string           `json:"location,omitempty"`
	ProductName         string           `json:"productName"`
	Participants        int64            `json:"participants"`
	PricePerParticipant decimal.Decimal  `json:"pricePerParticipant"`
	Subtotal            decimal.Decimal  `json:"subtotal"`
	Discount            decimal.Decimal  `json:"discount"`
	FinalAmount         decimal.Decimal  `json:"finalAmount"`
	DownPayment         decimal.Decimal  `json:"downPayment"`
	PaymentStatus       PaymentStatus    `json:"paymentStatus"`
	Date                time.Time        `json:"date"`
	EventDate           time.Time        `json:"eventDate"`
	SelectedDoctors     []FieldTripStaff `json:"selectedDoctors"`
	SelectedEmployees   []FieldTripStaff `json:"selectedEmployees"`
	Notes               string           `json:"notes,omitempty"`
}

// AmountPaid is what the customer has handed over so far.
func (f FieldTripSaleReport) AmountPaid() decimal.Decimal {
	switch f.PaymentStatus {
	case PaymentDownPayment:
		return f.DownPayment
	case PaymentTempo:
		return decimal.Zero
	default:
		return f.FinalAmount
	}
}

// Outstanding is the amount still owed.
func (f FieldTripSaleReport) Outstanding() decimal.Decimal {
	rest := f.FinalAmount.Sub(f.AmountPaid())
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// FinancialSummary is the derived profit and loss for one month. It is never
// stored by the backend.
type FinancialSummary struct {
	Period                Period          `json:"period"`
	TotalTreatmentRevenue decimal.Decimal `json:"totalTreatmentRevenue"`
	TotalSalesRevenue     decimal.Decimal `json:"totalSalesRevenue"`
	TotalFieldTripRevenue decimal.Decimal `json:"totalFieldTripRevenue"`
	TotalSalaryCosts      decimal.Decimal `json:"totalSalaryCosts"`
	TotalDoctorFees       decimal.Decimal `json:"totalDoctorFees"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	NetProfit             decimal.Decimal `json:"netProfit"`
}

// Revenue sums the three income categories.
func (f FinancialSummary) Revenue() decimal.Decimal {
	return f.TotalTreatmentRevenue.Add(f.TotalSalesRevenue).Add(f.TotalFieldTripRevenue)
}

// Costs sums the three cost categories.
func (f FinancialSummary) Costs() decimal.Decimal {
	return f.TotalSalaryCosts.Add(f.TotalDoctorFees).Add(f.TotalExpenses)
}

// ReportSet bundles one slice per report source. It is used both for the
// full dataset and for its filtered view.
type ReportSet struct {
	Attendance     []AttendanceReport    `json:"attendance"`
	Salaries       []SalaryReport        `json:"salaries"`
	DoctorFees     []DoctorFeeReport     `json:"doctorFees"`
	Expenses       []ExpenseReport       `json:"expenses"`
	Treatments     []TreatmentReport     `json:"treatments"`
	Sales          []SalesReport         `json:"sales"`
	FieldTripSales []FieldTripSaleReport `json:"fieldTripSales"`
	Financial      []FinancialSummary    `json:"financial"`
}

// Count returns the number of records the given report would list.
func (r ReportSet) Count(t ReportType) int {
	switch t {
	case ReportAttendance:
		return len(r.Attendance)
	case ReportSalary:
		return len(r.Salaries)
	case ReportDoctorFees:
		return len(r.DoctorFees)
	case ReportExpenses:
		return len(r.Expenses)
	case ReportTreatments:
		return len(r.Treatments)
	case ReportSales:
		return len(r.Sales)
	case ReportFieldTripSales:
		return len(r.FieldTripSales)
	case ReportFinancial:
		return len(r.Financial)
	default:
		return 0
	}
}
