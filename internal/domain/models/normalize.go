package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Number decodes a JSON number, a numeric string, an empty string or null.
// The backend stores amounts both ways depending on which form wrote them.
type Number struct {
	decimal.Decimal
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("number: %w", err)
		}
		raw = cleanNumber(s)
		if raw == "" {
			*n = Number{}
			return nil
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("number %q: %w", raw, err)
	}
	*n = Number{Decimal: d, Valid: true}
	return nil
}

var (
	dotThousands   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	commaDecimal   = regexp.MustCompile(`^\d+,\d{1,2}$`)
)

// cleanNumber turns amounts typed in forms ("Rp 1.250.000", "1,250,000",
// "12,5") into a plain decimal string. A dot followed by groups of three
// digits is a thousands separator; a comma is a decimal point only when one
// or two digits follow it.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "rp") {
		s = strings.TrimSpace(strings.TrimPrefix(s[2:], "."))
	}

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", strings.TrimSpace(s[1:])
	}

	hasDot, hasComma := strings.Contains(s, "."), strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		// The separator that comes last is the decimal point.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot && dotThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case hasComma && commaThousands.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case hasComma && commaDecimal.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	}
	if s == "" {
		return ""
	}
	return sign + s
}

// NonZero returns n when it was present and not zero.
func (n Number) NonZero() bool {
	return n.Valid && !n.Decimal.IsZero()
}

// first returns the first non-zero number, or zero.
func first(values ...Number) decimal.Decimal {
	for _, v := range values {
		if v.NonZero() {
			return v.Decimal
		}
	}
	return decimal.Zero
}

func firstString(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// ParseDate reads the date part of a backend timestamp in loc. Values that
// are empty or unparsable yield the zero time.
func ParseDate(value string, loc *time.Location) time.Time {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}
	}
	if len(str) > 10 {
		str = str[:10]
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, str, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate renders t as YYYY-MM-DD or an empty string when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// RawEmployee is the /employees payload.
type RawEmployee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Role       string `json:"role"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	BaseSalary Number `json:"baseSalary"`
	Salary     Number `json:"salary"`
	JoinDate   string `json:"joinDate"`
}

// NormalizeEmployee converts a raw employee.
func NormalizeEmployee(r RawEmployee, loc *time.Location) Employee {
	return Employee{
		ID:         r.ID,
		Name:       strings.TrimSpace(r.Name),
		Position:   firstString(r.Position, r.Role),
		Phone:      r.Phone,
		Email:      r.Email,
		Status:     r.Status,
		BaseSalary: first(r.BaseSalary, r.Salary),
		JoinDate:   ParseDate(r.JoinDate, loc),
	}
}

// RawDoctor is the /doctors payload.
type RawDoctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Specialty      string `json:"specialty"`
	Phone          string `json:"phone"`
	Status         string `json:"status"`
}

// NormalizeDoctor converts a raw doctor.
func NormalizeDoctor(r RawDoctor) Doctor {
	return Doctor{
		ID:             r.ID,
		Name:           strings.TrimSpace(r.Name),
		Specialization: firstString(r.Specialization, r.Specialty),
		Phone:          r.Phone,
		Status:         r.Status,
	}
}

// RawAttendance is the /attendance payload.
type RawAttendance struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
	Name       string `json:"name"`
	Shift      string `json:"shift"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Time       string `json:"time"`
	Timestamp  string `json:"timestamp"`
}

// NormalizeAttendance converts a raw attendance row.
func NormalizeAttendance(r RawAttendance, loc *time.Location) AttendanceReport {
	at := AttendanceReport{
		ID:         r.ID,
		DoctorID:   r.DoctorID,
		DoctorName: firstString(r.DoctorName, r.Name),
		Shift:      strings.ToLower(strings.TrimSpace(r.Shift)),
		Date:       ParseDate(firstString(r.Date, r.Timestamp), loc),
		Time:       strings.TrimSpace(r.Time),
	}
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(r.Type), "_", "-")) {
	case "check-out", "checkout", "keluar", "pulang":
		at.Type = CheckOut
	default:
		at.Type = CheckIn
	}
	if at.Time == "" && len(r.Timestamp) >= 16 {
		at.Time = r.Timestamp[11:16]
	}
	return at
}

// RawFieldTripBonusEntry is one element of a stored fieldTripBonusLog.
type RawFieldTripBonusEntry struct {
	SaleID       string `json:"saleId"`
	FieldTripID  string `json:"fieldTripId"`
	Date         string `json:"date"`
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
	Amount       Number `json:"amount"`
	Bonus        Number `json:"bonus"`
}

// RawSalary is the /salary payload.
type RawSalary struct {
	ID                string                   `json:"id"`
	EmployeeID        string                   `json:"employeeId"`
	EmployeeName      string                   `json:"employeeName"`
	Name              string                   `json:"name"`
	Month             Number                   `json:"month"`
	Year              Number                   `json:"year"`
	Date              string                   `json:"date"`
	BaseSalary        Number                   `json:"baseSalary"`
	Bonus             Number                   `json:"bonus"`
	HolidayAllowance  Number                   `json:"holidayAllowance"`
	THR               Number                   `json:"thr"`
	TotalSalary       Number                   `json:"totalSalary"`
	Total             Number                   `json:"total"`
	FieldTripBonusLog []RawFieldTripBonusEntry `json:"fieldTripBonusLog"`
}

// NormalizeSalary converts a raw salary row. When month/year are missing
// they are taken from the record date. A missing total is the sum of the
// three components.
func NormalizeSalary(r RawSalary, loc *time.Location) SalaryReport {
	s := SalaryReport{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		EmployeeName:     firstString(r.EmployeeName, r.Name),
		Month:            time.Month(r.Month.IntPart()),
		Year:             int(r.Year.IntPart()),
		BaseSalary:       first(r.BaseSalary),
		Bonus:            first(r.Bonus),
		HolidayAllowance: first(r.HolidayAllowance, r.THR),
	}
	if s.Month < time.January || s.Month > time.December || s.Year == 0 {
		if d := ParseDate(r.Date, loc); !d.IsZero() {
			s.Month, s.Year = d.Month(), d.Year()
		}
	}
	s.TotalSalary = first(r.TotalSalary, r.Total)
	if s.TotalSalary.IsZero() {
		s.TotalSalary = s.BaseSalary.Add(s.Bonus).Add(s.HolidayAllowance)
	}
	for _, e := range r.FieldTripBonusLog {
		s.FieldTripBonusLog = append(s.FieldTripBonusLog, FieldTripBonusEntry{
			SaleID:   firstString(e.SaleID, e.FieldTripID),
			Date:     ParseDate(e.Date, loc),
			Customer: e.CustomerName,
			Product:  e.ProductName,
			Amount:   first(e.Amount, e.Bonus),
		})
	}
	return s
}

// RawDoctorFee is the /doctor-fees payload.
type RawDoctorFee struct {
	ID            string `json:"id"`
	DoctorID      string `json:"doctorId"`
	DoctorName    string `json:"doctorName"`
	Shift         string `json:"shift"`
	Date          string `json:"date"`
	TreatmentFee  Number `json:"treatmentFee"`
	Fee           Number `json:"fee"`
	CalculatedFee Number `json:"calculatedFee"`
	TotalFee      Number `json:"totalFee"`
	SittingFee    Number `json:"sittingFee"`
	UangDuduk     Number `json:"uangDuduk"`
}

// NormalizeDoctorFee converts a raw doctor fee. Any stored final fee is
// ignored; DoctorFeeReport.FinalFee recomputes it.
func NormalizeDoctorFee(r RawDoctorFee, loc *time.Location) DoctorFeeReport {
	return DoctorFeeReport{
		ID:           r.ID,
		DoctorID:     r.DoctorID,
		DoctorName:   strings.TrimSpace(r.DoctorName),
		Shift:        strings.ToLower(strings.TrimSpace(r.Shift)),
		Date:         ParseDate(r.Date, loc),
		TreatmentFee: first(r.TreatmentFee, r.CalculatedFee, r.Fee, r.TotalFee),
		SittingFee:   first(r.SittingFee, r.UangDuduk),
	}
}

// RawExpense is the /expenses payload.
type RawExpense struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Amount      Number `json:"amount"`
	Nominal     Number `json:"nominal"`
	Date        string `json:"date"`
	Receipt     string `json:"receipt"`
	Notes       string `json:"notes"`
}

// NormalizeExpense converts a raw expense.
func NormalizeExpense(r RawExpense, loc *time.Location) ExpenseReport {
	return ExpenseReport{
		ID:          r.ID,
		Category:    strings.TrimSpace(r.Category),
		Description: firstString(r.Description, r.Name),
		Amount:      first(r.Amount, r.Nominal),
		Date:        ParseDate(r.Date, loc),
		Receipt:     r.Receipt,
		Notes:       r.Notes,
	}
}

// RawTreatment is the /treatments payload.
type RawTreatment struct {
	ID            string `json:"id"`
	PatientName   string `json:"patientName"`
	Patient       string `json:"patient"`
	DoctorID      string `json:"doctorId"`
	DoctorName    string `json:"doctorName"`
	TreatmentName string `json:"treatmentName"`
	Treatment     string `json:"treatment"`
	Shift         string `json:"shift"`
	Amount        Number `json:"amount"`
	Nominal       Number `json:"nominal"`
	TotalAmount   Number `json:"totalAmount"`
	Fee           Number `json:"fee"`
	CalculatedFee Number `json:"calculatedFee"`
	Date          string `json:"date"`
}

// NormalizeTreatment converts a raw treatment.
func NormalizeTreatment(r RawTreatment, loc *time.Location) TreatmentReport {
	return TreatmentReport{
		ID:            r.ID,
		PatientName:   firstString(r.PatientName, r.Patient),
		DoctorID:      r.DoctorID,
		DoctorName:    strings.TrimSpace(r.DoctorName),
		TreatmentName: firstString(r.TreatmentName, r.Treatment),
		Shift:         strings.ToLower(strings.TrimSpace(r.Shift)),
		Amount:        first(r.Amount, r.Nominal, r.TotalAmount),
		Fee:           first(r.Fee, r.CalculatedFee),
		Date:          ParseDate(r.Date, loc),
	}
}

// RawSale is the /sales payload.
type RawSale struct {
	ID            string `json:"id"`
	ProductName   string `json:"productName"`
	Product       string `json:"product"`
	Category      string `json:"category"`
	Quantity      Number `json:"quantity"`
	PricePerUnit  Number `json:"pricePerUnit"`
	Price         Number `json:"price"`
	Discount      Number `json:"discount"`
	TotalAmount   Number `json:"totalAmount"`
	Total         Number `json:"total"`
	CustomerName  string `json:"customerName"`
	PaymentMethod string `json:"paymentMethod"`
	Date          string `json:"date"`
}

// NormalizeSale converts a raw sale. The stored total is trusted; it is
// derived as quantity × price − discount only when absent.
func NormalizeSale(r RawSale, loc *time.Location) SalesReport {
	s := SalesReport{
		ID:            r.ID,
		ProductName:   firstString(r.ProductName, r.Product),
		Category:      strings.TrimSpace(r.Category),
		Quantity:      r.Quantity.IntPart(),
		PricePerUnit:  first(r.PricePerUnit, r.Price),
		Discount:      first(r.Discount),
		TotalAmount:   first(r.TotalAmount, r.Total),
		CustomerName:  r.CustomerName,
		PaymentMethod: r.PaymentMethod,
		Date:          ParseDate(r.Date, loc),
	}
	if s.TotalAmount.IsZero() {
		s.TotalAmount = s.Subtotal().Sub(s.Discount)
	}
	return s
}

// RawFieldTripStaff is an entry of selectedDoctors / selectedEmployees.
type RawFieldTripStaff struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Fee   Number `json:"fee"`
	Bonus Number `json:"bonus"`
}

// RawFieldTripSale is the /field-trip-sales payload.
type RawFieldTripSale struct {
	ID                  string              `json:"id"`
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone"`
	Organization        string              `json:"organization"`
	Location            string              `json:"location"`
	ProductName         string              `json:"productName"`
	Participants        Number              `json:"participants"`
	Quantity            Number              `json:"quantity"`
	PricePerParticipant Number              `json:"pricePerParticipant"`
	Price               Number              `json:"price"`
	Subtotal            Number              `json:"subtotal"`
	Discount            Number              `json:"discount"`
	DiscountAmount      Number              `json:"discountAmount"`
	FinalAmount         Number              `json:"finalAmount"`
	TotalAmount         Number              `json:"totalAmount"`
	DownPayment         Number              `json:"downPayment"`
	DPAmount            Number              `json:"dpAmount"`
	PaymentStatus       string              `json:"paymentStatus"`
	SaleDate            string              `json:"saleDate"`
	Date                string              `json:"date"`
	EventDate           string              `json:"eventDate"`
	SelectedDoctors     []RawFieldTripStaff `json:"selectedDoctors"`
	SelectedEmployees   []RawFieldTripStaff `json:"selectedEmployees"`
	Notes               string              `json:"notes"`
}

// NormalizeFieldTripSale converts a raw field trip sale. Stored amounts are
// trusted; subtotal and final amount are derived only when absent.
func NormalizeFieldTripSale(r RawFieldTripSale, loc *time.Location) FieldTripSaleReport {
	f := FieldTripSaleReport{
		ID:                  r.ID,
		CustomerName:        strings.TrimSpace(r.CustomerName),
		CustomerPhone:       r.CustomerPhone,
		Organization:        strings.TrimSpace(r.Organization),
		Location:            strings.TrimSpace(r.Location),
		ProductName:         strings.TrimSpace(r.ProductName),
		Participants:        first(r.Participants, r.Quantity).IntPart(),
		PricePerParticipant: first(r.PricePerParticipant, r.Price),
		Subtotal:            first(r.Subtotal),
		Discount:            first(r.Discount, r.DiscountAmount),
		FinalAmount:         first(r.FinalAmount, r.TotalAmount),
		DownPayment:         first(r.DownPayment, r.DPAmount),
		PaymentStatus:       ParsePaymentStatus(r.PaymentStatus),
		Date:                ParseDate(firstString(r.SaleDate, r.Date), loc),
		EventDate:           ParseDate(r.EventDate, loc),
		Notes:               r.Notes,
	}
	if f.Subtotal.IsZero() {
		f.Subtotal = f.PricePerParticipant.Mul(decimal.NewFromInt(f.Participants))
	}
	if f.FinalAmount.IsZero() {
		f.FinalAmount = f.Subtotal.Sub(f.Discount)
	}
	f.SelectedDoctors = normalizeStaff(r.SelectedDoctors)
	f.SelectedEmployees = normalizeStaff(r.SelectedEmployees)
	return f
}

func normalizeStaff(raw []RawFieldTripStaff) []FieldTripStaff {
	if len(raw) == 0 {
		return nil
	}
	out := make([]FieldTripStaff, 0, len(raw))
	for _, s := range raw {
		out = append(out, FieldTripStaff{
			ID:     s.ID,
			Name:   strings.TrimSpace(s.Name),
			Amount: first(s.Fee, s.Bonus),
		})
	}
	return out
}

// MarshalJSON keeps Number round-trippable for fixtures.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Decimal)
}
