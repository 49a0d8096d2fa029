package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in    string
		want  decimal.Decimal
		valid bool
	}{
		{in: `150000`, want: dec(150000), valid: true},
		{in: `"150000"`, want: dec(150000), valid: true},
		{in: `"Rp 1.250.000"`, want: dec(1250000), valid: true},
		{in: `"Rp 250.000"`, want: dec(250000), valid: true},
		{in: `"25.000"`, want: dec(25000), valid: true},
		{in: `"Rp. 75.000"`, want: dec(75000), valid: true},
		{in: `"Rp 1,250,000"`, want: dec(1250000), valid: true},
		{in: `"1.250.000,50"`, want: decimal.RequireFromString("1250000.5"), valid: true},
		{in: `"1,250,000.50"`, want: decimal.RequireFromString("1250000.5"), valid: true},
		{in: `"12,5"`, want: decimal.RequireFromString("12.5"), valid: true},
		{in: `"12.5"`, want: decimal.RequireFromString("12.5"), valid: true},
		{in: `"Rp -5.000"`, want: dec(-5000), valid: true},
		{in: `12.5`, want: decimal.RequireFromString("12.5"), valid: true},
		{in: `""`, want: decimal.Zero},
		{in: `null`, want: decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.valid, n.Valid)
			assert.True(t, tt.want.Equal(n.Decimal), "got %s", n.Decimal)
		})
	}

	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &n))
}

func TestNormalizeTreatmentAliases(t *testing.T) {
	var raw []RawTreatment
	payload := `[
		{"id":"1","patientName":"Budi","doctorName":"drg. Sari","treatmentName":"Scaling","amount":300000,"fee":90000,"date":"2026-10-03T09:00:00Z"},
		{"id":"2","patient":"Ani","doctorName":"drg. Sari","treatment":"Tambal","nominal":"250000","calculatedFee":"75000","date":"2026-10-04"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	a := NormalizeTreatment(raw[0], time.UTC)
	b := NormalizeTreatment(raw[1], time.UTC)

	assert.Equal(t, "Budi", a.PatientName)
	assert.True(t, a.Amount.Equal(dec(300000)))
	assert.True(t, a.Fee.Equal(dec(90000)))
	assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), a.Date)

	assert.Equal(t, "Ani", b.PatientName)
	assert.Equal(t, "Tambal", b.TreatmentName)
	assert.True(t, b.Amount.Equal(dec(250000)))
	assert.True(t, b.Fee.Equal(dec(75000)))
}

func TestNormalizeSaleTotalPolicy(t *testing.T) {
	stored := NormalizeSale(RawSale{
		Quantity:     Number{Decimal: dec(2), Valid: true},
		PricePerUnit: Number{Decimal: dec(50000), Valid: true},
		TotalAmount:  Number{Decimal: dec(95000), Valid: true},
	}, time.UTC)
	assert.True(t, stored.TotalAmount.Equal(dec(95000)), "stored total must be trusted")

	derived := NormalizeSale(RawSale{
		Quantity: Number{Decimal: dec(3), Valid: true},
		Price:    Number{Decimal: dec(20000), Valid: true},
		Discount: Number{Decimal: dec(5000), Valid: true},
	}, time.UTC)
	assert.True(t, derived.TotalAmount.Equal(dec(55000)), "got %s", derived.TotalAmount)
}

func TestNormalizeDoctorFeeIgnoresStoredFinal(t *testing.T) {
	fee := NormalizeDoctorFee(RawDoctorFee{
		DoctorName:    "drg. Sari",
		CalculatedFee: Number{Decimal: dec(80000), Valid: true},
		UangDuduk:     Number{Decimal: dec(100000), Valid: true},
		Date:          "2026-10-01",
	}, time.UTC)

	assert.True(t, fee.TreatmentFee.Equal(dec(80000)))
	assert.True(t, fee.SittingFee.Equal(dec(100000)))
	assert.True(t, fee.FinalFee().Equal(dec(100000)))
}

func TestFinalFee(t *testing.T) {
	pairs := [][2]int64{{0, 0}, {0, 150000}, {200000, 0}, {120000, 150000}, {150000, 120000}, {100000, 100000}}
	for _, p := range pairs {
		tf, sf := dec(p[0]), dec(p[1])
		got := FinalFee(tf, sf)
		want := tf
		if sf.GreaterThan(tf) {
			want = sf
		}
		assert.True(t, want.Equal(got), "FinalFee(%d,%d) = %s", p[0], p[1], got)
	}
	assert.True(t, FinalFee(decimal.Zero, dec(150000)).Equal(dec(150000)))
	assert.True(t, FinalFee(dec(200000), decimal.Zero).Equal(dec(200000)))
}

func TestNormalizeSalary(t *testing.T) {
	s := NormalizeSalary(RawSalary{
		Name:       "Rina",
		Date:       "2026-09-28",
		BaseSalary: Number{Decimal: dec(3000000), Valid: true},
		Bonus:      Number{Decimal: dec(250000), Valid: true},
		THR:        Number{Decimal: dec(0), Valid: true},
		FieldTripBonusLog: []RawFieldTripBonusEntry{
			{FieldTripID: "ft-1", Bonus: Number{Decimal: dec(50000), Valid: true}},
		},
	}, time.UTC)

	assert.Equal(t, "Rina", s.EmployeeName)
	assert.Equal(t, time.September, s.Month)
	assert.Equal(t, 2026, s.Year)
	assert.True(t, s.TotalSalary.Equal(dec(3250000)))
	require.Len(t, s.FieldTripBonusLog, 1)
	assert.Equal(t, "ft-1", s.FieldTripBonusLog[0].SaleID)
	assert.True(t, s.FieldTripBonus().Equal(dec(50000)))
}

func TestNormalizeFieldTripSale(t *testing.T) {
	f := NormalizeFieldTripSale(RawFieldTripSale{
		CustomerName:        "Bu Dewi",
		Organization:        "SD Negeri 1",
		ProductName:         "Edukasi Gigi Sehat",
		Participants:        Number{Decimal: dec(40), Valid: true},
		PricePerParticipant: Number{Decimal: dec(25000), Valid: true},
		DiscountAmount:      Number{Decimal: dec(100000), Valid: true},
		DPAmount:            Number{Decimal: dec(300000), Valid: true},
		PaymentStatus:       "DP",
		SaleDate:            "2026-10-10",
		SelectedDoctors:     []RawFieldTripStaff{{ID: "d1", Name: "drg. Sari", Fee: Number{Decimal: dec(150000), Valid: true}}},
		SelectedEmployees:   []RawFieldTripStaff{{ID: "e1", Name: "Rina", Bonus: Number{Decimal: dec(50000), Valid: true}}},
	}, time.UTC)

	assert.True(t, f.Subtotal.Equal(dec(1000000)))
	assert.True(t, f.FinalAmount.Equal(dec(900000)))
	assert.Equal(t, PaymentDownPayment, f.PaymentStatus)
	assert.True(t, f.AmountPaid().Equal(dec(300000)))
	assert.True(t, f.Outstanding().Equal(dec(600000)))
	require.Len(t, f.SelectedDoctors, 1)
	assert.True(t, f.SelectedDoctors[0].Amount.Equal(dec(150000)))
	assert.True(t, f.SelectedEmployees[0].Amount.Equal(dec(50000)))
}

func TestNormalizeAttendance(t *testing.T) {
	a := NormalizeAttendance(RawAttendance{Name: "drg. Sari", Shift: "Pagi", Type: "check_out", Timestamp: "2026-10-01T14:05:00"}, time.UTC)
	assert.Equal(t, "drg. Sari", a.DoctorName)
	assert.Equal(t, "pagi", a.Shift)
	assert.Equal(t, CheckOut, a.Type)
	assert.Equal(t, "14:05", a.Time)
	assert.Equal(t, 1, a.Date.Day())
}

func TestParseDate(t *testing.T) {
	assert.True(t, ParseDate("", time.UTC).IsZero())
	assert.True(t, ParseDate("not a date", time.UTC).IsZero())
	assert.Equal(t, "2026-02-03", FormatDate(ParseDate("2026-02-03T23:59:59+07:00", time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestParseReportType(t *testing.T) {
	got, err := ParseReportType("Field-Trip-Sales")
	require.NoError(t, err)
	assert.Equal(t, ReportFieldTripSales, got)

	_, err = ParseReportType("stock")
	assert.Error(t, err)
}

func TestReportFiltersSubtitle(t *testing.T) {
	f := ReportFilters{Month: "10", Year: "2026"}
	assert.Equal(t, "Periode Oktober 2026", f.Subtitle())

	f = ReportFilters{Month: All, Year: All}
	assert.Equal(t, "Semua Periode", f.Subtitle())
	assert.False(t, f.PeriodActive())

	f.StartDate = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	f.EndDate = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Periode 01/10/2026 - 15/10/2026", f.Subtitle())
}
