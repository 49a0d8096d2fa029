package documents

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/terbilang"
)

// BuildReport lays out the table of one report type from an already
// filtered set. Header metadata (clinic, subtitle, time) is left to the
// caller.
func BuildReport(t models.ReportType, set models.ReportSet) (*Document, error) {
	var doc *Document
	switch t {
	case models.ReportAttendance:
		doc = attendanceReport(set.Attendance)
	case models.ReportSalary:
		doc = salaryReport(set.Salaries)
	case models.ReportDoctorFees:
		doc = doctorFeeReport(set.DoctorFees)
	case models.ReportExpenses:
		doc = expenseReport(set.Expenses)
	case models.ReportTreatments:
		doc = treatmentReport(set.Treatments)
	case models.ReportSales:
		doc = salesReport(set.Sales)
	case models.ReportFieldTripSales:
		doc = fieldTripReport(set.FieldTripSales)
	case models.ReportFinancial:
		doc = financialReport(set.Financial)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportType, t)
	}
	doc.Kind = KindReport
	doc.Type = t
	doc.Title = t.Title()
	doc.RecordCount = len(doc.Rows)
	return doc, nil
}

func text(s string) Cell {
	if s == "" {
		return Cell{Text: "-"}
	}
	return Cell{Text: s, Raw: s}
}

func money(d decimal.Decimal) Cell {
	return Cell{Text: terbilang.Rupiah(d), Raw: d.StringFixed(0)}
}

func count(n int64) Cell {
	s := strconv.FormatInt(n, 10)
	return Cell{Text: s, Raw: s}
}

func date(t time.Time) Cell {
	if t.IsZero() {
		return Cell{Text: "-"}
	}
	return Cell{Text: shortDate(t), Raw: models.FormatDate(t)}
}

func moneyTotal(label string, d decimal.Decimal, emphasis bool) TotalLine {
	return TotalLine{Label: label, Text: terbilang.Rupiah(d), Emphasis: emphasis}
}

func countTotal(label string, n int) TotalLine {
	return TotalLine{Label: label, Text: strconv.Itoa(n)}
}

func attendanceReport(records []models.AttendanceReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Tanggal"}, {Title: "Dokter"}, {Title: "Spesialisasi"}, {Title: "Shift", Align: AlignCenter},
		{Title: "Jenis", Align: AlignCenter}, {Title: "Jam", Align: AlignCenter}, {Title: "Status", Align: AlignCenter},
	}}
	var in, out, late int
	for _, r := range records {
		status := reporting.AttendanceStatus(r)
		kind := "Masuk"
		if r.Type == models.CheckOut {
			kind = "Pulang"
			out++
		} else {
			in++
		}
		if status == reporting.StatusLate {
			late++
		}
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.DoctorName), text(r.Specialization), text(r.Shift),
			text(kind), text(r.Time), text(status),
		})
	}
	doc.Totals = []TotalLine{
		countTotal("Total Absen Masuk", in),
		countTotal("Total Absen Pulang", out),
		countTotal("Total Terlambat", late),
	}
	return doc
}

func salaryReport(records []models.SalaryReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Karyawan"}, {Title: "Periode"},
		{Title: "Gaji Pokok", Align: AlignRight}, {Title: "Bonus", Align: AlignRight},
		{Title: "Tunjangan Hari Raya", Align: AlignRight}, {Title: "Bonus Field Trip", Align: AlignRight},
		{Title: "Total Gaji", Align: AlignRight},
	}}
	base, bonus, holiday, fieldTrip, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range records {
		ft := r.FieldTripBonus()
		doc.Rows = append(doc.Rows, []Cell{
			text(r.EmployeeName), {Text: r.Period().Label(), Raw: r.Period().String()},
			money(r.BaseSalary), money(r.Bonus), money(r.HolidayAllowance), money(ft), money(r.TotalSalary),
		})
		base = base.Add(r.BaseSalary)
		bonus = bonus.Add(r.Bonus)
		holiday = holiday.Add(r.HolidayAllowance)
		fieldTrip = fieldTrip.Add(ft)
		total = total.Add(r.TotalSalary)
	}
	doc.Totals = []TotalLine{
		moneyTotal("Total Gaji Pokok", base, false),
		moneyTotal("Total Bonus", bonus, false),
		moneyTotal("Total Tunjangan Hari Raya", holiday, false),
		moneyTotal("Total Bonus Field Trip", fieldTrip, false),
		moneyTotal("Total Gaji", total, true),
	}
	return doc
}

func doctorFeeReport(records []models.DoctorFeeReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Tanggal"}, {Title: "Dokter"}, {Title: "Shift", Align: AlignCenter},
		{Title: "Fee Tindakan", Align: AlignRight}, {Title: "Uang Duduk", Align: AlignRight},
		{Title: "Fee Akhir", Align: AlignRight},
	}}
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.DoctorName), text(r.Shift),
			money(r.TreatmentFee), money(r.SittingFee), money(r.FinalFee()),
		})
	}
	doc.Totals = []TotalLine{moneyTotal("Total Fee Dokter", reporting.SumFinalFees(records), true)}
	return doc
}

func expenseReport(records []models.ExpenseReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Tanggal"}, {Title: "Kategori"}, {Title: "Deskripsi"},
		{Title: "Jumlah", Align: AlignRight}, {Title: "Catatan"},
	}}
	total := decimal.Zero
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.Category), text(r.Description), money(r.Amount), text(r.Notes),
		})
		total = total.Add(r.Amount)
	}
	doc.Totals = []TotalLine{moneyTotal("Total Pengeluaran", total, true)}
	return doc
}

func treatmentReport(records []models.TreatmentReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Tanggal"}, {Title: "Pasien"}, {Title: "Dokter"}, {Title: "Tindakan"},
		{Title: "Nominal", Align: AlignRight}, {Title: "Fee Dokter", Align: AlignRight},
	}}
	amount, fee := decimal.Zero, decimal.Zero
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.PatientName), text(r.DoctorName), text(r.TreatmentName),
			money(r.Amount), money(r.Fee),
		})
		amount = amount.Add(r.Amount)
		fee = fee.Add(r.Fee)
	}
	doc.Totals = []TotalLine{
		moneyTotal("Total Nominal Tindakan", amount, true),
		moneyTotal("Total Fee Tindakan", fee, false),
	}
	return doc
}

// SalesColumns is the column order of the sales table and its CSV export.
var SalesColumns = []string{"Tanggal", "Produk", "Kategori", "Jumlah", "Harga Satuan", "Diskon", "Total"}

func salesReport(records []models.SalesReport) *Document {
	doc := &Document{}
	for i, title := range SalesColumns {
		align := AlignLeft
		if i >= 3 {
			align = AlignRight
		}
		doc.Columns = append(doc.Columns, Column{Title: title, Align: align})
	}
	total := decimal.Zero
	var items int64
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.ProductName), text(r.Category), count(r.Quantity),
			money(r.PricePerUnit), money(r.Discount), money(r.TotalAmount),
		})
		total = total.Add(r.TotalAmount)
		items += r.Quantity
	}
	doc.Totals = []TotalLine{
		countTotal("Total Item Terjual", int(items)),
		moneyTotal("Total Penjualan", total, true),
	}
	return doc
}

func fieldTripReport(records []models.FieldTripSaleReport) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Tanggal"}, {Title: "Pelanggan"}, {Title: "Organisasi"}, {Title: "Produk"},
		{Title: "Peserta", Align: AlignRight}, {Title: "Harga/Peserta", Align: AlignRight},
		{Title: "Diskon", Align: AlignRight}, {Title: "Total", Align: AlignRight},
		{Title: "Status", Align: AlignCenter},
	}}
	total, paid, outstanding := decimal.Zero, decimal.Zero, decimal.Zero
	var participants int64
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			date(r.Date), text(r.CustomerName), text(r.Organization), text(r.ProductName),
			count(r.Participants), money(r.PricePerParticipant), money(r.Discount), money(r.FinalAmount),
			{Text: r.PaymentStatus.Label(), Raw: string(r.PaymentStatus)},
		})
		total = total.Add(r.FinalAmount)
		paid = paid.Add(r.AmountPaid())
		outstanding = outstanding.Add(r.Outstanding())
		participants += r.Participants
	}
	doc.Totals = []TotalLine{
		countTotal("Total Peserta", int(participants)),
		moneyTotal("Total Penjualan Field Trip", total, true),
		moneyTotal("Total Dibayar", paid, false),
		moneyTotal("Sisa Tagihan", outstanding, false),
	}
	return doc
}

func financialReport(records []models.FinancialSummary) *Document {
	doc := &Document{Columns: []Column{
		{Title: "Periode"},
		{Title: "Pendapatan Tindakan", Align: AlignRight}, {Title: "Penjualan Produk", Align: AlignRight},
		{Title: "Field Trip", Align: AlignRight}, {Title: "Gaji Karyawan", Align: AlignRight},
		{Title: "Fee Dokter", Align: AlignRight}, {Title: "Pengeluaran", Align: AlignRight},
		{Title: "Laba Bersih", Align: AlignRight},
	}}
	for _, r := range records {
		doc.Rows = append(doc.Rows, []Cell{
			{Text: r.Period.Label(), Raw: r.Period.String()},
			money(r.TotalTreatmentRevenue), money(r.TotalSalesRevenue), money(r.TotalFieldTripRevenue),
			money(r.TotalSalaryCosts), money(r.TotalDoctorFees), money(r.TotalExpenses), money(r.NetProfit),
		})
	}
	t := reporting.Totals(records)
	doc.Totals = []TotalLine{
		moneyTotal("Total Pendapatan", t.Revenue(), false),
		moneyTotal("Total Biaya", t.Costs(), false),
		moneyTotal("Laba Bersih", t.NetProfit, true),
	}
	return doc
}
