package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// CalculateFinancialData groups every source by the month of its date and
// returns one zero-filled summary per month that has any activity, newest
// first. Records without a date are skipped.
func CalculateFinancialData(
	treatments []models.TreatmentReport,
	sales []models.SalesReport,
	fieldTripSales []models.FieldTripSaleReport,
	salaries []models.SalaryReport,
	doctorFees []models.DoctorFeeReport,
	expenses []models.ExpenseReport,
) []models.FinancialSummary {
	byPeriod := make(map[models.Period]*models.FinancialSummary)
	bucket := func(p models.Period) *models.FinancialSummary {
		s, ok := byPeriod[p]
		if !ok {
			s = &models.FinancialSummary{
				Period:                p,
				TotalTreatmentRevenue: decimal.Zero,
				TotalSalesRevenue:     decimal.Zero,
				TotalFieldTripRevenue: decimal.Zero,
				TotalSalaryCosts:      decimal.Zero,
				TotalDoctorFees:       decimal.Zero,
				TotalExpenses:         decimal.Zero,
			}
			byPeriod[p] = s
		}
		return s
	}
	dated := func(t time.Time) (models.Period, bool) {
		if t.IsZero() {
			return models.Period{}, false
		}
		return models.PeriodOf(t), true
	}

	for _, t := range treatments {
		if p, ok := dated(t.Date); ok {
			s := bucket(p)
			s.TotalTreatmentRevenue = s.TotalTreatmentRevenue.Add(t.Amount)
		}
	}
	for _, sale := range sales {
		if p, ok := dated(sale.Date); ok {
			s := bucket(p)
			s.TotalSalesRevenue = s.TotalSalesRevenue.Add(sale.TotalAmount)
		}
	}
	for _, ft := range fieldTripSales {
		if p, ok := dated(ft.Date); ok {
			s := bucket(p)
			s.TotalFieldTripRevenue = s.TotalFieldTripRevenue.Add(ft.FinalAmount)
		}
	}
	for _, sal := range salaries {
		if p := sal.Period(); !p.IsZero() {
			s := bucket(p)
			s.TotalSalaryCosts = s.TotalSalaryCosts.Add(sal.TotalSalary)
		}
	}
	for _, fee := range doctorFees {
		if p, ok := dated(fee.Date); ok {
			s := bucket(p)
			s.TotalDoctorFees = s.TotalDoctorFees.Add(fee.FinalFee())
		}
	}
	for _, e := range expenses {
		if p, ok := dated(e.Date); ok {
			s := bucket(p)
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		}
	}

	out := make([]models.FinancialSummary, 0, len(byPeriod))
	for _, s := range byPeriod {
		s.NetProfit = s.Revenue().Sub(s.Costs())
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].Period.Before(out[i].Period)
	})
	return out
}

// Totals sums summaries into a single row with a zero Period.
func Totals(summaries []models.FinancialSummary) models.FinancialSummary {
	t := models.FinancialSummary{
		TotalTreatmentRevenue: decimal.Zero,
		TotalSalesRevenue:     decimal.Zero,
		TotalFieldTripRevenue: decimal.Zero,
		TotalSalaryCosts:      decimal.Zero,
		TotalDoctorFees:       decimal.Zero,
		TotalExpenses:         decimal.Zero,
	}
	for _, s := range summaries {
		t.TotalTreatmentRevenue = t.TotalTreatmentRevenue.Add(s.TotalTreatmentRevenue)
		t.TotalSalesRevenue = t.TotalSalesRevenue.Add(s.TotalSalesRevenue)
		t.TotalFieldTripRevenue = t.TotalFieldTripRevenue.Add(s.TotalFieldTripRevenue)
		t.TotalSalaryCosts = t.TotalSalaryCosts.Add(s.TotalSalaryCosts)
		t.TotalDoctorFees = t.TotalDoctorFees.Add(s.TotalDoctorFees)
		t.TotalExpenses = t.TotalExpenses.Add(s.TotalExpenses)
	}
	t.NetProfit = t.Revenue().Sub(t.Costs())
	return t
}

// SumFinalFees totals FinalFee over fees.
func SumFinalFees(fees []models.DoctorFeeReport) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fees {
		total = total.Add(f.FinalFee())
	}
	return total
}
