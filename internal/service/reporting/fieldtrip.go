package reporting

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// StaffAccrual is what one doctor or employee earned from field trips in a month.
type StaffAccrual struct {
	Period  models.Period                `json:"period"`
	StaffID string                       `json:"staffId"`
	Name    string                       `json:"name"`
	Total   decimal.Decimal              `json:"total"`
	Entries []models.FieldTripBonusEntry `json:"entries"`
}

// FieldTripAccruals splits accruals by staff kind.
type FieldTripAccruals struct {
	Employees []StaffAccrual `json:"employees"`
	Doctors   []StaffAccrual `json:"doctors"`
}

type staffKey struct {
	period models.Period
	id     string
}

// AccumulateFieldTripBonuses totals the fee or bonus carried by each
// selected doctor and employee per month of the sale. Undated sales are
// skipped.
func AccumulateFieldTripBonuses(sales []models.FieldTripSaleReport) FieldTripAccruals {
	employees := map[staffKey]*StaffAccrual{}
	doctors := map[staffKey]*StaffAccrual{}

	for _, sale := range sales {
		if sale.Date.IsZero() {
			continue
		}
		p := models.PeriodOf(sale.Date)
		accrue(employees, p, sale, sale.SelectedEmployees)
		accrue(doctors, p, sale, sale.SelectedDoctors)
	}
	return FieldTripAccruals{
		Employees: flatten(employees),
		Doctors:   flatten(doctors),
	}
}

func accrue(into map[staffKey]*StaffAccrual, p models.Period, sale models.FieldTripSaleReport, staff []models.FieldTripStaff) {
	for _, s := range staff {
		if s.Amount.IsZero() {
			continue
		}
		key := staffKey{period: p, id: staffIdentity(s.ID, s.Name)}
		acc, ok := into[key]
		if !ok {
			acc = &StaffAccrual{Period: p, StaffID: s.ID, Name: s.Name, Total: decimal.Zero}
			into[key] = acc
		}
		acc.Total = acc.Total.Add(s.Amount)
		acc.Entries = append(acc.Entries, models.FieldTripBonusEntry{
			SaleID:   sale.ID,
			Date:     sale.Date,
			Customer: firstNonEmpty(sale.Organization, sale.CustomerName),
			Product:  sale.ProductName,
			Amount:   s.Amount,
		})
	}
}

func flatten(m map[staffKey]*StaffAccrual) []StaffAccrual {
	out := make([]StaffAccrual, 0, len(m))
	for _, acc := range m {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[j].Period.Before(out[i].Period)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// AttachFieldTripBonusLog returns a copy of salaries where rows without a
// stored bonus log get the entries derived from sales for the same employee
// and month. Stored amounts are not changed.
func AttachFieldTripBonusLog(salaries []models.SalaryReport, sales []models.FieldTripSaleReport) []models.SalaryReport {
	if len(salaries) == 0 {
		return salaries
	}
	accruals := AccumulateFieldTripBonuses(sales).Employees
	index := make(map[staffKey]StaffAccrual, len(accruals)*2)
	for _, acc := range accruals {
		if acc.StaffID != "" {
			index[staffKey{period: acc.Period, id: acc.StaffID}] = acc
		}
		index[staffKey{period: acc.Period, id: strings.ToLower(acc.Name)}] = acc
	}

	out := make([]models.SalaryReport, len(salaries))
	copy(out, salaries)
	for i := range out {
		if len(out[i].FieldTripBonusLog) > 0 {
			continue
		}
		p := out[i].Period()
		acc, ok := index[staffKey{period: p, id: out[i].EmployeeID}]
		if !ok || out[i].EmployeeID == "" {
			acc, ok = index[staffKey{period: p, id: strings.ToLower(out[i].EmployeeName)}]
		}
		if ok {
			out[i].FieldTripBonusLog = append([]models.FieldTripBonusEntry(nil), acc.Entries...)
		}
	}
	return out
}

func staffIdentity(id, name string) string {
	if id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
