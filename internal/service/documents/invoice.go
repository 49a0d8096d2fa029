package documents

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/terbilang"
)

// LineItem is one row of an invoice.
type LineItem struct {
	Description string          `json:"description"`
	Detail      string          `json:"detail,omitempty"`
	Quantity    int64           `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a single-transaction document: a sales invoice, a field trip
// invoice or a field trip receipt.
type Invoice struct {
	Kind          Kind                 `json:"kind"`
	Title         string               `json:"title"`
	Number        string               `json:"number"`
	Date          time.Time            `json:"date"`
	Cashier       string               `json:"cashier"`
	Clinic        ClinicHeader         `json:"clinic"`
	CustomerName  string               `json:"customerName"`
	Organization  string               `json:"organization,omitempty"`
	CustomerPhone string               `json:"customerPhone,omitempty"`
	EventDate     time.Time            `json:"eventDate,omitempty"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	Items         []LineItem           `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Discount      decimal.Decimal      `json:"discount"`
	Total         decimal.Decimal      `json:"total"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	AmountPaid    decimal.Decimal      `json:"amountPaid"`
	Outstanding   decimal.Decimal      `json:"outstanding"`
	// Terbilang spells Total on invoices and AmountPaid on receipts.
	Terbilang   string    `json:"terbilang"`
	Notes       string    `json:"notes,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// PaymentLabel is the status stamp printed on the document.
func (i *Invoice) PaymentLabel() string {
	return i.PaymentStatus.Label()
}

// BuildInvoice prepares the invoice of one product sale. A zero date falls
// back to the sale date.
func BuildInvoice(sale models.SalesReport, cashier string, date time.Time) *Invoice {
	if date.IsZero() {
		date = sale.Date
	}
	inv := &Invoice{
		Kind:          KindInvoice,
		Title:         "Invoice Penjualan",
		Number:        documentNumber("INV", date, sale.ID),
		Date:          date,
		Cashier:       strings.TrimSpace(cashier),
		CustomerName:  sale.CustomerName,
		PaymentMethod: sale.PaymentMethod,
		Items: []LineItem{{
			Description: sale.ProductName,
			Detail:      sale.Category,
			Quantity:    sale.Quantity,
			Unit:        "pcs",
			UnitPrice:   sale.PricePerUnit,
			Amount:      sale.Subtotal(),
		}},
		Subtotal:      sale.Subtotal(),
		Discount:      sale.Discount,
		Total:         sale.TotalAmount,
		PaymentStatus: models.PaymentPaid,
		AmountPaid:    sale.TotalAmount,
		Outstanding:   decimal.Zero,
	}
	inv.Terbilang = terbilang.Words(inv.Total)
	return inv
}

// BuildFieldTripInvoice prepares the invoice of a field trip sale.
func BuildFieldTripInvoice(sale models.FieldTripSaleReport, cashier string, date time.Time) *Invoice {
	inv := fieldTripDocument(sale, cashier, date)
	inv.Kind = KindInvoice
	inv.Title = "Invoice Field Trip"
	inv.Number = documentNumber("INV", inv.Date, sale.ID)
	inv.Terbilang = terbilang.Words(inv.Total)
	return inv
}

// BuildReceipt prepares the receipt (kwitansi) of what the customer has paid
// for a field trip so far.
func BuildReceipt(sale models.FieldTripSaleReport, cashier string, date time.Time) *Invoice {
	inv := fieldTripDocument(sale, cashier, date)
	inv.Kind = KindReceipt
	inv.Title = "Kwitansi Pembayaran"
	inv.Number = documentNumber("KW", inv.Date, sale.ID)
	inv.Terbilang = terbilang.Words(inv.AmountPaid)
	return inv
}

func fieldTripDocument(sale models.FieldTripSaleReport, cashier string, date time.Time) *Invoice {
	if date.IsZero() {
		date = sale.Date
	}
	detail := sale.Location
	if !sale.EventDate.IsZero() {
		detail = strings.TrimSpace(detail + " " + longDate(sale.EventDate))
	}
	return &Invoice{
		Date:          date,
		Cashier:       strings.TrimSpace(cashier),
		CustomerName:  sale.CustomerName,
		Organization:  sale.Organization,
		CustomerPhone: sale.CustomerPhone,
		EventDate:     sale.EventDate,
		Items: []LineItem{{
			Description: sale.ProductName,
			Detail:      detail,
			Quantity:    sale.Participants,
			Unit:        "peserta",
			UnitPrice:   sale.PricePerParticipant,
			Amount:      sale.Subtotal,
		}},
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.FinalAmount,
		PaymentStatus: sale.PaymentStatus,
		AmountPaid:    sale.AmountPaid(),
		Outstanding:   sale.Outstanding(),
		Notes:         sale.Notes,
	}
}

// documentNumber renders PREFIX/YYYYMMDD/XXXXXXXX from the record id, or a
// random suffix when the record has none.
func documentNumber(prefix string, date time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(id), "-", ""))
	if suffix == "" {
		suffix = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if date.IsZero() {
		date = time.Now()
	}
	return prefix + "/" + date.Format("20060102") + "/" + suffix
}
