package documents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

func fieldTripSale(status models.PaymentStatus) models.FieldTripSaleReport {
	return models.FieldTripSaleReport{
		ID:                  "9f1c2d3e-aaaa-bbbb-cccc-000000000001",
		CustomerName:        "Bu Sari",
		Organization:        "SD Harapan",
		Location:            "Klinik Pusat",
		ProductName:         "Edukasi Gigi",
		Participants:        40,
		PricePerParticipant: rp(75000),
		Subtotal:            rp(3000000),
		Discount:            rp(200000),
		FinalAmount:         rp(2800000),
		DownPayment:         rp(1000000),
		PaymentStatus:       status,
		Date:                day(2026, 10, 2),
		EventDate:           day(2026, 10, 20),
	}
}

func TestBuildInvoice(t *testing.T) {
	sale := models.SalesReport{ID: "abc-123", ProductName: "Sikat Gigi", Quantity: 2, PricePerUnit: rp(25000), TotalAmount: rp(50000), Date: day(2026, 10, 1)}
	inv := BuildInvoice(sale, " Rina ", time.Time{})

	assert.Equal(t, KindInvoice, inv.Kind)
	assert.Equal(t, "INV/20261001/ABC123", inv.Number)
	assert.Equal(t, "Rina", inv.Cashier)
	assert.Equal(t, "Lima puluh ribu rupiah", inv.Terbilang)
	assert.Equal(t, "LUNAS", inv.PaymentLabel())
	assert.True(t, inv.Outstanding.IsZero())
}

func TestBuildFieldTripInvoiceDownPayment(t *testing.T) {
	inv := BuildFieldTripInvoice(fieldTripSale(models.PaymentDownPayment), "Rina", day(2026, 10, 5))

	assert.Equal(t, "INV/20261005/9F1C2D3E", inv.Number)
	assert.Equal(t, "Dua juta delapan ratus ribu rupiah", inv.Terbilang)
	assert.True(t, inv.AmountPaid.Equal(rp(1000000)))
	assert.True(t, inv.Outstanding.Equal(rp(1800000)))
	assert.Equal(t, "DP", inv.PaymentLabel())
}

func TestBuildReceiptSpellsAmountPaid(t *testing.T) {
	rec := BuildReceipt(fieldTripSale(models.PaymentDownPayment), "Rina", time.Time{})

	assert.Equal(t, KindReceipt, rec.Kind)
	assert.True(t, strings.HasPrefix(rec.Number, "KW/20261002/"))
	assert.Equal(t, "Satu juta rupiah", rec.Terbilang)

	rec = BuildReceipt(fieldTripSale(models.PaymentTempo), "Rina", time.Time{})
	assert.Equal(t, "Nol rupiah", rec.Terbilang)
	assert.True(t, rec.Outstanding.Equal(rp(2800000)))
}

func TestDocumentNumberWithoutID(t *testing.T) {
	n := documentNumber("INV", day(2026, 10, 1), "")
	assert.Regexp(t, `^INV/20261001/[0-9A-F]{8}$`, n)
}

func TestRendererReport(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	doc, err := BuildReport(models.ReportSales, salesSet())
	require.NoError(t, err)
	doc.Subtitle = "Periode Oktober 2026"
	doc.Clinic = ClinicHeader{Name: "Klinik Gigi Senyum"}
	doc.GeneratedAt = time.Date(2026, 10, 16, 14, 5, 0, 0, time.UTC)

	html, err := r.RenderReport(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "Klinik Gigi Senyum")
	assert.Contains(t, html, "Laporan Penjualan Produk")
	assert.Contains(t, html, "Periode Oktober 2026")
	assert.Contains(t, html, "Rp 75.000")
	assert.Contains(t, html, "Jumlah data: 2")
	assert.Contains(t, html, "Jumat, 16 Oktober 2026 14:05")
	// product names are escaped
	assert.Contains(t, html, "Pasta, &#34;Mint&#34;")
}

func TestRendererEmptyReport(t *testing.T) {
	doc, err := BuildReport(models.ReportExpenses, models.ReportSet{})
	require.NoError(t, err)

	html, err := MustRenderer().RenderReport(doc)
	require.NoError(t, err)
	assert.Contains(t, html, "Tidak ada data untuk periode ini")
	assert.Contains(t, html, "Jumlah data: 0")
}

func TestRendererInvoiceAndReceipt(t *testing.T) {
	r := MustRenderer()

	html, err := r.RenderInvoice(BuildFieldTripInvoice(fieldTripSale(models.PaymentDownPayment), "Rina", time.Time{}))
	require.NoError(t, err)
	assert.Contains(t, html, "Terbilang: Dua juta delapan ratus ribu rupiah")
	assert.Contains(t, html, "Uang Muka (DP)")
	assert.Contains(t, html, "Rp 1.800.000")

	html, err = r.RenderInvoice(BuildReceipt(fieldTripSale(models.PaymentDownPayment), "Rina", time.Time{}))
	require.NoError(t, err)
	assert.Contains(t, html, "Telah terima dari")
	assert.Contains(t, html, "Satu juta rupiah")

	_, err = r.RenderInvoice(nil)
	assert.Error(t, err)
}

func TestGeneratorPreviewPrints(t *testing.T) {
	win := &fakeWindow{}
	gen := NewGenerator(
		MustRenderer(),
		NewPrintService(&fakeOpener{win: win}, 0, nil),
		NewPreviewStore(time.Minute),
		ClinicHeader{Name: "Klinik Gigi Senyum"},
		time.UTC,
		nil,
	)
	gen.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }

	filters := models.ReportFilters{Month: "10", Year: "2026"}
	doc, err := gen.Report(models.ReportSales, salesSet(), filters)
	require.NoError(t, err)
	assert.Equal(t, "Periode Oktober 2026", doc.Subtitle)
	assert.Equal(t, "Klinik Gigi Senyum", doc.Clinic.Name)

	id, snap, err := gen.Preview(doc)
	require.NoError(t, err)
	assert.Equal(t, PreviewOpen, snap.State)
	assert.Equal(t, 2, snap.RecordCount)

	p, err := gen.Previews().Get(id)
	require.NoError(t, err)
	res, err := p.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Laporan Penjualan Produk", res.Title)
	assert.Contains(t, win.written, "Sikat Gigi")
	assert.Equal(t, PreviewClosed, p.Snapshot().State)
}

func TestGeneratorPreviewPopupBlocked(t *testing.T) {
	gen := NewGenerator(MustRenderer(), NewPrintService(&fakeOpener{}, 0, nil), NewPreviewStore(0), ClinicHeader{}, nil, nil)

	doc, err := gen.Report(models.ReportSales, salesSet(), models.ReportFilters{})
	require.NoError(t, err)
	id, _, err := gen.Preview(doc)
	require.NoError(t, err)

	p, err := gen.Previews().Get(id)
	require.NoError(t, err)
	_, err = p.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrPopupBlocked)
	assert.Equal(t, PreviewOpen, p.Snapshot().State)
}
