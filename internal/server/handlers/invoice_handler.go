package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
)

// Output formats of an invoice request.
const (
	formatHTML    = "html"
	formatPDF     = "pdf"
	formatPreview = "preview"
)

type invoiceRequest struct {
	Record  json.RawMessage `json:"record" binding:"required"`
	Cashier string          `json:"cashier"`
	Date    string          `json:"date"`
	Format  string          `json:"format"`
}

// SalesInvoice renders the invoice of a product sale.
func (h *ReportHandler) SalesInvoice(c *gin.Context) {
	req, date, ok := h.bindInvoice(c)
	if !ok {
		return
	}
	var raw models.RawSale
	if err := json.Unmarshal(req.Record, &raw); err != nil {
		badRequest(c, "Data penjualan tidak valid")
		return
	}
	h.respondInvoice(c, req.Format, documents.BuildInvoice(models.NormalizeSale(raw, h.loc), req.Cashier, date))
}

// FieldTripInvoice renders the invoice of a field trip sale.
func (h *ReportHandler) FieldTripInvoice(c *gin.Context) {
	req, date, ok := h.bindInvoice(c)
	if !ok {
		return
	}
	var raw models.RawFieldTripSale
	if err := json.Unmarshal(req.Record, &raw); err != nil {
		badRequest(c, "Data field trip tidak valid")
		return
	}
	h.respondInvoice(c, req.Format, documents.BuildFieldTripInvoice(models.NormalizeFieldTripSale(raw, h.loc), req.Cashier, date))
}

// FieldTripReceipt renders the receipt of what was paid for a field trip.
func (h *ReportHandler) FieldTripReceipt(c *gin.Context) {
	req, date, ok := h.bindInvoice(c)
	if !ok {
		return
	}
	var raw models.RawFieldTripSale
	if err := json.Unmarshal(req.Record, &raw); err != nil {
		badRequest(c, "Data field trip tidak valid")
		return
	}
	h.respondInvoice(c, req.Format, documents.BuildReceipt(models.NormalizeFieldTripSale(raw, h.loc), req.Cashier, date))
}

func (h *ReportHandler) bindInvoice(c *gin.Context) (invoiceRequest, time.Time, bool) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid invoice payload", zap.Error(err))
		badRequest(c, "Format permintaan tidak valid")
		return req, time.Time{}, false
	}

	var date time.Time
	if req.Date != "" {
		d, err := parseDay(req.Date, h.loc)
		if err != nil {
			badRequest(c, err.Error())
			return req, time.Time{}, false
		}
		date = d
	}
	return req, date, true
}

func (h *ReportHandler) respondInvoice(c *gin.Context, format string, inv *documents.Invoice) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatHTML:
		html, err := h.generator.RenderInvoice(inv)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	case formatPDF:
		html, err := h.generator.RenderInvoice(inv)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		res, err := h.generator.Print(c.Request.Context(), inv.Title, html)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		writePDF(c, res, h.now().In(h.loc))
	case formatPreview:
		id, snap, err := h.generator.PreviewInvoice(inv)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": id, "number": inv.Number, "preview": snap})
	default:
		badRequest(c, "Format harus html, pdf atau preview")
	}
}
