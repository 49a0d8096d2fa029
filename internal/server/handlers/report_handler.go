package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/server/middleware"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
)

// DatasetLoader fetches every report source with the caller's session.
type DatasetLoader interface {
	LoadDataset(ctx context.Context, token string) (*reporting.Dataset, error)
}

// ReportHandler serves report data, exports, print previews and invoices.
type ReportHandler struct {
	loader    DatasetLoader
	book      *reporting.FilterBook
	generator *documents.Generator
	sheets    documents.SheetWriter
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter. sheets may be nil
// when no spreadsheet export is configured.
func NewReportHandler(loader DatasetLoader, book *reporting.FilterBook, generator *documents.Generator, sheets documents.SheetWriter, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{
		loader:    loader,
		book:      book,
		generator: generator,
		sheets:    sheets,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// reportContext is everything one report request resolves to.
type reportContext struct {
	Type     models.ReportType
	Filters  models.ReportFilters
	Set      models.ReportSet
	Notices  []reporting.Notice
	Document *documents.Document
}

// resolve reads the report type and filters of the request, loads the
// dataset and builds the document. It writes the error response itself and
// returns false on failure.
func (h *ReportHandler) resolve(c *gin.Context) (*reportContext, bool) {
	t, err := reportType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	actions, err := queryActions(c, h.loc)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	filters := h.book.Get(t)
	for _, a := range actions {
		filters = reporting.Reduce(filters, a)
	}
	return h.build(c, t, filters)
}

func (h *ReportHandler) build(c *gin.Context, t models.ReportType, filters models.ReportFilters) (*reportContext, bool) {
	ds, err := h.loader.LoadDataset(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}

	set := reporting.ApplyFilters(ds.ReportSet, filters)
	doc, err := h.generator.Report(t, set, filters)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return &reportContext{Type: t, Filters: filters, Set: set, Notices: ds.Notices, Document: doc}, true
}

// GetReport returns the filtered records of one report with its totals.
func (h *ReportHandler) GetReport(c *gin.Context) {
	rc, ok := h.resolve(c)
	if !ok {
		return
	}

	resp := gin.H{
		"success":     true,
		"type":        rc.Type,
		"title":       rc.Document.Title,
		"subtitle":    rc.Document.Subtitle,
		"filters":     rc.Filters,
		"records":     recordsOf(rc.Set, rc.Type),
		"totals":      rc.Document.Totals,
		"recordCount": rc.Document.RecordCount,
		"notices":     noticesOrEmpty(rc.Notices),
	}
	if rc.Type == models.ReportFinancial {
		resp["grandTotal"] = reporting.Totals(rc.Set.Financial)
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV streams the report table as a CSV attachment.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	rc, ok := h.resolve(c)
	if !ok {
		return
	}
	data, err := documents.ExportCSV(rc.Document)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+documents.CSVFilename(rc.Document.Title, h.now().In(h.loc))+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Download returns the printable HTML as an attachment.
func (h *ReportHandler) Download(c *gin.Context) {
	rc, ok := h.resolve(c)
	if !ok {
		return
	}
	html, err := h.generator.RenderReport(rc.Document)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+documents.DownloadFilename(rc.Document.Title, h.now().In(h.loc))+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ExportSheet writes the report table to the configured spreadsheet.
func (h *ReportHandler) ExportSheet(c *gin.Context) {
	if h.sheets == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Ekspor Google Sheets belum dikonfigurasi"})
		return
	}
	rc, ok := h.resolve(c)
	if !ok {
		return
	}
	written, err := documents.ExportToSheet(c.Request.Context(), h.sheets, rc.Document)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("report exported to sheet", zap.String("type", string(rc.Type)), zap.String("range", written), zap.Int("rows", rc.Document.RecordCount))
	c.JSON(http.StatusOK, gin.H{"success": true, "range": written, "recordCount": rc.Document.RecordCount})
}

type attendanceRecord struct {
	models.AttendanceReport
	Status string `json:"status"`
}

type salaryRecord struct {
	models.SalaryReport
	FieldTripBonus string `json:"fieldTripBonus"`
}

type doctorFeeRecord struct {
	models.DoctorFeeReport
	FinalFee string `json:"finalFee"`
}

func recordsOf(set models.ReportSet, t models.ReportType) any {
	switch t {
	case models.ReportAttendance:
		out := make([]attendanceRecord, 0, len(set.Attendance))
		for _, r := range set.Attendance {
			out = append(out, attendanceRecord{AttendanceReport: r, Status: reporting.AttendanceStatus(r)})
		}
		return out
	case models.ReportSalary:
		out := make([]salaryRecord, 0, len(set.Salaries))
		for _, r := range set.Salaries {
			out = append(out, salaryRecord{SalaryReport: r, FieldTripBonus: r.FieldTripBonus().StringFixed(0)})
		}
		return out
	case models.ReportDoctorFees:
		out := make([]doctorFeeRecord, 0, len(set.DoctorFees))
		for _, r := range set.DoctorFees {
			out = append(out, doctorFeeRecord{DoctorFeeReport: r, FinalFee: r.FinalFee().StringFixed(0)})
		}
		return out
	case models.ReportExpenses:
		return nonNil(set.Expenses)
	case models.ReportTreatments:
		return nonNil(set.Treatments)
	case models.ReportSales:
		return nonNil(set.Sales)
	case models.ReportFieldTripSales:
		return nonNil(set.FieldTripSales)
	case models.ReportFinancial:
		return nonNil(set.Financial)
	default:
		return []struct{}{}
	}
}

func nonNil[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

func noticesOrEmpty(n []reporting.Notice) []reporting.Notice {
	return nonNil(n)
}
