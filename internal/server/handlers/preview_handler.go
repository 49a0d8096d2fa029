package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
)

type createPreviewRequest struct {
	Type string `json:"type" binding:"required"`
	// Filters replaces the stored tab filters when present.
	Filters *filtersBody `json:"filters"`
}

// CreatePreview renders a report and stages it for printing.
func (h *ReportHandler) CreatePreview(c *gin.Context) {
	var req createPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preview payload", zap.Error(err))
		badRequest(c, "Format permintaan tidak valid")
		return
	}
	t, err := models.ParseReportType(req.Type)
	if err != nil {
		respondError(c, h.logger, errInvalidReportType)
		return
	}

	filters := h.book.Get(t)
	if req.Filters != nil {
		if filters, err = req.Filters.toFilters(h.loc); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	rc, ok := h.build(c, t, filters)
	if !ok {
		return
	}
	id, snap, err := h.generator.Preview(rc.Document)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id, "preview": snap, "notices": noticesOrEmpty(rc.Notices)})
}

// GetPreview returns the state of a staged preview.
func (h *ReportHandler) GetPreview(c *gin.Context) {
	p, err := h.generator.Previews().Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preview": p.Snapshot()})
}

// PreviewKey forwards a keyboard shortcut to a preview. A confirm shortcut
// prints and answers with the PDF, like ConfirmPreview.
func (h *ReportHandler) PreviewKey(c *gin.Context) {
	var key documents.Key
	if err := c.ShouldBindJSON(&key); err != nil || key.Name == "" {
		badRequest(c, "Tombol tidak valid")
		return
	}
	p, err := h.generator.Previews().Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := p.HandleKey(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if res != nil {
		writePDF(c, res, h.now().In(h.loc))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preview": p.Snapshot()})
}

// ConfirmPreview prints a preview and returns the PDF.
func (h *ReportHandler) ConfirmPreview(c *gin.Context) {
	p, err := h.generator.Previews().Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	res, err := p.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if res == nil {
		c.Status(http.StatusNoContent)
		return
	}
	writePDF(c, res, h.now().In(h.loc))
}

// DeletePreview closes and discards a preview.
func (h *ReportHandler) DeletePreview(c *gin.Context) {
	if err := h.generator.Previews().Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writePDF(c *gin.Context, res *documents.PrintResult, now time.Time) {
	name := documents.Slug(res.Title) + "_" + now.Format("2006-01-02") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("X-Print-Pages", strconv.Itoa(res.Pages))
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}
