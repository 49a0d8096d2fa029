package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/clients/klinik"
)

// errInvalidReportType is returned for a :type path segment that does not
// name a report.
var errInvalidReportType = errors.New("invalid report type")

// statusFor maps service errors to an HTTP status and a user message.
func statusFor(err error) (int, string) {
	var apiErr *klinik.APIError
	var renderErr *documents.RenderError
	switch {
	case errors.Is(err, klinik.ErrMissingToken):
		return http.StatusUnauthorized, "Sesi tidak ditemukan, silakan login kembali"
	case errors.Is(err, errInvalidReportType), errors.Is(err, documents.ErrUnknownReportType):
		return http.StatusBadRequest, "Jenis laporan tidak dikenal"
	case errors.Is(err, documents.ErrPopupBlocked):
		return http.StatusConflict, "Jendela cetak diblokir. Izinkan pop-up untuk mencetak dokumen"
	case errors.Is(err, documents.ErrPreviewClosed):
		return http.StatusConflict, "Pratinjau sudah ditutup"
	case errors.Is(err, documents.ErrPreviewNotFound):
		return http.StatusNotFound, "Pratinjau tidak ditemukan"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Waktu permintaan habis"
	case errors.Is(err, context.Canceled):
		return 499, "Permintaan dibatalkan"
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
			return apiErr.Status, "Sesi tidak valid, silakan login kembali"
		}
		return http.StatusBadGateway, "Gagal menghubungi server klinik"
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError, "Gagal membuat dokumen"
	default:
		return http.StatusInternalServerError, "Terjadi kesalahan pada server"
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}
