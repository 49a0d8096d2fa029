package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
)

// DefaultFilters returns the filters a fresh tab starts with.
func (h *ReportHandler) DefaultFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "filters": reporting.DefaultFilters(h.now().In(h.loc))})
}

// GetFilters returns the stored filters of one report tab.
func (h *ReportHandler) GetFilters(c *gin.Context) {
	t, err := reportType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "type": t, "filters": h.book.Get(t)})
}

// DispatchFilter applies one or more filter actions to a report tab.
// The body is a single action or a list of actions.
func (h *ReportHandler) DispatchFilter(c *gin.Context) {
	t, err := reportType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var body struct {
		FilterAction
		Actions []FilterAction `json:"actions"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("invalid filter payload", zap.Error(err))
		badRequest(c, "Format permintaan tidak valid")
		return
	}

	requested := body.Actions
	if body.Action != "" {
		requested = append([]FilterAction{body.FilterAction}, requested...)
	}
	if len(requested) == 0 {
		badRequest(c, "Aksi filter wajib diisi")
		return
	}

	now := h.now().In(h.loc)
	actions := make([]reporting.Action, 0, len(requested))
	for _, r := range requested {
		a, err := r.toAction(h.loc, now)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		actions = append(actions, a)
	}

	filters := h.book.Dispatch(t, actions...)
	c.JSON(http.StatusOK, gin.H{"success": true, "type": t, "filters": filters})
}
