package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeka83-arch/systemklinik-sub003/internal/service/documents"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/clients/klinik"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{klinik.ErrMissingToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: x", errInvalidReportType), http.StatusBadRequest},
		{fmt.Errorf("build: %w", documents.ErrUnknownReportType), http.StatusBadRequest},
		{fmt.Errorf("%w: chrome missing", documents.ErrPopupBlocked), http.StatusConflict},
		{documents.ErrPreviewClosed, http.StatusConflict},
		{documents.ErrPreviewNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{&klinik.APIError{Status: http.StatusUnauthorized, Path: "/sales"}, http.StatusUnauthorized},
		{&klinik.APIError{Status: http.StatusInternalServerError, Path: "/sales"}, http.StatusBadGateway},
		{documents.NewRenderError(documents.ErrCodeTemplateExecute, "x", nil), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, msg := statusFor(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestFilterActionToAction(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	a, err := FilterAction{Action: "dateRange", StartDate: "2026-10-31", EndDate: "2026-10-01"}.toAction(time.UTC, now)
	require.NoError(t, err)
	f := reporting.Reduce(reporting.DefaultFilters(now), a)
	// reversed bounds are swapped by the reducer
	assert.Equal(t, 1, f.StartDate.Day())
	assert.Equal(t, 31, f.EndDate.Day())

	a, err = FilterAction{Action: "search", Field: "searchProduct", Value: " sikat "}.toAction(time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, "sikat", reporting.Reduce(f, a).SearchProduct)

	_, err = FilterAction{Action: "search", Field: "searchNothing"}.toAction(time.UTC, now)
	assert.Error(t, err)
	_, err = FilterAction{Action: "date", Value: "kemarin"}.toAction(time.UTC, now)
	assert.Error(t, err)
	_, err = FilterAction{Action: "unknown"}.toAction(time.UTC, now)
	assert.Error(t, err)
}

func TestQueryActions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reports/sales?month=9&year=2026&doctorId=d1&searchCategory=obat", nil)

	actions, err := queryActions(c, time.UTC)
	require.NoError(t, err)

	f := reporting.DefaultFilters(time.Now())
	for _, a := range actions {
		f = reporting.Reduce(f, a)
	}
	assert.Equal(t, "9", f.Month)
	assert.Equal(t, "2026", f.Year)
	assert.Equal(t, "d1", f.SelectedDoctorID)
	assert.Equal(t, "obat", f.SearchCategory)
}

func TestFiltersBodyDates(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	tests := []struct {
		name      string
		payload   string
		wantStart time.Time
		wantEnd   time.Time
		wantDate  time.Time
		wantErr   bool
	}{
		{
			name:      "day format",
			payload:   `{"month":"all","startDate":"2026-10-01","endDate":"2026-10-31"}`,
			wantStart: time.Date(2026, 10, 1, 0, 0, 0, 0, jakarta),
			wantEnd:   time.Date(2026, 10, 31, 0, 0, 0, 0, jakarta),
		},
		{
			name:    "empty values are unset",
			payload: `{"startDate":"","endDate":"","date":""}`,
		},
		{
			name:    "zero time echoed from filters",
			payload: `{"startDate":"0001-01-01T00:00:00Z","date":"0001-01-01T00:00:00Z"}`,
		},
		{
			name:     "rfc3339 in clinic zone",
			payload:  `{"date":"2026-10-15T20:00:00Z"}`,
			wantDate: time.Date(2026, 10, 16, 0, 0, 0, 0, jakarta),
		},
		{
			name:      "reversed range",
			payload:   `{"startDate":"2026-10-31","endDate":"2026-10-01"}`,
			wantStart: time.Date(2026, 10, 1, 0, 0, 0, 0, jakarta),
			wantEnd:   time.Date(2026, 10, 31, 0, 0, 0, 0, jakarta),
		},
		{name: "bad date", payload: `{"date":"16-10-2026"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body filtersBody
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &body))

			f, err := body.toFilters(jakarta)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(f.StartDate), "start %s", f.StartDate)
			assert.True(t, tt.wantEnd.Equal(f.EndDate), "end %s", f.EndDate)
			assert.True(t, tt.wantDate.Equal(f.Date), "date %s", f.Date)
		})
	}

	var body filtersBody
	require.NoError(t, json.Unmarshal([]byte(`{"month":"9","searchProduct":"sikat"}`), &body))
	f, err := body.toFilters(jakarta)
	require.NoError(t, err)
	assert.Equal(t, "9", f.Month)
	assert.Equal(t, "sikat", f.SearchProduct)
}
