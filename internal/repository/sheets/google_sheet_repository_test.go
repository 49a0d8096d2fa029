package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return &GoogleSheetRepository{service: service, spreadsheetID: "sheet-1", logger: zap.NewNop()}
}

func TestTabName(t *testing.T) {
	tests := map[string]string{
		"'sales'!A1":             "sales",
		"'field-trip-sales'!A:Z": "field-trip-sales",
		"Sheet1!A1:B2":           "Sheet1",
		"A1":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, tabName(in), in)
	}
}

func TestReadRange(t *testing.T) {
	var gotPath string
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"'sales'!A1:B2","values":[["Laporan Penjualan Produk"],["Tanggal","Produk"]]}`))
	})

	rows, err := repo.ReadRange(context.Background(), "'sales'!A:Z")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-1/values/"), gotPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tanggal", rows[1][0])

	_, err = repo.ReadRange(context.Background(), "")
	assert.Error(t, err)
}

func TestReadRangeAPIError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	})

	_, err := repo.ReadRange(context.Background(), "'sales'!A:Z")
	assert.ErrorContains(t, err, "read range 'sales'!A:Z")
}
