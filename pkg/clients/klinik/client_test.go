package klinik

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeka83-arch/systemklinik-sub003/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.KlinikConfig{ServerURL: srv.URL, Timeout: 2 * time.Second}, time.UTC, nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestListTreatmentsSendsBearerAndNormalizes(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true,"treatments":[
			{"id":"t1","patientName":"Budi","doctorName":"drg. Sari","treatmentName":"Scaling","nominal":"300000","calculatedFee":90000,"date":"2026-10-01"}
		]}`)
	})

	got, err := client.ListTreatments(context.Background(), "session-abc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer session-abc", gotAuth)
	assert.Equal(t, "/treatments", gotPath)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(300000)))
	assert.True(t, got[0].Fee.Equal(decimal.NewFromInt(90000)))
}

func TestEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/employees", "/employees/active":
			writeJSON(w, http.StatusOK, `{"success":true,"employees":[{"id":"e1","name":"Rina","salary":"3000000"}]}`)
		case "/doctors":
			writeJSON(w, http.StatusOK, `{"success":true,"doctors":[{"id":"d1","name":"drg. Sari","specialty":"Orthodonti"}]}`)
		case "/attendance":
			writeJSON(w, http.StatusOK, `{"success":true,"attendance":[{"doctorId":"d1","doctorName":"drg. Sari","shift":"pagi","date":"2026-10-01","type":"check-in","time":"08:00"}]}`)
		case "/salary":
			writeJSON(w, http.StatusOK, `{"success":true,"salaries":[{"employeeName":"Rina","month":10,"year":2026,"baseSalary":3000000}]}`)
		case "/doctor-fees":
			writeJSON(w, http.StatusOK, `{"success":true,"doctorFees":[{"doctorName":"drg. Sari","fee":50000,"sittingFee":100000,"date":"2026-10-01"}]}`)
		case "/expenses":
			writeJSON(w, http.StatusOK, `{"success":true,"expenses":[{"category":"Listrik","amount":400000,"date":"2026-10-02"}]}`)
		case "/sales":
			writeJSON(w, http.StatusOK, `{"success":true,"sales":[{"productName":"Sikat Gigi","quantity":2,"pricePerUnit":25000,"date":"2026-10-03"}]}`)
		case "/field-trip-sales":
			writeJSON(w, http.StatusOK, `{"success":true,"fieldTripSales":[{"customerName":"Bu Dewi","finalAmount":900000,"paymentStatus":"lunas","saleDate":"2026-10-05"}]}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"success":false,"error":"not found"}`)
		}
	})
	ctx := context.Background()

	emps, err := client.ListEmployees(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.True(t, emps[0].BaseSalary.Equal(decimal.NewFromInt(3000000)))

	active, err := client.ListActiveEmployees(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	docs, err := client.ListDoctors(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Orthodonti", docs[0].Specialization)

	att, err := client.ListAttendance(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "08:00", att[0].Time)

	sal, err := client.ListSalaries(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, time.October, sal[0].Month)

	fees, err := client.ListDoctorFees(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, fees[0].FinalFee().Equal(decimal.NewFromInt(100000)))

	exp, err := client.ListExpenses(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Listrik", exp[0].Category)

	sales, err := client.ListSales(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, sales[0].TotalAmount.Equal(decimal.NewFromInt(50000)))

	ft, err := client.ListFieldTripSales(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ft[0].FinalAmount.Equal(decimal.NewFromInt(900000)))
}

func TestErrors(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":"Unauthorized"}`)
		})
		_, err := client.ListSales(context.Background(), "expired")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Unauthorized", apiErr.Message)
	})

	t.Run("success false", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":false,"error":"Gagal memuat data"}`)
		})
		_, err := client.ListExpenses(context.Background(), "tok")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Gagal memuat data", apiErr.Message)
	})

	t.Run("missing token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request must not be sent")
		})
		_, err := client.ListDoctors(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("transport failure", func(t *testing.T) {
		client := NewClient(config.KlinikConfig{ServerURL: "http://127.0.0.1:1", Timeout: time.Second}, time.UTC, nil)
		_, err := client.ListDoctors(context.Background(), "tok")
		require.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("empty list", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"success":true}`)
		})
		got, err := client.ListSales(context.Background(), "tok")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
