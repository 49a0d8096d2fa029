package klinik

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/config"
	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// ErrMissingToken is returned when a request is attempted without a session token.
var ErrMissingToken = errors.New("klinik: missing session token")

// APIError is a non-2xx response or an envelope with success=false.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("klinik api error: status=%d path=%s", e.Status, e.Path)
	}
	return fmt.Sprintf("klinik api error: status=%d path=%s message=%s", e.Status, e.Path, e.Message)
}

// Client exposes the read endpoints of the clinic backend used by reporting.
type Client interface {
	ListEmployees(ctx context.Context, token string) ([]models.Employee, error)
	ListActiveEmployees(ctx context.Context, token string) ([]models.Employee, error)
	ListDoctors(ctx context.Context, token string) ([]models.Doctor, error)
	ListAttendance(ctx context.Context, token string) ([]models.AttendanceReport, error)
	ListSalaries(ctx context.Context, token string) ([]models.SalaryReport, error)
	ListDoctorFees(ctx context.Context, token string) ([]models.DoctorFeeReport, error)
	ListExpenses(ctx context.Context, token string) ([]models.ExpenseReport, error)
	ListTreatments(ctx context.Context, token string) ([]models.TreatmentReport, error)
	ListSales(ctx context.Context, token string) ([]models.SalesReport, error)
	ListFieldTripSales(ctx context.Context, token string) ([]models.FieldTripSaleReport, error)
}

// APIClient is a resty-backed implementation of Client. The bearer token is
// supplied per call because it belongs to the dashboard user.
type APIClient struct {
	httpClient *resty.Client
	loc        *time.Location
	logger     *zap.Logger
}

// NewClient builds a backend client from configuration.
func NewClient(cfg config.KlinikConfig, loc *time.Location, logger *zap.Logger) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.ServerURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &APIClient{
		httpClient: restyClient,
		loc:        loc,
		logger:     logger,
	}
}

// envelope is the common {success, <plural>: [...], error} response.
type envelope map[string]json.RawMessage

func (c *APIClient) get(ctx context.Context, token, path string) (envelope, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	body := envelope{}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&body).
		SetError(&body).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}

	c.logger.Debug("klinik response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.StatusCode(), Path: path, Message: body.message()}
	}
	if !body.success() {
		return nil, &APIError{Status: resp.StatusCode(), Path: path, Message: body.message()}
	}
	return body, nil
}

func (e envelope) success() bool {
	raw, ok := e["success"]
	if !ok {
		// Older endpoints omit the flag on success.
		return true
	}
	var v bool
	return json.Unmarshal(raw, &v) == nil && v
}

func (e envelope) message() string {
	for _, key := range []string{"error", "message"} {
		var s string
		if raw, ok := e[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

// getList fetches path and decodes the first list found under keys.
func getList[T any](ctx context.Context, c *APIClient, token, path string, keys ...string) ([]T, error) {
	body, err := c.get(ctx, token, path)
	if err != nil {
		return nil, err
	}
	for _, key := range append(keys, "data") {
		raw, ok := body[key]
		if !ok || string(raw) == "null" {
			continue
		}
		var out []T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s.%s: %w", path, key, err)
		}
		return out, nil
	}
	return nil, nil
}

func (c *APIClient) ListEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	return c.employees(ctx, token, "/employees")
}

func (c *APIClient) ListActiveEmployees(ctx context.Context, token string) ([]models.Employee, error) {
	return c.employees(ctx, token, "/employees/active")
}

func (c *APIClient) employees(ctx context.Context, token, path string) ([]models.Employee, error) {
	raw, err := getList[models.RawEmployee](ctx, c, token, path, "employees")
	if err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeEmployee(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListDoctors(ctx context.Context, token string) ([]models.Doctor, error) {
	raw, err := getList[models.RawDoctor](ctx, c, token, "/doctors", "doctors")
	if err != nil {
		return nil, err
	}
	out := make([]models.Doctor, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeDoctor(r))
	}
	return out, nil
}

func (c *APIClient) ListAttendance(ctx context.Context, token string) ([]models.AttendanceReport, error) {
	raw, err := getList[models.RawAttendance](ctx, c, token, "/attendance", "attendance", "attendances")
	if err != nil {
		return nil, err
	}
	out := make([]models.AttendanceReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeAttendance(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListSalaries(ctx context.Context, token string) ([]models.SalaryReport, error) {
	raw, err := getList[models.RawSalary](ctx, c, token, "/salary", "salaries", "salary")
	if err != nil {
		return nil, err
	}
	out := make([]models.SalaryReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeSalary(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListDoctorFees(ctx context.Context, token string) ([]models.DoctorFeeReport, error) {
	raw, err := getList[models.RawDoctorFee](ctx, c, token, "/doctor-fees", "doctorFees", "fees")
	if err != nil {
		return nil, err
	}
	out := make([]models.DoctorFeeReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeDoctorFee(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListExpenses(ctx context.Context, token string) ([]models.ExpenseReport, error) {
	raw, err := getList[models.RawExpense](ctx, c, token, "/expenses", "expenses")
	if err != nil {
		return nil, err
	}
	out := make([]models.ExpenseReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeExpense(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListTreatments(ctx context.Context, token string) ([]models.TreatmentReport, error) {
	raw, err := getList[models.RawTreatment](ctx, c, token, "/treatments", "treatments")
	if err != nil {
		return nil, err
	}
	out := make([]models.TreatmentReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeTreatment(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListSales(ctx context.Context, token string) ([]models.SalesReport, error) {
	raw, err := getList[models.RawSale](ctx, c, token, "/sales", "sales")
	if err != nil {
		return nil, err
	}
	out := make([]models.SalesReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeSale(r, c.loc))
	}
	return out, nil
}

func (c *APIClient) ListFieldTripSales(ctx context.Context, token string) ([]models.FieldTripSaleReport, error) {
	raw, err := getList[models.RawFieldTripSale](ctx, c, token, "/field-trip-sales", "fieldTripSales", "sales")
	if err != nil {
		return nil, err
	}
	out := make([]models.FieldTripSaleReport, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.NormalizeFieldTripSale(r, c.loc))
	}
	return out, nil
}
