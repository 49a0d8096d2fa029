package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/pkg/clients/klinik"
)

// Notice is a user-facing message about a source that failed to load.
type Notice struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Dataset is everything the reporting tabs read, fetched once per request.
type Dataset struct {
	Doctors   []models.Doctor   `json:"doctors"`
	Employees []models.Employee `json:"employees"`
	models.ReportSet
	Notices []Notice `json:"notices,omitempty"`
}

// Service loads report sources from the clinic backend and derives the
// filtered views and financial summaries.
type Service struct {
	client klinik.Client
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(client klinik.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// LoadDataset fetches doctors first, then every report source concurrently.
// A failing source never aborts the load: it is logged, reported as a
// Notice and left empty. The returned error is only set when ctx is done.
func (s *Service) LoadDataset(ctx context.Context, token string) (*Dataset, error) {
	ds := &Dataset{}
	var mu sync.Mutex

	guard := func(source string, fetch func(ctx context.Context) error) func() error {
		return func() error {
			if err := fetch(ctx); err != nil {
				s.logger.Warn("load report source failed", zap.String("source", source), zap.Error(err))
				mu.Lock()
				ds.Notices = append(ds.Notices, Notice{Source: source, Message: noticeMessage(source, err)})
				mu.Unlock()
			}
			return nil
		}
	}

	// Attendance is joined against doctors, so they load first.
	_ = guard("doctors", func(ctx context.Context) error {
		docs, err := s.client.ListDoctors(ctx, token)
		ds.Doctors = docs
		return err
	})()

	var g errgroup.Group
	g.Go(guard("employees", func(ctx context.Context) error {
		v, err := s.client.ListEmployees(ctx, token)
		ds.Employees = v
		return err
	}))
	g.Go(guard("attendance", func(ctx context.Context) error {
		v, err := s.client.ListAttendance(ctx, token)
		ds.Attendance = attachSpecialization(v, ds.Doctors)
		return err
	}))
	g.Go(guard("salary", func(ctx context.Context) error {
		v, err := s.client.ListSalaries(ctx, token)
		ds.Salaries = v
		return err
	}))
	g.Go(guard("doctor-fees", func(ctx context.Context) error {
		v, err := s.client.ListDoctorFees(ctx, token)
		ds.DoctorFees = v
		return err
	}))
	g.Go(guard("expenses", func(ctx context.Context) error {
		v, err := s.client.ListExpenses(ctx, token)
		ds.Expenses = v
		return err
	}))
	g.Go(guard("treatments", func(ctx context.Context) error {
		v, err := s.client.ListTreatments(ctx, token)
		ds.Treatments = v
		return err
	}))
	g.Go(guard("sales", func(ctx context.Context) error {
		v, err := s.client.ListSales(ctx, token)
		ds.Sales = v
		return err
	}))
	g.Go(guard("field-trip-sales", func(ctx context.Context) error {
		v, err := s.client.ListFieldTripSales(ctx, token)
		ds.FieldTripSales = v
		return err
	}))
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return ds, fmt.Errorf("load dataset: %w", err)
	}

	ds.Salaries = AttachFieldTripBonusLog(ds.Salaries, ds.FieldTripSales)
	ds.Financial = CalculateFinancialData(ds.Treatments, ds.Sales, ds.FieldTripSales, ds.Salaries, ds.DoctorFees, ds.Expenses)

	s.logger.Debug("dataset loaded",
		zap.Int("doctors", len(ds.Doctors)),
		zap.Int("treatments", len(ds.Treatments)),
		zap.Int("sales", len(ds.Sales)),
		zap.Int("notices", len(ds.Notices)),
	)
	return ds, nil
}

// Report returns the filtered view of ds for filters. The financial summary
// is recomputed from the filtered sources.
func (s *Service) Report(ds *Dataset, filters models.ReportFilters) models.ReportSet {
	if ds == nil {
		return models.ReportSet{}
	}
	return ApplyFilters(ds.ReportSet, filters)
}

// ApplyFilters filters every source of set with the same filter value.
func ApplyFilters(set models.ReportSet, f models.ReportFilters) models.ReportSet {
	out := models.ReportSet{
		Attendance:     FilterAttendance(set.Attendance, f),
		Salaries:       FilterSalaries(set.Salaries, f),
		DoctorFees:     FilterDoctorFees(set.DoctorFees, f),
		Expenses:       FilterExpenses(set.Expenses, f),
		Treatments:     FilterTreatments(set.Treatments, f),
		Sales:          FilterSales(set.Sales, f),
		FieldTripSales: FilterFieldTripSales(set.FieldTripSales, f),
	}
	out.Financial = CalculateFinancialData(out.Treatments, out.Sales, out.FieldTripSales, out.Salaries, out.DoctorFees, out.Expenses)
	return out
}

func attachSpecialization(records []models.AttendanceReport, doctors []models.Doctor) []models.AttendanceReport {
	if len(records) == 0 || len(doctors) == 0 {
		return records
	}
	byID := make(map[string]models.Doctor, len(doctors))
	byName := make(map[string]models.Doctor, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d
		byName[strings.ToLower(d.Name)] = d
	}
	for i := range records {
		d, ok := byID[records[i].DoctorID]
		if !ok {
			d, ok = byName[strings.ToLower(records[i].DoctorName)]
		}
		if ok {
			records[i].Specialization = d.Specialization
			if records[i].DoctorID == "" {
				records[i].DoctorID = d.ID
			}
		}
	}
	return records
}

var sourceLabels = map[string]string{
	"doctors":          "data dokter",
	"employees":        "data karyawan",
	"attendance":       "laporan absensi",
	"salary":           "laporan gaji",
	"doctor-fees":      "laporan fee dokter",
	"expenses":         "laporan pengeluaran",
	"treatments":       "laporan tindakan",
	"sales":            "laporan penjualan",
	"field-trip-sales": "laporan field trip",
}

func noticeMessage(source string, err error) string {
	label, ok := sourceLabels[source]
	if !ok {
		label = source
	}
	msg := "Gagal memuat " + label
	if detail := apiMessage(err); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func apiMessage(err error) string {
	var apiErr *klinik.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
