package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/config"
	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/repository/mongodb"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
)

const previewSweepSpec = "@every 5m"

// PeriodChecker resets report filters when the month changes.
type PeriodChecker interface {
	Check(ctx context.Context, now time.Time) (bool, models.ReportFilters, error)
}

// DatasetLoader fetches every report source from the clinic backend.
type DatasetLoader interface {
	LoadDataset(ctx context.Context, token string) (*reporting.Dataset, error)
}

// SnapshotStore persists monthly financial snapshots.
type SnapshotStore interface {
	SaveFinancialSnapshot(ctx context.Context, snapshot mongodb.FinancialSnapshot) error
}

// PreviewSweeper drops abandoned print previews.
type PreviewSweeper interface {
	Sweep() int
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	guard     PeriodChecker
	loader    DatasetLoader
	snapshots SnapshotStore
	previews  PreviewSweeper
	cfg       config.Config
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. loader, snapshots and
// previews may be nil, which disables the matching job.
func NewScheduler(cfg config.Config, guard PeriodChecker, loader DatasetLoader, snapshots SnapshotStore, previews PreviewSweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Clinic.Location()

	// Standard 5-field parser evaluated in the clinic time zone.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		guard:     guard,
		loader:    loader,
		snapshots: snapshots,
		previews:  previews,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("period_check", s.cfg.Jobs.PeriodCheckCron),
		zap.String("snapshot", s.cfg.Jobs.SnapshotCron),
	)

	if s.guard != nil {
		if _, err := s.cron.AddFunc(s.cfg.Jobs.PeriodCheckCron, s.checkPeriod); err != nil {
			s.logger.Error("failed to schedule period check", zap.Error(err))
		}
	}

	if s.loader != nil && s.snapshots != nil && s.cfg.Jobs.SnapshotCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.Jobs.SnapshotCron, s.takeSnapshot); err != nil {
			s.logger.Error("failed to schedule financial snapshot", zap.Error(err))
		}
	}

	if s.previews != nil {
		if _, err := s.cron.AddFunc(previewSweepSpec, s.sweepPreviews); err != nil {
			s.logger.Error("failed to schedule preview sweep", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) checkPeriod() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.RunPeriodCheck(ctx); err != nil {
		s.logger.Error("period check failed", zap.Error(err))
	}
}

// RunPeriodCheck runs the month boundary check once.
func (s *Scheduler) RunPeriodCheck(ctx context.Context) (bool, error) {
	reset, filters, err := s.guard.Check(ctx, s.now())
	if err != nil {
		return reset, err
	}
	if reset {
		s.logger.Info("report filters reset for new period",
			zap.String("month", filters.Month),
			zap.String("year", filters.Year),
		)
	}
	return reset, nil
}

func (s *Scheduler) takeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.RunSnapshot(ctx); err != nil {
		s.logger.Error("failed to save financial snapshot", zap.Error(err))
	}
}

// RunSnapshot stores the financial summaries as of now, tagged with the
// month that just closed. It is skipped without a service token.
func (s *Scheduler) RunSnapshot(ctx context.Context) error {
	token := s.cfg.Klinik.ServiceToken
	if token == "" {
		s.logger.Warn("financial snapshot skipped: KLINIK_SERVICE_TOKEN is not set")
		return nil
	}

	ds, err := s.loader.LoadDataset(ctx, token)
	if err != nil {
		return err
	}
	for _, n := range ds.Notices {
		s.logger.Warn("snapshot source degraded", zap.String("source", n.Source), zap.String("message", n.Message))
	}

	now := s.now().In(s.loc)
	snapshot := mongodb.FinancialSnapshot{
		Period:      models.PeriodOf(now).Previous(),
		GeneratedAt: now,
		Summaries:   ds.Financial,
	}
	if err := s.snapshots.SaveFinancialSnapshot(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("financial snapshot saved",
		zap.String("period", snapshot.Period.String()),
		zap.Int("summaries", len(snapshot.Summaries)),
	)
	return nil
}

func (s *Scheduler) sweepPreviews() {
	if n := s.previews.Sweep(); n > 0 {
		s.logger.Debug("previews swept", zap.Int("removed", n))
	}
}
