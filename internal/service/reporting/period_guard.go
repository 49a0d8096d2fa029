package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

// StateStore persists the last period the reporting filters were set for.
type StateStore interface {
	LoadPeriod(ctx context.Context) (models.Period, bool, error)
	SavePeriod(ctx context.Context, p models.Period) error
}

// PeriodGuard resets the filter book when a month boundary has been crossed
// since the last check.
type PeriodGuard struct {
	store  StateStore
	book   *FilterBook
	loc    *time.Location
	logger *zap.Logger
}

// NewPeriodGuard wires a guard. loc decides which month "now" belongs to.
func NewPeriodGuard(store StateStore, book *FilterBook, loc *time.Location, logger *zap.Logger) *PeriodGuard {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodGuard{store: store, book: book, loc: loc, logger: logger}
}

// Check compares the stored period with now. On a change, or when nothing
// is stored yet, every tab is reset to the defaults for now and the new
// period is persisted. It reports whether a reset happened.
func (g *PeriodGuard) Check(ctx context.Context, now time.Time) (bool, models.ReportFilters, error) {
	now = now.In(g.loc)
	current := models.PeriodOf(now)
	defaults := DefaultFilters(now)

	last, found, err := g.store.LoadPeriod(ctx)
	if err != nil {
		return false, defaults, fmt.Errorf("load last period: %w", err)
	}
	if found && last == current {
		return false, defaults, nil
	}

	if g.book != nil {
		g.book.ResetAll(now)
	}
	if err := g.store.SavePeriod(ctx, current); err != nil {
		return true, defaults, fmt.Errorf("save period: %w", err)
	}

	g.logger.Info("report filters reset for new period",
		zap.String("previous", last.String()),
		zap.String("current", current.String()),
		zap.Bool("first_run", !found),
	)
	return true, defaults, nil
}
