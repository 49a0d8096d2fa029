package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/pkg/printer"
)

// PrintResult is the outcome of a successful print job.
type PrintResult struct {
	Title     string    `json:"title"`
	PDF       []byte    `json:"-"`
	Pages     int       `json:"pages"`
	PrintedAt time.Time `json:"printedAt"`
}

// PrintService writes HTML into a fresh print window, waits for assets to
// load and prints it.
type PrintService struct {
	opener printer.Opener
	delay  time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewPrintService wires a print service. delay is the pause between writing
// the document and printing it.
func NewPrintService(opener printer.Opener, delay time.Duration, logger *zap.Logger) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{opener: opener, delay: delay, logger: logger, now: time.Now}
}

// Print returns ErrPopupBlocked, without printing, when no window can be
// opened. It never panics on a missing window.
func (s *PrintService) Print(ctx context.Context, title, html string) (*PrintResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, NewRenderError(ErrCodeEmptyDocument, "nothing to print", nil)
	}
	if s == nil || s.opener == nil {
		return nil, ErrPopupBlocked
	}

	win, err := s.opener.Open(ctx)
	switch {
	case err != nil && !errors.Is(err, ErrPopupBlocked):
		err = fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	case err == nil && win == nil:
		err = ErrPopupBlocked
	}
	if err != nil {
		s.logger.Warn("print window blocked", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	defer func() {
		if cerr := win.Close(); cerr != nil {
			s.logger.Debug("close print window", zap.Error(cerr))
		}
	}()

	if err := win.Write(ctx, html); err != nil {
		return nil, NewRenderError(ErrCodePrintFailed, "failed to write document", err)
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	pdf, err := win.Print(ctx)
	if err != nil {
		return nil, NewRenderError(ErrCodePrintFailed, "failed to print document", err)
	}

	result := &PrintResult{
		Title:     title,
		PDF:       pdf,
		Pages:     printer.PageCount(pdf),
		PrintedAt: s.now(),
	}
	s.logger.Info("document printed",
		zap.String("title", title),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.Pages),
	)
	return result, nil
}
