package printer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second

	// A4 in inches, the unit Chrome expects.
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 10 / 25.4
)

// ChromeConfig configures the headless browser.
type ChromeConfig struct {
	// RemoteURL points at a running Chrome DevTools endpoint. When empty a
	// local browser is launched.
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
	Logger    *zap.Logger
}

// ChromeOpener opens one browser tab per print job.
type ChromeOpener struct {
	cfg         ChromeConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeOpener prepares the browser allocator. No browser is started
// until the first Open.
func NewChromeOpener(cfg ChromeConfig) *ChromeOpener {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &ChromeOpener{cfg: cfg, logger: logger}
	if cfg.RemoteURL != "" {
		o.allocCtx, o.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return o
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	o.allocCtx, o.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return o
}

// Open starts a blank tab. Any failure to start it is reported as
// ErrPopupBlocked.
func (o *ChromeOpener) Open(ctx context.Context) (Window, error) {
	tabCtx, cancel := chromedp.NewContext(o.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			o.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	err := chromedp.Run(tabCtx, bounded(ctx, o.cfg.Timeout, chromedp.Navigate("about:blank")))
	if err != nil {
		cancel()
		o.logger.Warn("chrome tab could not be opened", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPopupBlocked, err)
	}

	return &chromeWindow{ctx: tabCtx, cancel: cancel, timeout: o.cfg.Timeout}, nil
}

// Close shuts the browser down.
func (o *ChromeOpener) Close() error {
	if o.allocCancel != nil {
		o.allocCancel()
	}
	return nil
}

type chromeWindow struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (w *chromeWindow) run(ctx context.Context, action chromedp.Action) error {
	return chromedp.Run(w.ctx, bounded(ctx, w.timeout, action))
}

// bounded runs action on the tab executor under a context that expires after
// timeout or when caller is done, so the CDP calls themselves are cancelled.
func bounded(caller context.Context, timeout time.Duration, action chromedp.Action) chromedp.Action {
	return chromedp.ActionFunc(func(c context.Context) error {
		actCtx, cancel := context.WithTimeout(c, timeout)
		defer cancel()
		stop := context.AfterFunc(caller, cancel)
		defer stop()

		err := action.Do(actCtx)
		if err != nil && actCtx.Err() != nil {
			if cerr := caller.Err(); cerr != nil {
				return cerr
			}
			return actCtx.Err()
		}
		return err
	})
}

func (w *chromeWindow) Write(ctx context.Context, html string) error {
	err := w.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		tree, err := page.GetFrameTree().Do(c)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(c)
	}))
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (w *chromeWindow) Print(ctx context.Context) ([]byte, error) {
	var pdf []byte
	err := w.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			WithMarginTop(margin).
			WithMarginBottom(margin).
			WithMarginLeft(margin).
			WithMarginRight(margin).
			WithPreferCSSPageSize(true).
			Do(c)
		if err != nil {
			return err
		}
		pdf = data
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

func (w *chromeWindow) Close() error {
	w.cancel()
	return nil
}

var _ Opener = (*ChromeOpener)(nil)
