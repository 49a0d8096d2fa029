package documents

import (
	"context"
	"strings"
	"sync"
)

// PreviewState is closed until data is staged with Show.
type PreviewState string

const (
	PreviewClosed PreviewState = "closed"
	PreviewOpen   PreviewState = "open"
)

const (
	zoomMin     = 50
	zoomMax     = 150
	zoomStep    = 10
	zoomDefault = 100
)

// ConfirmFunc performs the print staged in a preview.
type ConfirmFunc func(ctx context.Context) (*PrintResult, error)

// PreviewData is staged by Show.
type PreviewData struct {
	Title       string
	Content     string
	RecordCount int
	OnConfirm   ConfirmFunc
}

// PreviewSnapshot is a read-only view of a preview.
type PreviewSnapshot struct {
	State       PreviewState `json:"state"`
	Title       string       `json:"title,omitempty"`
	Content     string       `json:"content,omitempty"`
	RecordCount int          `json:"recordCount"`
	Zoom        int          `json:"zoom"`
}

// Key is a keyboard event delivered to an open preview.
type Key struct {
	Name string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

func (k Key) modified() bool { return k.Ctrl || k.Meta }

// Preview holds the staged print of one dialog. Safe for concurrent use.
type Preview struct {
	mu    sync.Mutex
	state PreviewState
	data  PreviewData
	zoom  int
	// gen changes on every Show/Close so a slow confirm cannot close a
	// preview that was re-staged meanwhile.
	gen uint64
}

// NewPreview returns a closed preview.
func NewPreview() *Preview {
	return &Preview{state: PreviewClosed, zoom: zoomDefault}
}

// Show stages data and opens the preview at the default zoom.
func (p *Preview) Show(data PreviewData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
	p.state = PreviewOpen
	p.zoom = zoomDefault
	p.gen++
}

// Close discards staged data.
func (p *Preview) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Preview) closeLocked() {
	p.data = PreviewData{}
	p.state = PreviewClosed
	p.gen++
}

// Confirm runs the staged callback. The preview closes when the callback
// succeeds and stays open on failure so the user can retry.
func (p *Preview) Confirm(ctx context.Context) (*PrintResult, error) {
	p.mu.Lock()
	if p.state != PreviewOpen {
		p.mu.Unlock()
		return nil, ErrPreviewClosed
	}
	confirm, gen := p.data.OnConfirm, p.gen
	p.mu.Unlock()

	if confirm == nil {
		p.Close()
		return nil, nil
	}

	res, err := confirm(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.gen == gen {
		p.closeLocked()
	}
	p.mu.Unlock()
	return res, nil
}

// HandleKey applies a dialog shortcut: Escape closes, Ctrl/Cmd with + or -
// zooms, Ctrl/Cmd+0 resets zoom and Ctrl/Cmd+Enter confirms. Keys are
// ignored while the preview is closed. A result is only returned for a
// confirm.
func (p *Preview) HandleKey(ctx context.Context, k Key) (*PrintResult, error) {
	p.mu.Lock()
	if p.state != PreviewOpen {
		p.mu.Unlock()
		return nil, nil
	}

	name := strings.ToLower(k.Name)
	switch {
	case name == "escape" || name == "esc":
		p.closeLocked()
	case k.modified() && (name == "+" || name == "=" || name == "plus"):
		p.zoom = min(p.zoom+zoomStep, zoomMax)
	case k.modified() && (name == "-" || name == "minus"):
		p.zoom = max(p.zoom-zoomStep, zoomMin)
	case k.modified() && name == "0":
		p.zoom = zoomDefault
	case k.modified() && name == "enter":
		p.mu.Unlock()
		return p.Confirm(ctx)
	}
	p.mu.Unlock()
	return nil, nil
}

// Snapshot returns the current state.
func (p *Preview) Snapshot() PreviewSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PreviewSnapshot{
		State:       p.state,
		Title:       p.data.Title,
		Content:     p.data.Content,
		RecordCount: p.data.RecordCount,
		Zoom:        p.zoom,
	}
}
