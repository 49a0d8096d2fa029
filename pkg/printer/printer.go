// Package printer opens print targets for rendered HTML documents.
package printer

import (
	"context"
	"errors"
	"regexp"
)

// ErrPopupBlocked means no print window could be opened.
var ErrPopupBlocked = errors.New("print window blocked")

// Window is an opened print target.
type Window interface {
	// Write replaces the window content with html.
	Write(ctx context.Context, html string) error
	// Print renders the current content and returns the PDF bytes.
	Print(ctx context.Context) ([]byte, error)
	Close() error
}

// Opener opens print windows. Implementations may return a nil Window
// without an error; callers treat that as a blocked popup.
type Opener interface {
	Open(ctx context.Context) (Window, error)
}

// pageObject matches page dictionaries written with or without a space
// after /Type, but not the /Pages tree node.
var pageObject = regexp.MustCompile(`/Type\s*/Page\b`)

// PageCount estimates the number of pages in a PDF.
func PageCount(pdf []byte) int {
	return max(len(pageObject.FindAllIndex(pdf, -1)), 1)
}
