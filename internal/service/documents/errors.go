package documents

import (
	"errors"

	"github.com/adeka83-arch/systemklinik-sub003/pkg/printer"
)

var (
	// ErrUnknownReportType is returned for a report tag no builder handles.
	ErrUnknownReportType = errors.New("unknown report type")
	// ErrPopupBlocked is returned when no print window could be opened.
	ErrPopupBlocked = printer.ErrPopupBlocked
	// ErrPreviewClosed is returned when confirming a preview that is not open.
	ErrPreviewClosed = errors.New("preview is closed")
	// ErrPreviewNotFound is returned for an unknown or expired preview id.
	ErrPreviewNotFound = errors.New("preview not found")
)

// Error codes carried by RenderError.
const (
	ErrCodeTemplateParse   = "TEMPLATE_PARSE"
	ErrCodeTemplateExecute = "TEMPLATE_EXECUTE"
	ErrCodeEmptyDocument   = "EMPTY_DOCUMENT"
	ErrCodePrintFailed     = "PRINT_FAILED"
	ErrCodeExportFailed    = "EXPORT_FAILED"
)

// RenderError describes a failure while turning a document into output.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError.
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
