package documents

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExportCSV writes the table of doc as UTF-8 CSV: one header row of column
// titles followed by one row per record. Fields are quoted as needed.
func ExportCSV(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeEmptyDocument, "document is nil", nil)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(doc.Header()); err != nil {
		return nil, NewRenderError(ErrCodeExportFailed, "failed to write csv header", err)
	}
	for _, row := range doc.Rows {
		if err := w.Write(rowValues(row)); err != nil {
			return nil, NewRenderError(ErrCodeExportFailed, "failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, NewRenderError(ErrCodeExportFailed, "failed to flush csv", err)
	}
	return buf.Bytes(), nil
}

func rowValues(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Raw
	}
	return out
}

// Slug lowercases title, strips diacritics and joins the remaining words
// with underscores.
func Slug(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}
	plain = cases.Lower(language.Indonesian).String(plain)

	words := strings.FieldsFunc(plain, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "dokumen"
	}
	return strings.Join(words, "_")
}

// DownloadFilename returns <slug>_<YYYY-MM-DD>.html for a downloaded document.
func DownloadFilename(title string, now time.Time) string {
	return Slug(title) + "_" + now.Format("2006-01-02") + ".html"
}

// CSVFilename mirrors DownloadFilename for CSV exports.
func CSVFilename(title string, now time.Time) string {
	return Slug(title) + "_" + now.Format("2006-01-02") + ".csv"
}

// SheetWriter is the spreadsheet side of ExportToSheet.
type SheetWriter interface {
	ClearRange(ctx context.Context, sheetRange string) error
	WriteRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// ExportToSheet replaces the content of the tab named after the report with
// the title, subtitle, header and rows of doc. It returns the range written.
func ExportToSheet(ctx context.Context, w SheetWriter, doc *Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeEmptyDocument, "document is nil", nil)
	}
	tab := string(doc.Type)
	if tab == "" {
		tab = Slug(doc.Title)
	}
	sheetRange := fmt.Sprintf("'%s'!A1", tab)

	if err := w.ClearRange(ctx, fmt.Sprintf("'%s'!A:Z", tab)); err != nil {
		return "", NewRenderError(ErrCodeExportFailed, "failed to clear sheet "+tab, err)
	}

	rows := make([][]interface{}, 0, len(doc.Rows)+4)
	rows = append(rows, []interface{}{doc.Title}, []interface{}{doc.Subtitle})
	rows = append(rows, toInterfaces(doc.Header()))
	for _, row := range doc.Rows {
		rows = append(rows, toInterfaces(rowValues(row)))
	}
	for _, t := range doc.Totals {
		rows = append(rows, []interface{}{t.Label, t.Text})
	}

	if err := w.WriteRows(ctx, sheetRange, rows); err != nil {
		return "", NewRenderError(ErrCodeExportFailed, "failed to write sheet "+tab, err)
	}

	// The API drops trailing empty rows, so only rows up to the last
	// non-empty one are expected back.
	stored, err := w.ReadRange(ctx, fmt.Sprintf("'%s'!A:Z", tab))
	if err != nil {
		return "", NewRenderError(ErrCodeExportFailed, "failed to verify sheet "+tab, err)
	}
	if want := filledRows(rows); len(stored) != want {
		return "", NewRenderError(ErrCodeExportFailed,
			fmt.Sprintf("sheet %s holds %d rows, expected %d", tab, len(stored), want), nil)
	}
	return sheetRange, nil
}

func filledRows(rows [][]interface{}) int {
	for i := len(rows) - 1; i >= 0; i-- {
		for _, v := range rows[i] {
			if fmt.Sprint(v) != "" {
				return i + 1
			}
		}
	}
	return 0
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
