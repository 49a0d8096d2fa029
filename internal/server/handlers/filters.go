package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
	"github.com/adeka83-arch/systemklinik-sub003/internal/service/reporting"
)

const dateLayout = "2006-01-02"

// FilterAction is the body of POST /api/filters/:type.
type FilterAction struct {
	Action    string `json:"action"`
	Value     string `json:"value"`
	ID        string `json:"id"`
	Field     string `json:"field"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// toAction converts a request body into a reducer action.
func (a FilterAction) toAction(loc *time.Location, now time.Time) (reporting.Action, error) {
	switch strings.ToLower(strings.TrimSpace(a.Action)) {
	case "month":
		return reporting.SetMonth{Month: a.Value}, nil
	case "year":
		return reporting.SetYear{Year: a.Value}, nil
	case "daterange", "date-range":
		start, err := parseDay(a.StartDate, loc)
		if err != nil {
			return nil, err
		}
		end, err := parseDay(a.EndDate, loc)
		if err != nil {
			return nil, err
		}
		return reporting.SetDateRange{Start: start, End: end}, nil
	case "date":
		d, err := parseDay(a.Value, loc)
		if err != nil {
			return nil, err
		}
		return reporting.SetDate{Date: d}, nil
	case "doctor":
		return reporting.SetDoctor{ID: a.ID, Name: a.Value}, nil
	case "employee":
		return reporting.SetEmployee{Name: a.Value}, nil
	case "shift":
		return reporting.SetShift{Shift: a.Value}, nil
	case "type":
		return reporting.SetType{Type: a.Value}, nil
	case "search":
		field := reporting.SearchAll
		if a.Field != "" {
			f, err := reporting.ParseSearchField(a.Field)
			if err != nil {
				return nil, err
			}
			field = f
		}
		return reporting.SetSearch{Field: field, Query: a.Value}, nil
	case "reset":
		return reporting.Reset{Now: now}, nil
	default:
		return nil, fmt.Errorf("unknown filter action %q", a.Action)
	}
}

// queryActions turns report query parameters into reducer actions applied on
// top of the stored tab filters. Month and year come first because they
// clear any date selection.
func queryActions(c *gin.Context, loc *time.Location) ([]reporting.Action, error) {
	var actions []reporting.Action

	if v, ok := c.GetQuery("month"); ok {
		actions = append(actions, reporting.SetMonth{Month: v})
	}
	if v, ok := c.GetQuery("year"); ok {
		actions = append(actions, reporting.SetYear{Year: v})
	}

	start, end := c.Query("startDate"), c.Query("endDate")
	if start != "" || end != "" {
		if start == "" || end == "" {
			return nil, fmt.Errorf("startDate and endDate must be provided together")
		}
		s, err := parseDay(start, loc)
		if err != nil {
			return nil, err
		}
		e, err := parseDay(end, loc)
		if err != nil {
			return nil, err
		}
		actions = append(actions, reporting.SetDateRange{Start: s, End: e})
	}
	if v := c.Query("date"); v != "" {
		d, err := parseDay(v, loc)
		if err != nil {
			return nil, err
		}
		actions = append(actions, reporting.SetDate{Date: d})
	}

	id, hasID := c.GetQuery("doctorId")
	name, hasName := c.GetQuery("doctor")
	if hasID || hasName {
		actions = append(actions, reporting.SetDoctor{ID: id, Name: name})
	}
	if v, ok := c.GetQuery("employee"); ok {
		actions = append(actions, reporting.SetEmployee{Name: v})
	}
	if v, ok := c.GetQuery("shift"); ok {
		actions = append(actions, reporting.SetShift{Shift: v})
	}
	if v, ok := c.GetQuery("type"); ok {
		actions = append(actions, reporting.SetType{Type: v})
	}
	for _, field := range reporting.SearchFields {
		if v, ok := c.GetQuery(string(field)); ok {
			actions = append(actions, reporting.SetSearch{Field: field, Query: v})
		}
	}
	return actions, nil
}

// filtersBody is a full filter set sent by the dashboard. Dates travel as
// YYYY-MM-DD and may be empty; the string fields shadow the time fields of
// the embedded filters.
type filtersBody struct {
	models.ReportFilters
	Date      string `json:"date"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (b filtersBody) toFilters(loc *time.Location) (models.ReportFilters, error) {
	f := b.ReportFilters
	var err error
	if f.Date, err = parseOptionalDay(b.Date, loc); err != nil {
		return f, err
	}
	if f.StartDate, err = parseOptionalDay(b.StartDate, loc); err != nil {
		return f, err
	}
	if f.EndDate, err = parseOptionalDay(b.EndDate, loc); err != nil {
		return f, err
	}
	if f.HasDateRange() && f.EndDate.Before(f.StartDate) {
		f.StartDate, f.EndDate = f.EndDate, f.StartDate
	}
	return f, nil
}

// parseOptionalDay accepts an empty value, YYYY-MM-DD, or an RFC3339 value
// as echoed back from GET /api/filters, where the zero time means unset.
func parseOptionalDay(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if len(v) > len(dateLayout) {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
		}
		if t.IsZero() {
			return time.Time{}, nil
		}
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	return parseDay(v, loc)
}

func parseDay(v string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(v), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return t, nil
}

func reportType(c *gin.Context) (models.ReportType, error) {
	t, err := models.ParseReportType(c.Param("type"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidReportType, err)
	}
	return t, nil
}
