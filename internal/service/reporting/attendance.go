package reporting

import (
	"strings"
	"time"

	"github.com/adeka83-arch/systemklinik-sub003/internal/domain/models"
)

const (
	StatusOnTime    = "tepat waktu"
	StatusLate      = "terlambat"
	StatusLeftEarly = "pulang awal"
	StatusUnknown   = "-"
)

type shiftWindow struct {
	latestIn    time.Duration
	earliestOut time.Duration
}

var shiftWindows = map[string]shiftWindow{
	"pagi": {latestIn: 8*time.Hour + 15*time.Minute, earliestOut: 14 * time.Hour},
	"sore": {latestIn: 14*time.Hour + 15*time.Minute, earliestOut: 21 * time.Hour},
}

// AttendanceStatus classifies a check-in or check-out against its shift.
func AttendanceStatus(r models.AttendanceReport) string {
	w, ok := shiftWindows[strings.ToLower(strings.TrimSpace(r.Shift))]
	if !ok {
		return StatusUnknown
	}
	at, ok := clock(r.Time)
	if !ok {
		return StatusUnknown
	}
	switch r.Type {
	case models.CheckOut:
		if at < w.earliestOut {
			return StatusLeftEarly
		}
		return StatusOnTime
	default:
		if at > w.latestIn {
			return StatusLate
		}
		return StatusOnTime
	}
}

// clock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func clock(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"15:04", "15:04:05", "15.04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
		}
	}
	return 0, false
}
