package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/rsvp/internal/model"
)

// WallClockLayout is how event dates and RSVP deadlines are stored.
const WallClockLayout = "2006-01-02 15:04"

var wallClockInputs = []string{WallClockLayout, "2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"}

// ParseWallClock accepts the stored layout plus the datetime-local and
// date-only forms browsers submit. The result carries no zone and is
// returned in UTC.
func ParseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range wallClockInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NormalizeWallClock parses s and formats it in WallClockLayout.
func NormalizeWallClock(s string) (string, error) {
	t, err := ParseWallClock(s)
	if err != nil {
		return "", err
	}
	return t.Format(WallClockLayout), nil
}

// IsRSVPOpen reports whether guests may still respond. Inactive events are
// closed. Events without a deadline stay open. Deadlines are compared
// against now in UTC at minute precision.
func IsRSVPOpen(e *model.Event, now time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.RSVPDeadline == nil || strings.TrimSpace(*e.RSVPDeadline) == "" {
		return true
	}
	deadline, err := ParseWallClock(*e.RSVPDeadline)
	if err != nil {
		return false
	}
	return deadline.After(now.UTC().Truncate(time.Minute))
}
