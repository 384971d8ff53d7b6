package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/rsvp/internal/model"
)

const (
	calendarProdID   = "-//RSVP Platform//Event Calendar//EN"
	defaultDuration  = 2 * time.Hour
	icsDateTimeFloat = "20060102T150405"
	icsDateTimeUTC   = "20060102T150405Z"
)

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

// Calendar renders e as an iCalendar document with one VEVENT lasting two
// hours and a display alarm one hour before the start. Times are floating
// because event dates carry no zone.
func Calendar(e *model.Event, host string, now time.Time) (string, error) {
	start, err := ParseWallClock(e.Date)
	if err != nil {
		return "", err
	}
	end := start.Add(defaultDuration)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + calendarProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@%s", e.Slug, host),
		"DTSTAMP:" + now.UTC().Format(icsDateTimeUTC),
		"DTSTART:" + start.Format(icsDateTimeFloat),
		"DTEND:" + end.Format(icsDateTimeFloat),
		"SUMMARY:" + icsEscaper.Replace(e.Title),
	}
	if e.ProgramNotes != nil && *e.ProgramNotes != "" {
		lines = append(lines, "DESCRIPTION:"+icsEscaper.Replace(*e.ProgramNotes))
	}
	lines = append(lines,
		"LOCATION:"+icsEscaper.Replace(e.Location),
		"STATUS:CONFIRMED",
		"BEGIN:VALARM",
		"TRIGGER:-PT1H",
		"ACTION:DISPLAY",
		"DESCRIPTION:Event reminder",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(fold(line))
		b.WriteString("\r\n")
	}
	return b.String(), nil
}

// CalendarFilename is the download name for e's calendar file.
func CalendarFilename(e *model.Event) string {
	name := Slugify(e.Title)
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}

// fold splits content lines longer than 75 octets.
func fold(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}
	var b strings.Builder
	n := 0
	for _, r := range line {
		size := len(string(r))
		if n+size > limit {
			b.WriteString("\r\n ")
			n = 1
		}
		b.WriteRune(r)
		n += size
	}
	return b.String()
}
