package event

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	icsDateTime = "20060102T150405Z"
	icsDate     = "20060102"
	icsMaxLine  = 75
)

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// FormatICS renders ev as a single-event iCalendar document (RFC 5545).
func FormatICS(ev *Event, stamp time.Time) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(fold(s))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//LAB Member Hub//Events//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("BEGIN:VEVENT")
	line("UID:" + ev.ID + "@memberhub")
	line("DTSTAMP:" + stamp.UTC().Format(icsDateTime))
	if ev.AllDay {
		start := ev.StartsAt.UTC()
		end := ev.EndsAt.UTC()
		if !end.After(start) || sameDay(start, end) {
			end = start.AddDate(0, 0, 1)
		}
		line("DTSTART;VALUE=DATE:" + start.Format(icsDate))
		line("DTEND;VALUE=DATE:" + end.Format(icsDate))
	} else {
		line("DTSTART:" + ev.StartsAt.UTC().Format(icsDateTime))
		line("DTEND:" + ev.EndsAt.UTC().Format(icsDateTime))
	}
	line("SUMMARY:" + icsEscaper.Replace(ev.Title))
	if ev.Description != "" {
		line("DESCRIPTION:" + icsEscaper.Replace(ev.Description))
	}
	if ev.Location != "" {
		line("LOCATION:" + icsEscaper.Replace(ev.Location))
	}
	if ev.HTMLLink != "" {
		line("URL:" + ev.HTMLLink)
	}
	line("END:VEVENT")
	line("END:VCALENDAR")
	return b.String()
}

// fold splits s into 75-octet lines joined by CRLF and a space, never inside a rune.
func fold(s string) string {
	if len(s) <= icsMaxLine {
		return s
	}
	var b strings.Builder
	limit := icsMaxLine
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		// continuation lines lose one octet to the leading space
		limit = icsMaxLine - 1
	}
	b.WriteString(s)
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
