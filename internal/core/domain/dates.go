package domain

import (
	"math"
	"time"
)

// DateKind tags the date-model generation a bulletin carries.
type DateKind int

const (
	DateNone DateKind = iota
	DateLegacy
	DateDeadline
	DateEvent
	DateRange
)

// DateInfo is the normalized view over the three historical date shapes.
// Exactly one Kind applies; Date holds the deadline or event date,
// Start/End the range bounds.
type DateInfo struct {
	Kind      DateKind
	Date      string
	Start     string
	End       string
	StartTime string
	EndTime   string
	Location  EventLocation
}

// DateInfoOf resolves which date generation drives a bulletin. The
// DateType-driven fields win over a bare legacy deadline; the legacy
// deadline only applies when no newer structure is present.
func DateInfoOf(b *Bulletin) DateInfo {
	switch b.DateType {
	case DateTypeDeadline:
		if b.EventDate != "" {
			return DateInfo{Kind: DateDeadline, Date: b.EventDate}
		}
	case DateTypeEvent:
		if b.EventDate != "" {
			return DateInfo{
				Kind:      DateEvent,
				Date:      b.EventDate,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Location:  b.EventLocation,
			}
		}
	case DateTypeRange:
		if b.StartDate != "" && b.EndDate != "" {
			return DateInfo{
				Kind:      DateRange,
				Start:     b.StartDate,
				End:       b.EndDate,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
				Location:  b.EventLocation,
			}
		}
	}
	if b.Deadline != "" {
		return DateInfo{Kind: DateLegacy, Date: b.Deadline}
	}
	return DateInfo{Kind: DateNone}
}

// MirrorDeadline derives the backward-compatible deadline string for the
// active date model: event and deadline kinds mirror the event date, ranges
// mirror their start date.
func (d DateInfo) MirrorDeadline() string {
	switch d.Kind {
	case DateLegacy, DateDeadline, DateEvent:
		return d.Date
	case DateRange:
		return d.Start
	}
	return ""
}

// SyncDeadline refreshes the mirrored legacy deadline field from the
// newer date structure. A bulletin carrying only a legacy deadline keeps it.
func (b *Bulletin) SyncDeadline() {
	info := DateInfoOf(b)
	if info.Kind == DateNone || info.Kind == DateLegacy {
		return
	}
	b.Deadline = info.MirrorDeadline()
}

// ParseLocalDate interprets a bare YYYY-MM-DD string at local midnight.
// Date-only strings must never go through UTC parsing: in negative-offset
// timezones that shifts the displayed day backwards.
func ParseLocalDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseLocalDateTime combines a YYYY-MM-DD date with an HH:MM time of day.
func parseLocalDateTime(date, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// endOfDay returns the first instant after the named calendar day.
func endOfDay(date string) (time.Time, bool) {
	t, ok := ParseLocalDate(date)
	if !ok {
		return time.Time{}, false
	}
	return t.AddDate(0, 0, 1), true
}

// IsExpired reports whether a bulletin's relevant date has passed at now.
// Evaluation order: event date with an end time expires at that exact
// instant; a dated bulletin without one expires at the end of its calendar
// day; ranges expire at the end of their end date; the legacy deadline is
// treated as end-of-day. A bulletin with no date information never expires.
func IsExpired(b *Bulletin, now time.Time) bool {
	info := DateInfoOf(b)
	switch info.Kind {
	case DateLegacy, DateDeadline:
		if end, ok := endOfDay(info.Date); ok {
			return !now.Before(end)
		}
	case DateEvent:
		if info.EndTime != "" {
			if at, ok := parseLocalDateTime(info.Date, info.EndTime); ok {
				return now.After(at)
			}
		}
		if end, ok := endOfDay(info.Date); ok {
			return !now.Before(end)
		}
	case DateRange:
		if end, ok := endOfDay(info.End); ok {
			return !now.Before(end)
		}
	}
	return false
}

// IsDeadlineClose reports whether a date falls within the next seven days.
// Used for "due soon" styling only, never for filtering.
func IsDeadlineClose(date string, now time.Time) bool {
	t, ok := ParseLocalDate(date)
	if !ok {
		return false
	}
	days := int(math.Ceil(t.Sub(now).Hours() / 24))
	return days >= 0 && days <= 7
}

// FormatDate renders a YYYY-MM-DD string for display, anchored at local
// midnight so the shown day matches the stored day in every timezone.
func FormatDate(date string) string {
	t, ok := ParseLocalDate(date)
	if !ok {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatClock renders an HH:MM string as a 12-hour clock time.
func FormatClock(clock string) string {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// PrimaryDisplayDate picks the calendar-placement date for a bulletin:
// event date first, then range start, then deadline. The result is anchored
// at local noon to stay inside the right day under DST shifts.
func PrimaryDisplayDate(b *Bulletin) (time.Time, bool) {
	info := DateInfoOf(b)
	var date string
	switch info.Kind {
	case DateEvent, DateDeadline, DateLegacy:
		date = info.Date
	case DateRange:
		date = info.Start
	default:
		return time.Time{}, false
	}
	t, ok := parseLocalDateTime(date, "12:00")
	if !ok {
		return time.Time{}, false
	}
	return t, true
}
