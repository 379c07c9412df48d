package render

import (
	"strings"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// dateInfoBlock renders the date line for whichever date-model generation
// the bulletin carries.
func dateInfoBlock(b *domain.Bulletin, opts Options) string {
	info := domain.DateInfoOf(b)

	switch info.Kind {
	case domain.DateDeadline:
		return deadlineLine("Application Deadline", info.Date, opts)
	case domain.DateLegacy:
		return deadlineLine("Deadline", info.Date, opts)
	case domain.DateEvent:
		var sb strings.Builder
		sb.WriteString(`<div class="date-info"><strong>Event Date:</strong> `)
		span := domain.FormatDate(info.Date)
		if t := timeInfo(info); t != "" {
			span += " at " + t
		}
		if domain.IsDeadlineClose(info.Date, opts.Now) {
			sb.WriteString(`<span class="deadline-warning">` + escape(span) + ` (Soon!)</span>`)
		} else {
			sb.WriteString(escape(span))
		}
		sb.WriteString(locationBadge(info.Location))
		sb.WriteString(`</div>`)
		return sb.String()
	case domain.DateRange:
		var sb strings.Builder
		sb.WriteString(`<div class="date-info"><strong>Event Dates:</strong> `)
		span := domain.FormatDate(info.Start) + " – " + domain.FormatDate(info.End)
		if t := timeInfo(info); t != "" {
			span += " at " + t
		}
		sb.WriteString(escape(span))
		sb.WriteString(locationBadge(info.Location))
		sb.WriteString(`</div>`)
		return sb.String()
	}
	return ""
}

func deadlineLine(label, date string, opts Options) string {
	formatted := domain.FormatDate(date)
	if domain.IsDeadlineClose(date, opts.Now) {
		return `<div class="date-info"><strong>` + label + `:</strong> <span class="deadline-warning">` +
			escape(formatted) + ` (Soon!)</span></div>`
	}
	return `<div class="date-info"><strong>` + label + `:</strong> ` + escape(formatted) + `</div>`
}

func timeInfo(info domain.DateInfo) string {
	switch {
	case info.StartTime != "" && info.EndTime != "":
		return domain.FormatClock(info.StartTime) + " – " + domain.FormatClock(info.EndTime)
	case info.StartTime != "":
		return domain.FormatClock(info.StartTime)
	default:
		return ""
	}
}

var locationLabel = map[domain.EventLocation]string{
	domain.LocationInPerson: "In Person",
	domain.LocationOnline:   "Online",
	domain.LocationHybrid:   "Hybrid",
}

func locationBadge(loc domain.EventLocation) string {
	label, ok := locationLabel[loc]
	if !ok {
		return ""
	}
	return ` <span class="location-badge location-` + escape(string(loc)) + `">` + label + `</span>`
}
