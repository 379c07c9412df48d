package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// calendar renders a month grid with bulletins bucketed by their primary
// display date: event date first, then range start, then deadline.
func calendar(bulletins []*domain.Bulletin, opts Options) string {
	year, month := opts.anchor()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	byDay := make(map[int][]*domain.Bulletin)
	for _, b := range bulletins {
		d, ok := domain.PrimaryDisplayDate(b)
		if !ok {
			continue
		}
		if d.Year() == year && d.Month() == month {
			byDay[d.Day()] = append(byDay[d.Day()], b)
		}
	}

	var sb strings.Builder
	sb.WriteString(`<div class="calendar-view" data-month="` + first.Format("2006-01") + `">`)
	sb.WriteString(`<div class="calendar-header">` + first.Format("January 2006") + `</div>`)
	sb.WriteString(`<div class="calendar-grid">`)
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		sb.WriteString(`<div class="calendar-weekday">` + wd + `</div>`)
	}

	for i := 0; i < int(first.Weekday()); i++ {
		sb.WriteString(`<div class="calendar-day empty"></div>`)
	}

	for day := 1; day <= daysInMonth; day++ {
		entries := byDay[day]
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if len(entries) == 0 {
			sb.WriteString(`<div class="calendar-day" data-date="` + date + `">` +
				`<span class="day-number">` + fmt.Sprint(day) + `</span></div>`)
			continue
		}
		sb.WriteString(`<div class="calendar-day has-events" data-date="` + date + `" data-count="` +
			fmt.Sprint(len(entries)) + `">`)
		sb.WriteString(`<span class="day-number">` + fmt.Sprint(day) + `</span>`)
		for _, b := range entries {
			sb.WriteString(`<div class="calendar-event category-` + escape(string(b.Category)) + `" data-bulletin-id="` +
				escape(b.ID) + `">` + escape(b.Title) + `</div>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div></div>`)
	return sb.String()
}

// DayDetail renders the drill-down list for one calendar day.
func DayDetail(bulletins []*domain.Bulletin, date string, opts Options) string {
	var matched []*domain.Bulletin
	for _, b := range bulletins {
		d, ok := domain.PrimaryDisplayDate(b)
		if ok && d.Format("2006-01-02") == date {
			matched = append(matched, b)
		}
	}

	var sb strings.Builder
	sb.WriteString(`<div class="day-detail"><h2>Events on ` + escape(domain.FormatDate(date)) +
		` (` + fmt.Sprint(len(matched)) + `)</h2>`)
	if len(matched) == 0 {
		sb.WriteString(`<p class="day-empty">Nothing scheduled for this day.</p></div>`)
		return sb.String()
	}

	sb.WriteString(`<div class="day-events-list">`)
	for _, b := range matched {
		expired := domain.IsExpired(b, opts.Now)
		sb.WriteString(`<div class="day-event-item`)
		if expired {
			sb.WriteString(` expired`)
		}
		sb.WriteString(`" data-bulletin-id="` + escape(b.ID) + `">`)
		sb.WriteString(`<div class="day-event-header"><h3 class="day-event-title">` + escape(b.Title) + `</h3>`)
		sb.WriteString(categoryBadge(b.Category))
		sb.WriteString(`</div>`)
		if desc := formatDescription(b.Description, b.ID, true); desc != "" {
			sb.WriteString(`<div class="day-event-description">` + desc + `</div>`)
		}
		sb.WriteString(`<p class="day-event-meta">Posted by ` + escape(b.AdvisorName) + `</p>`)
		if expired {
			sb.WriteString(`<span class="expired-label">EXPIRED</span>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div></div>`)
	return sb.String()
}
