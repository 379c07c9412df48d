// Package render projects bulletin data into view markup. It is a pure
// data→markup mapping: no store access, no HTTP types, no side effects, so
// every view can be unit-tested in isolation. All user-supplied text is
// HTML-escaped before interpolation; the only unescaped transformation is
// the whitelisted inline markup subset applied after escaping.
package render

import (
	"errors"
	"strings"
	"time"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/filter"
)

// View selects the projection layout.
type View string

const (
	ViewGallery  View = "gallery"
	ViewList     View = "list"
	ViewCalendar View = "calendar"
)

var ErrUnknownView = errors.New("unknown view")

// Options carries the explicit view state a projection needs. Calendar
// views anchor on Year/Month; zero values anchor on Now.
type Options struct {
	// Manage enables edit/delete controls on cards and rows.
	Manage bool
	// Now is the reference time for expiration and due-soon styling.
	Now time.Time
	// Year and Month anchor the calendar grid.
	Year  int
	Month time.Month
	// FiltersActive picks the empty-state message when nothing renders.
	FiltersActive bool
}

func (o Options) anchor() (int, time.Month) {
	if o.Year == 0 {
		return o.Now.Year(), o.Now.Month()
	}
	return o.Year, o.Month
}

// Render projects the bulletin list into the requested view's markup.
func Render(view View, bulletins []*domain.Bulletin, opts Options) (string, error) {
	switch view {
	case ViewGallery:
		return gallery(bulletins, opts), nil
	case ViewList:
		return list(bulletins, opts), nil
	case ViewCalendar:
		return calendar(bulletins, opts), nil
	default:
		return "", ErrUnknownView
	}
}

func gallery(bulletins []*domain.Bulletin, opts Options) string {
	if len(bulletins) == 0 {
		return emptyState(opts)
	}
	var sb strings.Builder
	sb.WriteString(`<div class="bulletin-grid">`)
	for _, b := range bulletins {
		sb.WriteString(Card(b, opts))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func list(bulletins []*domain.Bulletin, opts Options) string {
	if len(bulletins) == 0 {
		return emptyState(opts)
	}
	var sb strings.Builder
	sb.WriteString(`<div class="bulletin-list">`)
	for _, b := range bulletins {
		sb.WriteString(ListItem(b, opts))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func emptyState(opts Options) string {
	if opts.FiltersActive {
		return EmptyState(filter.EmptyNoMatch)
	}
	return EmptyState(filter.EmptyNoBulletins)
}

// EmptyState renders the message for an empty result, distinguishing an
// empty board from an over-filtered one.
func EmptyState(kind filter.EmptyKind) string {
	switch kind {
	case filter.EmptyNoMatch:
		return `<div class="empty-state"><p>No bulletins match your current filters. Try clearing some filters.</p></div>`
	default:
		return `<div class="empty-state"><p>No bulletins have been posted yet. Check back soon!</p></div>`
	}
}

// NotFound renders the placeholder for a deep link whose bulletin has been
// removed. An inline message, not a hard failure.
func NotFound() string {
	return `<div class="bulletin-missing"><p>This bulletin is no longer available.</p></div>`
}
