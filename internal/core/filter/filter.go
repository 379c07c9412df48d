// Package filter computes the visible subset of an in-memory bulletin
// collection from a multi-select filter selection, a free-text search term,
// and the show-expired toggle. It is a pure function over its inputs so the
// same selection can be replayed against every live snapshot.
package filter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// PostedBucket buckets bulletins by how long ago they were posted,
// at day granularity.
type PostedBucket string

const (
	PostedToday     PostedBucket = "today"
	PostedThisWeek  PostedBucket = "thisweek"
	PostedLastWeek  PostedBucket = "lastweek"
	PostedThisMonth PostedBucket = "thismonth"
	PostedLastMonth PostedBucket = "lastmonth"
)

// DeadlineBucket buckets bulletins by how close their mirrored deadline is.
type DeadlineBucket string

const (
	DeadlineSoon      DeadlineBucket = "soon"
	DeadlineThisWeek  DeadlineBucket = "thisweek"
	DeadlineThisMonth DeadlineBucket = "thismonth"
	DeadlineNone      DeadlineBucket = "nodate"
)

// Selection carries every active filter dimension. Values within one
// dimension combine with OR; dimensions combine with AND.
type Selection struct {
	Categories  []domain.Category
	Posted      []PostedBucket
	Deadlines   []DeadlineBucket
	ClassTypes  []domain.ClassType
	Advisors    []string
	Search      string
	ShowExpired bool
}

// Active reports whether the selection counts as filtering for UI purposes.
// The expired toggle only counts when it is ON; hiding expired bulletins is
// the default behavior, not a filter.
func (s Selection) Active() bool {
	return len(s.Categories) > 0 ||
		len(s.Posted) > 0 ||
		len(s.Deadlines) > 0 ||
		len(s.ClassTypes) > 0 ||
		len(s.Advisors) > 0 ||
		strings.TrimSpace(s.Search) != "" ||
		s.ShowExpired
}

// EmptyKind distinguishes the two empty-result situations so the caller can
// show the right empty-state message.
type EmptyKind int

const (
	EmptyNone        EmptyKind = iota // result is not empty
	EmptyNoBulletins                  // the board has no bulletins at all
	EmptyNoMatch                      // bulletins exist but none match
)

// Result is the ordered visible subset plus its empty-state classification.
type Result struct {
	Bulletins []*domain.Bulletin
	Empty     EmptyKind
}

// Apply computes the visible subset of bulletins for the given selection at
// reference time now. Expired bulletins are dropped first (unless
// ShowExpired), then each active dimension is applied, then the search term.
// The result is ordered by date posted, newest first, ties keeping the
// original collection order.
func Apply(bulletins []*domain.Bulletin, sel Selection, now time.Time) Result {
	out := make([]*domain.Bulletin, 0, len(bulletins))
	for _, b := range bulletins {
		if !sel.ShowExpired && domain.IsExpired(b, now) {
			continue
		}
		if !matchesCategories(b, sel.Categories) {
			continue
		}
		if !matchesPosted(b, sel.Posted, now) {
			continue
		}
		if !matchesDeadlines(b, sel.Deadlines, now) {
			continue
		}
		if !matchesClassTypes(b, sel.ClassTypes) {
			continue
		}
		if !matchesAdvisors(b, sel.Advisors) {
			continue
		}
		if !matchesSearch(b, sel.Search) {
			continue
		}
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DatePosted.After(out[j].DatePosted)
	})

	empty := EmptyNone
	if len(out) == 0 {
		if len(bulletins) == 0 {
			empty = EmptyNoBulletins
		} else {
			empty = EmptyNoMatch
		}
	}
	return Result{Bulletins: out, Empty: empty}
}

func matchesCategories(b *domain.Bulletin, cats []domain.Category) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if b.Category == c {
			return true
		}
	}
	return false
}

// dayStart truncates t to local midnight.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func matchesPosted(b *domain.Bulletin, buckets []PostedBucket, now time.Time) bool {
	if len(buckets) == 0 {
		return true
	}
	posted := dayStart(b.DatePosted.In(now.Location()))
	days := int(math.Floor(dayStart(now).Sub(posted).Hours() / 24))
	for _, bucket := range buckets {
		switch bucket {
		case PostedToday:
			if days == 0 {
				return true
			}
		case PostedThisWeek:
			if days >= 0 && days <= 7 {
				return true
			}
		case PostedLastWeek:
			if days > 7 && days <= 14 {
				return true
			}
		case PostedThisMonth:
			if days >= 0 && days <= 30 {
				return true
			}
		case PostedLastMonth:
			if days > 30 && days <= 60 {
				return true
			}
		}
	}
	return false
}

func matchesDeadlines(b *domain.Bulletin, buckets []DeadlineBucket, now time.Time) bool {
	if len(buckets) == 0 {
		return true
	}
	deadline := domain.DateInfoOf(b).MirrorDeadline()
	for _, bucket := range buckets {
		if bucket == DeadlineNone {
			if deadline == "" {
				return true
			}
			continue
		}
		if deadline == "" {
			continue
		}
		t, ok := domain.ParseLocalDate(deadline)
		if !ok {
			continue
		}
		days := int(math.Ceil(t.Sub(dayStart(now)).Hours() / 24))
		switch bucket {
		case DeadlineSoon, DeadlineThisWeek:
			if days >= 0 && days <= 7 {
				return true
			}
		case DeadlineThisMonth:
			if days >= 0 && days <= 30 {
				return true
			}
		}
	}
	return false
}

func matchesClassTypes(b *domain.Bulletin, types []domain.ClassType) bool {
	if len(types) == 0 {
		return true
	}
	for _, ct := range types {
		if b.ClassType == ct {
			return true
		}
	}
	return false
}

func matchesAdvisors(b *domain.Bulletin, advisors []string) bool {
	if len(advisors) == 0 {
		return true
	}
	for _, a := range advisors {
		if b.AdvisorName == a || b.PostedBy == a {
			return true
		}
	}
	return false
}

func matchesSearch(b *domain.Bulletin, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{
		b.Title, b.Description, b.Company, b.Contact, b.EventLink, b.AdvisorName,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
