package handler

import (
	"time"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/filter"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createBulletinRequest) ports.BulletinInput {
	return ports.BulletinInput{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Company:       req.Company,
		Contact:       req.Contact,
		AdvisorName:   req.AdvisorName,
		ClassType:     req.ClassType,
		EventLink:     req.EventLink,
		Image:         req.Image,
		PDFURL:        req.PDFURL,
		DateType:      req.DateType,
		EventDate:     req.EventDate,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		EventLocation: req.EventLocation,
	}
}

func toPatch(req updateBulletinRequest) ports.BulletinPatch {
	return ports.BulletinPatch{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Company:       req.Company,
		Contact:       req.Contact,
		AdvisorName:   req.AdvisorName,
		ClassType:     req.ClassType,
		EventLink:     req.EventLink,
		Image:         req.Image,
		PDFURL:        req.PDFURL,
		DateType:      req.DateType,
		EventDate:     req.EventDate,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		EventLocation: req.EventLocation,
	}
}

// --- Query string → filter selection ---

// toSelection parses the multi-select filter dimensions from repeated query
// parameters. Unknown bucket values are dropped rather than rejected so a
// stale bookmark still loads.
func toSelection(values map[string][]string) filter.Selection {
	sel := filter.Selection{}

	for _, v := range values["category"] {
		sel.Categories = append(sel.Categories, domain.Category(v))
	}
	for _, v := range values["posted"] {
		if b, ok := postedBuckets[v]; ok {
			sel.Posted = append(sel.Posted, b)
		}
	}
	for _, v := range values["deadline"] {
		if b, ok := deadlineBuckets[v]; ok {
			sel.Deadlines = append(sel.Deadlines, b)
		}
	}
	for _, v := range values["class_type"] {
		sel.ClassTypes = append(sel.ClassTypes, domain.ClassType(v))
	}
	sel.Advisors = append(sel.Advisors, values["advisor"]...)

	if q := values["q"]; len(q) > 0 {
		sel.Search = q[0]
	}
	if se := values["show_expired"]; len(se) > 0 && (se[0] == "true" || se[0] == "1") {
		sel.ShowExpired = true
	}
	return sel
}

var postedBuckets = map[string]filter.PostedBucket{
	"today":     filter.PostedToday,
	"thisweek":  filter.PostedThisWeek,
	"lastweek":  filter.PostedLastWeek,
	"thismonth": filter.PostedThisMonth,
	"lastmonth": filter.PostedLastMonth,
}

var deadlineBuckets = map[string]filter.DeadlineBucket{
	"soon":      filter.DeadlineSoon,
	"thisweek":  filter.DeadlineThisWeek,
	"thismonth": filter.DeadlineThisMonth,
	"nodate":    filter.DeadlineNone,
}

// --- Domain → HTTP response ---

func toBulletinResponse(b *domain.Bulletin, now time.Time) bulletinResponse {
	return bulletinResponse{
		ID:            b.ID,
		Title:         b.Title,
		Category:      string(b.Category),
		CategoryLabel: b.Category.Display(),
		Description:   b.Description,
		Company:       b.Company,
		Contact:       b.Contact,
		AdvisorName:   b.AdvisorName,
		PostedBy:      b.PostedBy,
		DatePosted:    b.DatePosted.UTC(),
		IsActive:      b.IsActive,
		Image:         b.Image,
		PDFURL:        b.PDFURL,
		ClassType:     string(b.ClassType),
		EventLink:     b.EventLink,
		DateType:      b.DateType,
		Deadline:      b.Deadline,
		EventDate:     b.EventDate,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		EventLocation: string(b.EventLocation),
		Expired:       domain.IsExpired(b, now),
	}
}

func toListResponse(res filter.Result, now time.Time) listBulletinsResponse {
	items := make([]bulletinResponse, len(res.Bulletins))
	for i, b := range res.Bulletins {
		items[i] = toBulletinResponse(b, now)
	}
	return listBulletinsResponse{
		Data:  items,
		Total: len(items),
		Empty: emptyKindLabel(res.Empty),
	}
}

func emptyKindLabel(kind filter.EmptyKind) string {
	switch kind {
	case filter.EmptyNoBulletins:
		return "no_bulletins"
	case filter.EmptyNoMatch:
		return "no_match"
	default:
		return ""
	}
}
