package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category classifies a bulletin.
type Category string

const (
	CategoryJob          Category = "job"
	CategoryTraining     Category = "training"
	CategoryCollege      Category = "college"
	CategoryClassType    Category = "classtype"
	CategoryAnnouncement Category = "announcement"
	CategoryResource     Category = "resource"
)

// categoryDisplay maps categories to their public labels.
var categoryDisplay = map[Category]string{
	CategoryJob:          "Job Opportunity",
	CategoryTraining:     "Training",
	CategoryCollege:      "College/University",
	CategoryClassType:    "Class Type",
	CategoryAnnouncement: "Announcement",
	CategoryResource:     "Resource",
}

// Valid reports whether c is one of the canonical categories.
func (c Category) Valid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

// Display returns the human-readable label for the category.
func (c Category) Display() string {
	if label, ok := categoryDisplay[c]; ok {
		return label
	}
	return string(c)
}

// ClassType identifies an adult-education program.
type ClassType string

const (
	ClassESOL   ClassType = "esol"
	ClassHSE    ClassType = "hse"
	ClassFamLit ClassType = "famlit"
)

var classTypeDisplay = map[ClassType]string{
	ClassESOL:   "ESOL (English for Speakers of Other Languages)",
	ClassHSE:    "HSE (High School Equivalency)",
	ClassFamLit: "FamLit (Family Literacy)",
}

func (ct ClassType) Valid() bool {
	_, ok := classTypeDisplay[ct]
	return ok
}

func (ct ClassType) Display() string {
	if label, ok := classTypeDisplay[ct]; ok {
		return label
	}
	return string(ct)
}

// EventLocation describes how an event is attended.
type EventLocation string

const (
	LocationInPerson EventLocation = "in-person"
	LocationOnline   EventLocation = "online"
	LocationHybrid   EventLocation = "hybrid"
)

var ErrBulletinNotFound = errors.New("bulletin not found")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("unauthenticated")
var ErrPayloadTooLarge = errors.New("payload too large")
var ErrUnavailable = errors.New("store unavailable")
var ErrTimeout = errors.New("store deadline exceeded")
var ErrValidation = errors.New("invalid bulletin")

// Bulletin is the core aggregate: a single posted announcement.
//
// Three generations of date fields coexist for reading: the legacy bare
// Deadline, and the DateType-driven EventDate / StartDate+EndDate pair.
// Deadline is always kept mirrored from the newer fields so legacy
// deadline-based filtering keeps working (see DateInfoOf / SyncDeadline).
type Bulletin struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Category    Category  `json:"category" bson:"category"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Company     string    `json:"company,omitempty" bson:"company,omitempty"`
	Contact     string    `json:"contact,omitempty" bson:"contact,omitempty"`
	AdvisorName string    `json:"advisor_name" bson:"advisor_name"`
	PostedBy    string    `json:"posted_by" bson:"posted_by"`
	DatePosted  time.Time `json:"date_posted" bson:"date_posted"`
	IsActive    bool      `json:"is_active" bson:"is_active"`

	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	PDFURL    string    `json:"pdf_url,omitempty" bson:"pdf_url,omitempty"`
	ClassType ClassType `json:"class_type,omitempty" bson:"class_type,omitempty"`
	EventLink string    `json:"event_link,omitempty" bson:"event_link,omitempty"`

	DateType      string        `json:"date_type,omitempty" bson:"date_type,omitempty"`
	Deadline      string        `json:"deadline,omitempty" bson:"deadline,omitempty"`
	EventDate     string        `json:"event_date,omitempty" bson:"event_date,omitempty"`
	StartDate     string        `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate       string        `json:"end_date,omitempty" bson:"end_date,omitempty"`
	StartTime     string        `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime       string        `json:"end_time,omitempty" bson:"end_time,omitempty"`
	EventLocation EventLocation `json:"event_location,omitempty" bson:"event_location,omitempty"`

	// Fields written only by the retired localStorage variant; read for
	// normalization, never written back.
	LegacyPDF     string `json:"-" bson:"pdf,omitempty"`
	LegacyPDFName string `json:"-" bson:"pdf_name,omitempty"`
}

const (
	DateTypeDeadline = "deadline"
	DateTypeEvent    = "event"
	DateTypeRange    = "range"
)

// Normalize folds legacy-variant data into the canonical schema:
// the retired "immigration" category becomes "resource", and inline
// pdf/pdf_name payloads move to PDFURL when no URL is present.
func (b *Bulletin) Normalize() {
	if b.Category == "immigration" {
		b.Category = CategoryResource
	}
	if b.PDFURL == "" && b.LegacyPDF != "" {
		b.PDFURL = b.LegacyPDF
	}
	b.LegacyPDF = ""
	b.LegacyPDFName = ""
	b.EventLink = EnsureScheme(b.EventLink)
	b.SyncDeadline()
}

// EnsureScheme prefixes https:// when a link carries no scheme.
func EnsureScheme(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.Contains(link, "://") {
		return link
	}
	return "https://" + link
}

// Validate checks the invariants a bulletin must satisfy before persistence.
func (b *Bulletin) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, b.Category)
	}
	if strings.TrimSpace(b.AdvisorName) == "" {
		return fmt.Errorf("%w: advisor name is required", ErrValidation)
	}
	if b.PostedBy == "" {
		return fmt.Errorf("%w: posted_by is required", ErrValidation)
	}
	if b.ClassType != "" && !b.ClassType.Valid() {
		return fmt.Errorf("%w: unknown class type %q", ErrValidation, b.ClassType)
	}
	switch b.DateType {
	case "", DateTypeDeadline, DateTypeEvent, DateTypeRange:
	default:
		return fmt.Errorf("%w: unknown date type %q", ErrValidation, b.DateType)
	}
	if b.DateType == DateTypeRange && (b.StartDate == "" || b.EndDate == "") {
		return fmt.Errorf("%w: range bulletins need start and end dates", ErrValidation)
	}
	if (b.DateType == DateTypeDeadline || b.DateType == DateTypeEvent) && b.EventDate == "" {
		return fmt.Errorf("%w: dated bulletins need an event date", ErrValidation)
	}
	return nil
}
