package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// createBulletinRequest accepts the "immigration" category for backward
// compatibility; the service folds it into "resource".
type createBulletinRequest struct {
	Title         string `json:"title"          validate:"required"`
	Category      string `json:"category"       validate:"required,oneof=job training college classtype announcement resource immigration"`
	Description   string `json:"description"`
	Company       string `json:"company"`
	Contact       string `json:"contact"`
	AdvisorName   string `json:"advisor_name"`
	ClassType     string `json:"class_type"     validate:"omitempty,oneof=esol hse famlit"`
	EventLink     string `json:"event_link"`
	Image         string `json:"image"`
	PDFURL        string `json:"pdf_url"`
	DateType      string `json:"date_type"      validate:"omitempty,oneof=deadline event range"`
	EventDate     string `json:"event_date"     validate:"omitempty,datetime=2006-01-02"`
	StartDate     string `json:"start_date"     validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"end_date"       validate:"omitempty,datetime=2006-01-02"`
	StartTime     string `json:"start_time"     validate:"omitempty,datetime=15:04"`
	EndTime       string `json:"end_time"       validate:"omitempty,datetime=15:04"`
	EventLocation string `json:"event_location" validate:"omitempty,oneof=in-person online hybrid"`
}

// updateBulletinRequest carries the patchable subset. Absent fields keep
// their stored value; empty strings clear it.
type updateBulletinRequest struct {
	Title         *string `json:"title,omitempty"`
	Category      *string `json:"category,omitempty"       validate:"omitempty,oneof=job training college classtype announcement resource immigration"`
	Description   *string `json:"description,omitempty"`
	Company       *string `json:"company,omitempty"`
	Contact       *string `json:"contact,omitempty"`
	AdvisorName   *string `json:"advisor_name,omitempty"`
	ClassType     *string `json:"class_type,omitempty"     validate:"omitempty,oneof='' esol hse famlit"`
	EventLink     *string `json:"event_link,omitempty"`
	Image         *string `json:"image,omitempty"`
	PDFURL        *string `json:"pdf_url,omitempty"`
	DateType      *string `json:"date_type,omitempty"      validate:"omitempty,oneof='' deadline event range"`
	EventDate     *string `json:"event_date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	StartDate     *string `json:"start_date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	StartTime     *string `json:"start_time,omitempty"     validate:"omitempty,datetime=15:04"`
	EndTime       *string `json:"end_time,omitempty"       validate:"omitempty,datetime=15:04"`
	EventLocation *string `json:"event_location,omitempty" validate:"omitempty,oneof='' in-person online hybrid"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from the domain type so the JSON
// contract is not coupled to internal schema changes.

type bulletinResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Description   string    `json:"description,omitempty"`
	Company       string    `json:"company,omitempty"`
	Contact       string    `json:"contact,omitempty"`
	AdvisorName   string    `json:"advisor_name"`
	PostedBy      string    `json:"posted_by"`
	DatePosted    time.Time `json:"date_posted"`
	IsActive      bool      `json:"is_active"`

	Image     string `json:"image,omitempty"`
	PDFURL    string `json:"pdf_url,omitempty"`
	ClassType string `json:"class_type,omitempty"`
	EventLink string `json:"event_link,omitempty"`

	DateType      string `json:"date_type,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
	EventDate     string `json:"event_date,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	EventLocation string `json:"event_location,omitempty"`

	Expired bool `json:"expired"`
}

// mutateBulletinResponse wraps a write result with any moderation warnings.
// Warnings never block a post; they are surfaced for the poster to act on.
type mutateBulletinResponse struct {
	Bulletin bulletinResponse `json:"bulletin"`
	Warnings []string         `json:"warnings,omitempty"`
}

type listBulletinsResponse struct {
	Data  []bulletinResponse `json:"data"`
	Total int                `json:"total"`
	// Empty distinguishes "no bulletins at all" from "nothing matched":
	// "", "no_bulletins" or "no_match".
	Empty string `json:"empty,omitempty"`
}
