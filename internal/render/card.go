package render

import (
	"strings"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// Card renders one gallery card.
func Card(b *domain.Bulletin, opts Options) string {
	expired := domain.IsExpired(b, opts.Now)

	var sb strings.Builder
	sb.WriteString(`<article class="bulletin-card`)
	if expired {
		sb.WriteString(` expired-bulletin`)
	}
	sb.WriteString(`" id="bulletin-` + escape(b.ID) + `">`)
	if expired {
		sb.WriteString(`<div class="expired-banner">EXPIRED</div>`)
	}

	sb.WriteString(`<div class="bulletin-header"><h3 class="bulletin-title">` + escape(b.Title) + `</h3>`)
	sb.WriteString(categoryBadge(b.Category))
	sb.WriteString(`</div>`)

	if b.Image != "" {
		sb.WriteString(`<div class="bulletin-image"><img src="` + escape(b.Image) + `" alt="Bulletin image" class="card-image"></div>`)
	}

	if desc := formatDescription(b.Description, b.ID, true); desc != "" {
		sb.WriteString(`<div class="bulletin-description" data-bulletin-id="` + escape(b.ID) + `">` + desc + `</div>`)
	}

	sb.WriteString(metaBlock(b))
	sb.WriteString(dateInfoBlock(b, opts))
	sb.WriteString(footer(b))
	sb.WriteString(actions(b, opts))
	sb.WriteString(`</article>`)
	return sb.String()
}

// ListItem renders one compact list row.
func ListItem(b *domain.Bulletin, opts Options) string {
	expired := domain.IsExpired(b, opts.Now)

	var sb strings.Builder
	sb.WriteString(`<div class="bulletin-list-item`)
	if expired {
		sb.WriteString(` expired-bulletin`)
	}
	sb.WriteString(`" id="bulletin-` + escape(b.ID) + `">`)
	if expired {
		sb.WriteString(`<div class="expired-banner">EXPIRED</div>`)
	}

	sb.WriteString(`<div class="list-item-main"><h3 class="bulletin-title">` + escape(b.Title) + `</h3>`)
	sb.WriteString(categoryBadge(b.Category))
	if desc := formatDescription(b.Description, b.ID, true); desc != "" {
		sb.WriteString(`<div class="bulletin-description">` + desc + `</div>`)
	}
	sb.WriteString(`</div>`)

	sb.WriteString(dateInfoBlock(b, opts))
	sb.WriteString(footer(b))
	sb.WriteString(actions(b, opts))
	sb.WriteString(`</div>`)
	return sb.String()
}

// Detail renders the full single-bulletin view behind a deep link.
func Detail(b *domain.Bulletin, opts Options) string {
	expired := domain.IsExpired(b, opts.Now)

	var sb strings.Builder
	sb.WriteString(`<article class="detail-card`)
	if expired {
		sb.WriteString(` expired-bulletin`)
	}
	sb.WriteString(`" id="detail-` + escape(b.ID) + `">`)
	if expired {
		sb.WriteString(`<div class="expired-banner">EXPIRED</div>`)
	}

	sb.WriteString(`<div class="bulletin-header"><h2 class="bulletin-title">` + escape(b.Title) + `</h2>`)
	sb.WriteString(categoryBadge(b.Category))
	sb.WriteString(`</div>`)

	if b.Image != "" {
		sb.WriteString(`<div class="bulletin-image"><img src="` + escape(b.Image) + `" alt="Bulletin image"></div>`)
	}
	if desc := formatDescription(b.Description, b.ID, false); desc != "" {
		sb.WriteString(`<div class="bulletin-description">` + desc + `</div>`)
	}

	sb.WriteString(metaBlock(b))
	sb.WriteString(dateInfoBlock(b, opts))
	sb.WriteString(footer(b))
	sb.WriteString(actions(b, opts))
	sb.WriteString(`</article>`)
	return sb.String()
}

func categoryBadge(c domain.Category) string {
	return `<span class="category-badge category-` + escape(string(c)) + `">` + escape(c.Display()) + `</span>`
}

// linkLabel follows the category-specific call-to-action labels.
var linkLabel = map[domain.Category]string{
	domain.CategoryJob:          "Job Posting Link",
	domain.CategoryTraining:     "Training Link",
	domain.CategoryCollege:      "College/University Link",
	domain.CategoryAnnouncement: "More Information",
	domain.CategoryResource:     "Resource Link",
}

func metaBlock(b *domain.Bulletin) string {
	var sb strings.Builder
	sb.WriteString(`<div class="bulletin-meta">`)
	if b.Company != "" {
		sb.WriteString(`<div class="meta-item"><strong>Organization:</strong> ` + escape(b.Company) + `</div>`)
	}
	if b.Contact != "" {
		sb.WriteString(`<div class="meta-item"><strong>Contact:</strong> ` + escape(b.Contact) + `</div>`)
	}
	if b.ClassType != "" {
		sb.WriteString(`<div class="meta-item"><strong>Class:</strong> ` + escape(b.ClassType.Display()) + `</div>`)
	}
	if b.EventLink != "" {
		label := linkLabel[b.Category]
		if label == "" {
			label = "Link"
		}
		sb.WriteString(`<div class="meta-item"><a href="` + escape(b.EventLink) +
			`" target="_blank" rel="noopener">` + escape(label) + `</a></div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func footer(b *domain.Bulletin) string {
	posted := ""
	if !b.DatePosted.IsZero() {
		posted = b.DatePosted.Local().Format("January 2, 2006")
	}
	return `<div class="bulletin-footer">Posted by ` + escape(b.AdvisorName) +
		`<span class="posted-date">` + escape(posted) + `</span></div>`
}

func actions(b *domain.Bulletin, opts Options) string {
	var sb strings.Builder
	sb.WriteString(`<div class="bulletin-actions">`)
	sb.WriteString(`<button type="button" class="share-btn" data-bulletin-id="` + escape(b.ID) + `">Share</button>`)
	if b.PDFURL != "" {
		sb.WriteString(`<a class="pdf-btn" data-bulletin-id="` + escape(b.ID) + `" href="` + escape(b.PDFURL) + `" target="_blank" rel="noopener">PDF</a>`)
	}
	if opts.Manage {
		sb.WriteString(`<button type="button" class="edit-btn" data-bulletin-id="` + escape(b.ID) + `">Edit</button>`)
		sb.WriteString(`<button type="button" class="delete-btn" data-bulletin-id="` + escape(b.ID) + `">Delete</button>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
