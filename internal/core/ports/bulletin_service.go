package ports

import (
	"context"
	"time"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/filter"
)

// Session identifies the authenticated advisor behind a request.
type Session struct {
	Username    string
	DisplayName string
	Role        string
}

// BulletinInput carries all writable bulletin fields from the transport
// layer. Date fields follow the current generation; the legacy deadline
// mirror is derived by the service, never accepted from the client.
type BulletinInput struct {
	Title         string
	Category      string
	Description   string
	Company       string
	Contact       string
	AdvisorName   string
	ClassType     string
	EventLink     string
	Image         string
	PDFURL        string
	DateType      string
	EventDate     string
	StartDate     string
	EndDate       string
	StartTime     string
	EndTime       string
	EventLocation string
}

// BulletinPatch holds the updatable subset for an existing bulletin.
// Nil pointers leave the stored value untouched.
type BulletinPatch struct {
	Title         *string
	Category      *string
	Description   *string
	Company       *string
	Contact       *string
	AdvisorName   *string
	ClassType     *string
	EventLink     *string
	Image         *string
	PDFURL        *string
	DateType      *string
	EventDate     *string
	StartDate     *string
	EndDate       *string
	StartTime     *string
	EndTime       *string
	EventLocation *string
}

// BulletinService defines the bulletin use cases. Mutations require a
// session and enforce ownership: only the original poster or an admin may
// update or delete a bulletin.
type BulletinService interface {
	Create(ctx context.Context, input BulletinInput, sess Session) (*domain.Bulletin, []string, error)
	Update(ctx context.Context, id string, patch BulletinPatch, sess Session) (*domain.Bulletin, []string, error)
	SoftDelete(ctx context.Context, id string, sess Session) error
	Get(ctx context.Context, id string) (*domain.Bulletin, error)
	// ListVisible loads the active collection and applies the filter engine
	// at reference time now.
	ListVisible(ctx context.Context, sel filter.Selection, now time.Time) (filter.Result, error)
}
