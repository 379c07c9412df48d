package ports

import (
	"context"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// BulletinRepository defines persistence operations for bulletins.
// Implementations must normalize legacy-variant documents on read and never
// hard-delete: SoftDelete flips is_active and ListActive excludes inactive
// records.
type BulletinRepository interface {
	Create(ctx context.Context, b *domain.Bulletin) error
	// Update replaces the stored document for b.ID.
	Update(ctx context.Context, b *domain.Bulletin) error
	SoftDelete(ctx context.Context, id string) error
	// FindByID retrieves a bulletin regardless of its active flag; callers
	// decide how to present soft-deleted records.
	FindByID(ctx context.Context, id string) (*domain.Bulletin, error)
	// ListActive returns all active bulletins ordered by date posted,
	// newest first.
	ListActive(ctx context.Context) ([]*domain.Bulletin, error)
}
