package ports

import (
	"context"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// AdvisorRepository defines the interface for advisor account persistence.
type AdvisorRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Advisor, error)
	Create(ctx context.Context, advisor *domain.Advisor) (*domain.Advisor, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
