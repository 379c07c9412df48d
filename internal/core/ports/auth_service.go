package ports

import (
	"context"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// Identifier is the parsed form of a login identifier: either a bare
// username or a full @ebhcs.org address.
type Identifier struct {
	Username string
	Email    string
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) (string, *domain.Advisor, error)
	Register(ctx context.Context, username, password, displayName, role string) (*domain.Advisor, error)
	// RequestPasswordReset asks the identity provider to send a reset email.
	// It acknowledges unknown accounts the same way as known ones.
	RequestPasswordReset(ctx context.Context, identifier string) error
	// ChangePassword re-authenticates with the current password before
	// storing the new hash.
	ChangePassword(ctx context.Context, username, current, next string) error
}
