package ports

import (
	"context"

	"github.com/nventive-labs/todosync/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Verify resolves a bearer token to the Identity it carries. It fails
	// with domain.ErrMissingToken when token is empty and
	// domain.ErrInvalidToken when it is malformed, expired or signed with
	// the wrong key.
	Verify(token string) (domain.Identity, error)
}
