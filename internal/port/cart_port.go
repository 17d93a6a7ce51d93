package port

import (
	"context"

	"github.com/nikolayk812/orderup-cart/internal/domain"
)

// CartRepository persists the lines of one session's cart under a session key.
// Load of an unknown key returns no lines and no error.
type CartRepository interface {
	Load(ctx context.Context, sessionKey string) ([]domain.Line, error)
	Save(ctx context.Context, sessionKey string, lines []domain.Line) error
	Delete(ctx context.Context, sessionKey string) error
}
