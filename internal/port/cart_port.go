package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// LockCart reads the cart and locks its lines until the transaction ends.
	LockCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, menuItemID uuid.UUID) (bool, error)
	Clear(ctx context.Context, ownerID string) (int64, error)
}
