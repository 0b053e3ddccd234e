package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

// OrderRepository applies the scope inside every query, so rows outside it
// are reported as domain.ErrNotFound.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, scope domain.OrderScope, query domain.ListQuery) (domain.Page[domain.Order], error)
	UpdateOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error)
	DeleteOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID) (bool, error)
}

// Repositories are bound to one transaction.
type Repositories struct {
	Carts  CartRepository
	Orders OrderRepository
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
