package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
}

type MenuItemRepository interface {
	CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error)
	ListMenuItems(ctx context.Context, query domain.ListQuery) (domain.Page[domain.MenuItem], error)
	UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (bool, error)
}
