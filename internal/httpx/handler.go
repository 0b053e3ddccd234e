package httpx

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/nikolayk812/littlelemon/internal/service"
	"github.com/rs/zerolog"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, caller domain.Caller) (domain.Order, error)
	ListOrders(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.Order], error)
	GetOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Order, error)
	ReplaceOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error)
	PatchOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error)
	DeleteOrder(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

type CartService interface {
	GetCart(ctx context.Context, caller domain.Caller) (domain.Cart, domain.Money, error)
	AddItem(ctx context.Context, caller domain.Caller, menuItemID uuid.UUID, quantity int) (domain.CartItem, error)
	RemoveItem(ctx context.Context, caller domain.Caller, menuItemID uuid.UUID) error
	Clear(ctx context.Context, caller domain.Caller) (int64, error)
}

type CatalogService interface {
	ListCategories(ctx context.Context, caller domain.Caller) ([]domain.Category, error)
	GetCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Category, error)
	CreateCategory(ctx context.Context, caller domain.Caller, title string) (domain.Category, error)
	DeleteCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) error

	ListMenuItems(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.MenuItem], error)
	GetMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, caller domain.Caller, in service.MenuItemInput) (domain.MenuItem, error)
	ReplaceMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID, in service.MenuItemInput) (domain.MenuItem, error)
	PatchMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.MenuItemPatch) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID) error
}

type BookService interface {
	ListBookCategories(ctx context.Context, caller domain.Caller) ([]domain.BookCategory, error)
	CreateBookCategory(ctx context.Context, caller domain.Caller, name string) (domain.BookCategory, error)

	ListBooks(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.Book], error)
	GetBook(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Book, error)
	CreateBook(ctx context.Context, caller domain.Caller, in service.BookInput) (domain.Book, error)
	ReplaceBook(ctx context.Context, caller domain.Caller, id uuid.UUID, in service.BookInput) (domain.Book, error)
	PatchBook(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.BookPatch) (domain.Book, error)
	DeleteBook(ctx context.Context, caller domain.Caller, id uuid.UUID) error

	ListRatings(ctx context.Context, caller domain.Caller, bookID *uuid.UUID) ([]domain.Rating, error)
	RateBook(ctx context.Context, caller domain.Caller, bookID uuid.UUID, score int) (domain.Rating, error)
}

type GroupService interface {
	Identify(ctx context.Context, userID string) (domain.Caller, error)
	ListMembers(ctx context.Context, caller domain.Caller, group string) ([]string, error)
	AddMember(ctx context.Context, caller domain.Caller, group, userID string) error
	RemoveMember(ctx context.Context, caller domain.Caller, group, userID string) error
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Orders  OrderService
	Carts   CartService
	Catalog CatalogService
	Books   BookService
	Groups  GroupService
}

type Handler struct {
	orders  OrderService
	carts   CartService
	catalog CatalogService
	books   BookService
	groups  GroupService

	// limiter is optional; without it nothing is throttled.
	limiter        port.RateLimiter
	store          Pinger
	identityHeader string
	log            zerolog.Logger
}

func NewHandler(
	services Services,
	limiter port.RateLimiter,
	store Pinger,
	identityHeader string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		orders:         services.Orders,
		carts:          services.Carts,
		catalog:        services.Catalog,
		books:          services.Books,
		groups:         services.Groups,
		limiter:        limiter,
		store:          store,
		identityHeader: identityHeader,
		log:            log,
	}
}
