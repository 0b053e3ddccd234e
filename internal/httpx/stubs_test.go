package httpx_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/httpx"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/nikolayk812/littlelemon/internal/service"
	"golang.org/x/text/currency"
)

// Stubs embed the service interface; calling a method that is not overridden
// panics, which the router's recoverer turns into a 500.

type stubGroups struct {
	httpx.GroupService

	groups map[string][]string
	err    error

	added      []string
	identified int
}

func (s *stubGroups) Identify(_ context.Context, userID string) (domain.Caller, error) {
	s.identified++
	if s.err != nil {
		return domain.Caller{}, s.err
	}
	if userID == "" {
		return domain.Caller{}, nil
	}
	return domain.NewCaller(userID, s.groups[userID]), nil
}

func (s *stubGroups) AddMember(_ context.Context, caller domain.Caller, group, userID string) error {
	if caller.Role != domain.RoleManager {
		return domain.ErrForbidden
	}
	if !domain.IsKnownGroup(group) {
		return domain.ErrNotFound
	}
	s.added = append(s.added, group+"/"+userID)
	return nil
}

type stubOrders struct {
	httpx.OrderService

	order domain.Order
	err   error

	caller domain.Caller
	query  domain.ListQuery
	patch  domain.OrderPatch
	id     uuid.UUID
}

func (s *stubOrders) PlaceOrder(_ context.Context, caller domain.Caller) (domain.Order, error) {
	s.caller = caller
	if !caller.Authenticated() {
		return domain.Order{}, domain.ErrUnauthenticated
	}
	return s.order, s.err
}

func (s *stubOrders) ListOrders(_ context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.Order], error) {
	s.caller, s.query = caller, query
	if s.err != nil {
		return domain.Page[domain.Order]{}, s.err
	}
	return domain.Page[domain.Order]{Items: []domain.Order{s.order}, Page: 1, PageSize: 10, Total: 1}, nil
}

func (s *stubOrders) GetOrder(_ context.Context, caller domain.Caller, id uuid.UUID) (domain.Order, error) {
	s.caller, s.id = caller, id
	return s.order, s.err
}

func (s *stubOrders) PatchOrder(_ context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	s.caller, s.id, s.patch = caller, id, patch
	order := s.order
	if patch.Delivered != nil {
		order.Delivered = *patch.Delivered
	}
	if patch.SetDeliveryCrew {
		order.DeliveryCrewID = patch.DeliveryCrewID
	}
	return order, s.err
}

func (s *stubOrders) ReplaceOrder(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	return s.PatchOrder(ctx, caller, id, patch)
}

func (s *stubOrders) DeleteOrder(_ context.Context, caller domain.Caller, id uuid.UUID) error {
	s.caller, s.id = caller, id
	return s.err
}

type stubCarts struct {
	httpx.CartService

	cart  domain.Cart
	total domain.Money
}

func (s *stubCarts) GetCart(context.Context, domain.Caller) (domain.Cart, domain.Money, error) {
	return s.cart, s.total, nil
}

func (s *stubCarts) AddItem(_ context.Context, _ domain.Caller, menuItemID uuid.UUID, quantity int) (domain.CartItem, error) {
	if quantity < 1 {
		return domain.CartItem{}, domain.ErrValidation
	}
	return domain.CartItem{MenuItemID: menuItemID, Title: "Lemon Cake", Quantity: quantity, UnitPrice: usd("4.25")}, nil
}

type stubCatalog struct {
	httpx.CatalogService

	in    service.MenuItemInput
	patch domain.MenuItemPatch
	query domain.ListQuery
}

func (s *stubCatalog) CreateMenuItem(_ context.Context, _ domain.Caller, in service.MenuItemInput) (domain.MenuItem, error) {
	s.in = in
	return domain.MenuItem{ID: uuid.New(), Title: in.Title, Price: domain.NewMoney(in.Price, currency.USD), CategoryID: in.CategoryID}, nil
}

func (s *stubCatalog) PatchMenuItem(_ context.Context, _ domain.Caller, id uuid.UUID, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	s.patch = patch
	return patch.Apply(domain.MenuItem{ID: id, Title: "Bruschetta", Price: usd("7.00")}), nil
}

func (s *stubCatalog) ListMenuItems(_ context.Context, _ domain.Caller, query domain.ListQuery) (domain.Page[domain.MenuItem], error) {
	s.query = query
	return domain.Page[domain.MenuItem]{Items: []domain.MenuItem{}, Page: 1, PageSize: 10}, nil
}

type stubBooks struct {
	httpx.BookService

	score  int
	bookID *uuid.UUID
}

func (s *stubBooks) RateBook(_ context.Context, caller domain.Caller, bookID uuid.UUID, score int) (domain.Rating, error) {
	s.score = score
	return domain.Rating{UserID: caller.UserID, BookID: bookID, Score: score}, nil
}

func (s *stubBooks) ListRatings(_ context.Context, _ domain.Caller, bookID *uuid.UUID) ([]domain.Rating, error) {
	s.bookID = bookID
	return []domain.Rating{}, nil
}

type stubLimiter struct {
	mu       sync.Mutex
	decision port.ThrottleDecision
	err      error

	class, bucket string
}

func (s *stubLimiter) Allow(_ context.Context, class, bucket string) (port.ThrottleDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.class, s.bucket = class, bucket
	return s.decision, s.err
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

var errBoom = errors.New("connection reset by peer")
