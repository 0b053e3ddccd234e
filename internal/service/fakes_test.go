package service_test

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
)

// memStore is an in-memory stand-in for the carts, orders and memberships
// tables. Transactions are serialized, which is what the row lock gives the
// real store for a single cart.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	carts   map[string][]domain.CartItem
	orders  map[uuid.UUID]domain.Order
	members map[string]map[string]bool

	failCreateOrder error
	// clearShortBy makes Clear report fewer removed lines than it removed.
	clearShortBy int64
}

func newMemStore() *memStore {
	return &memStore{
		carts:   map[string][]domain.CartItem{},
		orders:  map[uuid.UUID]domain.Order{},
		members: map[string]map[string]bool{},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	carts := maps.Clone(s.carts)
	orders := maps.Clone(s.orders)
	s.mu.Unlock()

	if err := fn(ctx, port.Repositories{Carts: memCarts{s}, Orders: memOrders{s}}); err != nil {
		s.mu.Lock()
		s.carts = carts
		s.orders = orders
		s.mu.Unlock()
		return err
	}

	return nil
}

func (s *memStore) cartLen(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts[ownerID])
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) addMember(group, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[group] == nil {
		s.members[group] = map[string]bool{}
	}
	s.members[group][userID] = true
}

type memCarts struct{ s *memStore }

func (r memCarts) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return domain.Cart{OwnerID: ownerID, Items: slices.Clone(r.s.carts[ownerID])}, nil
}

func (r memCarts) LockCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	return r.GetCart(ctx, ownerID)
}

func (r memCarts) AddItem(_ context.Context, ownerID string, item domain.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, line := range r.s.carts[ownerID] {
		if line.MenuItemID == item.MenuItemID {
			return domain.ErrConflict
		}
	}
	r.s.carts[ownerID] = append(slices.Clone(r.s.carts[ownerID]), item)
	return nil
}

func (r memCarts) DeleteItem(_ context.Context, ownerID string, menuItemID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := r.s.carts[ownerID]
	i := slices.IndexFunc(lines, func(l domain.CartItem) bool { return l.MenuItemID == menuItemID })
	if i < 0 {
		return false, nil
	}
	r.s.carts[ownerID] = slices.Delete(slices.Clone(lines), i, i+1)
	return true, nil
}

func (r memCarts) Clear(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.carts[ownerID]))
	delete(r.s.carts, ownerID)
	return n - r.s.clearShortBy, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) CreateOrder(_ context.Context, order domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.failCreateOrder != nil {
		return r.s.failCreateOrder
	}
	r.s.orders[order.ID] = order
	return nil
}

func (r memOrders) GetOrder(_ context.Context, scope domain.OrderScope, id uuid.UUID) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok || !inScope(scope, order) {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r memOrders) ListOrders(_ context.Context, scope domain.OrderScope, query domain.ListQuery) (domain.Page[domain.Order], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []domain.Order
	for _, o := range r.s.orders {
		if !inScope(scope, o) {
			continue
		}
		if query.Delivered != nil && o.Delivered != *query.Delivered {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginate(matched, query), nil
}

func (r memOrders) UpdateOrder(_ context.Context, scope domain.OrderScope, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok || !inScope(scope, order) {
		return domain.Order{}, domain.ErrNotFound
	}
	order = applyOrderPatch(patch, order)
	r.s.orders[id] = order
	return order, nil
}

func (r memOrders) DeleteOrder(_ context.Context, scope domain.OrderScope, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok || !inScope(scope, order) {
		return false, nil
	}
	delete(r.s.orders, id)
	return true, nil
}

type memMembers struct{ s *memStore }

func (r memMembers) Groups(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var groups []string
	for group, users := range r.s.members {
		if users[userID] {
			groups = append(groups, group)
		}
	}
	sort.Strings(groups)
	return groups, nil
}

func (r memMembers) IsMember(_ context.Context, group, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.members[group][userID], nil
}

func (r memMembers) ListMembers(_ context.Context, group string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	members := slices.Sorted(maps.Keys(r.s.members[group]))
	if members == nil {
		members = []string{}
	}
	return members, nil
}

func (r memMembers) AddMember(_ context.Context, group, userID string) error {
	r.s.addMember(group, userID)
	return nil
}

func (r memMembers) RemoveMember(_ context.Context, group, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.members[group][userID] {
		return false, nil
	}
	delete(r.s.members[group], userID)
	return true, nil
}

type memCategories struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Category
}

func (r *memCategories) CreateCategory(_ context.Context, c domain.Category) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = time.Now()
	r.items[c.ID] = c
	return c, nil
}

func (r *memCategories) GetCategory(_ context.Context, id uuid.UUID) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *memCategories) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Collect(maps.Values(r.items)), nil
}

func (r *memCategories) DeleteCategory(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

type memMenuItems struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.MenuItem
	gets  int
}

func (r *memMenuItems) CreateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.CreatedAt = time.Now()
	r.items[item.ID] = item
	return item, nil
}

func (r *memMenuItems) GetMenuItem(_ context.Context, id uuid.UUID) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	item, ok := r.items[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (r *memMenuItems) ListMenuItems(_ context.Context, query domain.ListQuery) (domain.Page[domain.MenuItem], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := slices.SortedFunc(maps.Values(r.items), func(a, b domain.MenuItem) int {
		if a.Title < b.Title {
			return -1
		}
		if a.Title > b.Title {
			return 1
		}
		return 0
	})
	return paginate(items, query), nil
}

func (r *memMenuItems) UpdateMenuItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *memMenuItems) DeleteMenuItem(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

type memBooks struct {
	mu         sync.Mutex
	categories map[uuid.UUID]domain.BookCategory
	books      map[uuid.UUID]domain.Book
	ratings    map[string]domain.Rating
}

func newMemBooks() *memBooks {
	return &memBooks{
		categories: map[uuid.UUID]domain.BookCategory{},
		books:      map[uuid.UUID]domain.Book{},
		ratings:    map[string]domain.Rating{},
	}
}

func (r *memBooks) CreateBookCategory(_ context.Context, c domain.BookCategory) (domain.BookCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
	return c, nil
}

func (r *memBooks) ListBookCategories(_ context.Context) ([]domain.BookCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Collect(maps.Values(r.categories)), nil
}

func (r *memBooks) CreateBook(_ context.Context, b domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[b.CategoryID]; !ok {
		return domain.Book{}, domain.ErrConflict
	}
	b.CreatedAt = time.Now()
	r.books[b.ID] = b
	return b, nil
}

func (r *memBooks) GetBook(_ context.Context, id uuid.UUID) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return domain.Book{}, domain.ErrNotFound
	}
	return b, nil
}

func (r *memBooks) ListBooks(_ context.Context, query domain.ListQuery) (domain.Page[domain.Book], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return paginate(slices.Collect(maps.Values(r.books)), query), nil
}

func (r *memBooks) UpdateBook(_ context.Context, b domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return domain.Book{}, domain.ErrNotFound
	}
	if _, ok := r.categories[b.CategoryID]; !ok {
		return domain.Book{}, domain.ErrConflict
	}
	r.books[b.ID] = b
	return b, nil
}

func (r *memBooks) DeleteBook(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.books[id]
	delete(r.books, id)
	return ok, nil
}

func (r *memBooks) UpsertRating(_ context.Context, rating domain.Rating) (domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating.UpdatedAt = time.Now()
	r.ratings[rating.UserID+"/"+rating.BookID.String()] = rating
	return rating, nil
}

func (r *memBooks) ListRatings(_ context.Context, bookID *uuid.UUID) ([]domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rating
	for _, rating := range r.ratings {
		if bookID == nil || rating.BookID == *bookID {
			out = append(out, rating)
		}
	}
	return out, nil
}

type published struct {
	key     string
	payload any
}

type recordingEvents struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (e *recordingEvents) Publish(_ context.Context, key string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, published{key: key, payload: payload})
	return nil
}

func (e *recordingEvents) keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		keys = append(keys, ev.key)
	}
	return keys
}

func inScope(scope domain.OrderScope, o domain.Order) bool {
	if scope.OwnerID != "" && o.OwnerID != scope.OwnerID {
		return false
	}
	if scope.DeliveryCrewID != "" && o.DeliveryCrewID != scope.DeliveryCrewID {
		return false
	}
	return true
}

func applyOrderPatch(patch domain.OrderPatch, o domain.Order) domain.Order {
	if patch.Delivered != nil {
		o.Delivered = *patch.Delivered
	}
	if patch.SetDeliveryCrew {
		o.DeliveryCrewID = patch.DeliveryCrewID
	}
	return o
}

// paginate slices an already filtered and ordered list the way the store's
// LIMIT/OFFSET does; a page past the end is empty.
func paginate[T any](items []T, q domain.ListQuery) domain.Page[T] {
	page := domain.Page[T]{Page: q.Page, PageSize: q.PageSize, Total: int64(len(items)), Items: []T{}}

	offset := q.Offset()
	if offset >= len(items) {
		return page
	}

	end := min(offset+q.PageSize, len(items))
	page.Items = append(page.Items, items[offset:end]...)
	return page
}
