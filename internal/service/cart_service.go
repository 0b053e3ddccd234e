package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/authz"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

type CartService struct {
	carts    port.CartRepository
	menu     port.MenuItemRepository
	currency currency.Unit
	log      zerolog.Logger
}

// NewCartService takes the menu item repository used for price lookups,
// usually the cached one.
func NewCartService(carts port.CartRepository, menu port.MenuItemRepository, unit currency.Unit, log zerolog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		menu:     menu,
		currency: unit,
		log:      log.With().Str("component", "cart").Logger(),
	}
}

// GetCart returns the caller's lines together with their total.
func (s *CartService) GetCart(ctx context.Context, caller domain.Caller) (domain.Cart, domain.Money, error) {
	if err := authz.Permit(caller, authz.ResourceCart, authz.ActionList); err != nil {
		return domain.Cart{}, domain.Money{}, err
	}

	cart, err := s.carts.GetCart(ctx, caller.UserID)
	if err != nil {
		return domain.Cart{}, domain.Money{}, fmt.Errorf("s.carts.GetCart: %w", err)
	}

	total, err := cart.Total(s.currency)
	if err != nil {
		return domain.Cart{}, domain.Money{}, fmt.Errorf("cart.Total: %w", err)
	}

	return cart, total, nil
}

// AddItem snapshots the current catalog price into a new cart line.
func (s *CartService) AddItem(ctx context.Context, caller domain.Caller, menuItemID uuid.UUID, quantity int) (domain.CartItem, error) {
	if err := authz.Permit(caller, authz.ResourceCart, authz.ActionCreate); err != nil {
		return domain.CartItem{}, err
	}

	if quantity < 1 {
		return domain.CartItem{}, domain.Invalid("quantity must be at least 1")
	}

	item, err := s.menu.GetMenuItem(ctx, menuItemID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CartItem{}, domain.Invalid("menu item %s does not exist", menuItemID)
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("s.menu.GetMenuItem: %w", err)
	}

	line := domain.CartItem{
		MenuItemID: item.ID,
		Title:      item.Title,
		Quantity:   quantity,
		UnitPrice:  item.Price,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.carts.AddItem(ctx, caller.UserID, line); err != nil {
		return domain.CartItem{}, fmt.Errorf("s.carts.AddItem: %w", err)
	}

	s.log.Debug().Str("owner_id", caller.UserID).Str("menu_item_id", item.ID.String()).Int("quantity", quantity).Msg("cart line added")
	return line, nil
}

func (s *CartService) RemoveItem(ctx context.Context, caller domain.Caller, menuItemID uuid.UUID) error {
	if err := authz.Permit(caller, authz.ResourceCart, authz.ActionDestroy); err != nil {
		return err
	}

	deleted, err := s.carts.DeleteItem(ctx, caller.UserID, menuItemID)
	if err != nil {
		return fmt.Errorf("s.carts.DeleteItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("cart line %s: %w", menuItemID, domain.ErrNotFound)
	}

	return nil
}

// Clear empties the caller's cart and reports how many lines were removed.
func (s *CartService) Clear(ctx context.Context, caller domain.Caller) (int64, error) {
	if err := authz.Permit(caller, authz.ResourceCart, authz.ActionDestroy); err != nil {
		return 0, err
	}

	removed, err := s.carts.Clear(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("s.carts.Clear: %w", err)
	}

	return removed, nil
}
