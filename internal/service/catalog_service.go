package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/authz"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MenuItemInput carries the writable fields of a menu item.
type MenuItemInput struct {
	Title      string
	Price      decimal.Decimal
	Featured   bool
	CategoryID uuid.UUID
}

type CatalogService struct {
	categories port.CategoryRepository
	menu       port.MenuItemRepository
	currency   currency.Unit
	paging     Paging
	log        zerolog.Logger
}

func NewCatalogService(
	categories port.CategoryRepository,
	menu port.MenuItemRepository,
	unit currency.Unit,
	paging Paging,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		menu:       menu,
		currency:   unit,
		paging:     paging,
		log:        log.With().Str("component", "catalog").Logger(),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, caller domain.Caller) ([]domain.Category, error) {
	if err := authz.Permit(caller, authz.ResourceCategories, authz.ActionList); err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.categories.ListCategories: %w", err)
	}

	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Category, error) {
	if err := authz.Permit(caller, authz.ResourceCategories, authz.ActionRetrieve); err != nil {
		return domain.Category{}, err
	}

	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.categories.GetCategory: %w", err)
	}

	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, caller domain.Caller, title string) (domain.Category, error) {
	if err := authz.Permit(caller, authz.ResourceCategories, authz.ActionCreate); err != nil {
		return domain.Category{}, err
	}

	category := domain.Category{ID: uuid.New(), Title: title, Slug: domain.Slugify(title)}
	if err := category.Validate(); err != nil {
		return domain.Category{}, err
	}

	created, err := s.categories.CreateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.categories.CreateCategory: %w", err)
	}

	return created, nil
}

// DeleteCategory fails with ErrConflict while menu items still reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := authz.Permit(caller, authz.ResourceCategories, authz.ActionDestroy); err != nil {
		return err
	}

	deleted, err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("s.categories.DeleteCategory: %w", err)
	}
	if !deleted {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *CatalogService) ListMenuItems(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.MenuItem], error) {
	if err := authz.Permit(caller, authz.ResourceMenuItems, authz.ActionList); err != nil {
		return domain.Page[domain.MenuItem]{}, err
	}

	query, err := s.paging.normalize(query)
	if err != nil {
		return domain.Page[domain.MenuItem]{}, err
	}

	page, err := s.menu.ListMenuItems(ctx, query)
	if err != nil {
		return domain.Page[domain.MenuItem]{}, fmt.Errorf("s.menu.ListMenuItems: %w", err)
	}

	return page, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.MenuItem, error) {
	if err := authz.Permit(caller, authz.ResourceMenuItems, authz.ActionRetrieve); err != nil {
		return domain.MenuItem{}, err
	}

	item, err := s.menu.GetMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.menu.GetMenuItem: %w", err)
	}

	return item, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, caller domain.Caller, in MenuItemInput) (domain.MenuItem, error) {
	if err := authz.Permit(caller, authz.ResourceMenuItems, authz.ActionCreate); err != nil {
		return domain.MenuItem{}, err
	}

	item := domain.MenuItem{
		ID:         uuid.New(),
		Title:      in.Title,
		Slug:       domain.Slugify(in.Title),
		Price:      domain.NewMoney(in.Price, s.currency),
		Featured:   in.Featured,
		CategoryID: in.CategoryID,
	}
	if err := s.validate(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}

	created, err := s.menu.CreateMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.menu.CreateMenuItem: %w", err)
	}

	s.log.Info().Str("menu_item_id", created.ID.String()).Str("title", created.Title).Msg("menu item created")
	return created, nil
}

func (s *CatalogService) ReplaceMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID, in MenuItemInput) (domain.MenuItem, error) {
	price := domain.NewMoney(in.Price, s.currency)
	patch := domain.MenuItemPatch{
		Title:      &in.Title,
		Price:      &price,
		Featured:   &in.Featured,
		CategoryID: &in.CategoryID,
	}
	return s.updateMenuItem(ctx, caller, id, authz.ActionUpdate, patch)
}

func (s *CatalogService) PatchMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	if patch.Price != nil {
		price := domain.NewMoney(patch.Price.Amount, s.currency)
		patch.Price = &price
	}
	return s.updateMenuItem(ctx, caller, id, authz.ActionPartialUpdate, patch)
}

func (s *CatalogService) updateMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID, action authz.Action, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	if err := authz.Permit(caller, authz.ResourceMenuItems, action); err != nil {
		return domain.MenuItem{}, err
	}

	current, err := s.menu.GetMenuItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.menu.GetMenuItem: %w", err)
	}

	item := patch.Apply(current)
	if err := s.validate(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}

	updated, err := s.menu.UpdateMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.menu.UpdateMenuItem: %w", err)
	}

	return updated, nil
}

// DeleteMenuItem fails with ErrConflict once the item appears in an order.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := authz.Permit(caller, authz.ResourceMenuItems, authz.ActionDestroy); err != nil {
		return err
	}

	deleted, err := s.menu.DeleteMenuItem(ctx, id)
	if err != nil {
		return fmt.Errorf("s.menu.DeleteMenuItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (s *CatalogService) validate(ctx context.Context, item domain.MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	_, err := s.categories.GetCategory(ctx, item.CategoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalid("category %s does not exist", item.CategoryID)
	}
	if err != nil {
		return fmt.Errorf("s.categories.GetCategory: %w", err)
	}

	return nil
}
