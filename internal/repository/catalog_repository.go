package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/shopspring/decimal"
)

const menuItemColumns = `m.id, m.title, m.slug, m.price_amount, m.price_currency, m.featured, m.category_id, m.created_at`

var menuItemOrdering = map[string]string{
	"title":      "m.title",
	"price":      "m.price_amount",
	"featured":   "m.featured",
	"created_at": "m.created_at",
}

type categoryRepository struct {
	db DBTX
}

func NewCategory(pool *pgxpool.Pool) port.CategoryRepository {
	return &categoryRepository{db: pool}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO categories (id, slug, title) VALUES ($1, $2, $3)
RETURNING id, slug, title, created_at`,
		category.ID, category.Slug, category.Title)

	created, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", mapError(err))
	}

	return created, nil
}

func (r *categoryRepository) GetCategory(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	row := r.db.QueryRow(ctx, `SELECT id, slug, title, created_at FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row)
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", mapError(err))
	}

	return category, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, title, created_at FROM categories ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		return scanCategory(row)
	})
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.CreatedAt)
	return c, err
}

type menuItemRepository struct {
	db DBTX
}

func NewMenuItem(pool *pgxpool.Pool) port.MenuItemRepository {
	return &menuItemRepository{db: pool}
}

func (r *menuItemRepository) CreateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO menu_items AS m (id, title, slug, price_amount, price_currency, featured, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+menuItemColumns,
		item.ID,
		item.Title,
		item.Slug,
		item.Price.Amount,
		item.Price.Currency.String(),
		item.Featured,
		item.CategoryID,
	)

	created, err := scanMenuItem(row)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("insert menu item: %w", mapError(err))
	}

	return created, nil
}

func (r *menuItemRepository) GetMenuItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items m WHERE m.id = $1`, id)

	item, err := scanMenuItem(row)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("get menu item: %w", mapError(err))
	}

	return item, nil
}

func (r *menuItemRepository) ListMenuItems(ctx context.Context, query domain.ListQuery) (domain.Page[domain.MenuItem], error) {
	f := &filter{}
	if query.CategoryID != nil {
		f.add("m.category_id = $%d", *query.CategoryID)
	}
	if query.Featured != nil {
		f.add("m.featured = $%d", *query.Featured)
	}
	if query.Search != "" {
		f.add("m.title ILIKE $%d", likePattern(query.Search))
	}

	page := domain.Page[domain.MenuItem]{Page: query.Page, PageSize: query.PageSize, Items: []domain.MenuItem{}}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM menu_items m`+f.where(), f.args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count menu items: %w", err)
	}
	if page.Total == 0 || int64(query.Offset()) >= page.Total {
		return page, nil
	}

	sql := `SELECT ` + menuItemColumns + ` FROM menu_items m` + f.where() +
		orderBy(query.Ordering, menuItemOrdering, "m.title", "m.id") +
		` LIMIT ` + f.next(query.PageSize) + ` OFFSET ` + f.next(query.Offset())

	rows, err := r.db.Query(ctx, sql, f.args...)
	if err != nil {
		return page, fmt.Errorf("db.Query: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MenuItem, error) {
		return scanMenuItem(row)
	})
	if err != nil {
		return page, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	page.Items = items
	return page, nil
}

func (r *menuItemRepository) UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `
UPDATE menu_items m SET
	title = $2, slug = $3, price_amount = $4, price_currency = $5, featured = $6, category_id = $7
WHERE m.id = $1
RETURNING `+menuItemColumns,
		item.ID,
		item.Title,
		item.Slug,
		item.Price.Amount,
		item.Price.Currency.String(),
		item.Featured,
		item.CategoryID,
	)

	updated, err := scanMenuItem(row)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("update menu item: %w", mapError(err))
	}

	return updated, nil
}

func (r *menuItemRepository) DeleteMenuItem(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var (
		item   domain.MenuItem
		amount decimal.Decimal
		code   string
	)

	if err := row.Scan(&item.ID, &item.Title, &item.Slug, &amount, &code, &item.Featured, &item.CategoryID, &item.CreatedAt); err != nil {
		return domain.MenuItem{}, err
	}

	price, err := parseMoney(amount, code)
	if err != nil {
		return domain.MenuItem{}, err
	}

	item.Price = price
	return item, nil
}
