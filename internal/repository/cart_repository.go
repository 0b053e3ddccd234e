package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/shopspring/decimal"
)

const selectCartItems = `
SELECT c.menu_item_id, m.title, c.quantity, c.unit_price_amount, c.unit_price_currency, c.created_at
FROM cart_items c
JOIN menu_items m ON m.id = c.menu_item_id
WHERE c.owner_id = $1
ORDER BY c.created_at, c.menu_item_id`

type cartRepository struct {
	db   DBTX
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return newCart(pool, pool)
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return newCart(tx, nil) // use provided transaction instead
}

func newCart(db DBTX, pool *pgxpool.Pool) *cartRepository {
	return &cartRepository{db: db, pool: pool}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	return r.getCart(ctx, ownerID, selectCartItems)
}

func (r *cartRepository) LockCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	return r.getCart(ctx, ownerID, selectCartItems+" FOR UPDATE OF c")
}

func (r *cartRepository) getCart(ctx context.Context, ownerID, query string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("db.Query: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	_, err := r.db.Exec(ctx, `
INSERT INTO cart_items (owner_id, menu_item_id, quantity, unit_price_amount, unit_price_currency)
VALUES ($1, $2, $3, $4, $5)`,
		ownerID,
		item.MenuItemID,
		item.Quantity,
		item.UnitPrice.Amount,
		item.UnitPrice.Currency.String(),
	)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, menuItemID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1 AND menu_item_id = $2`, ownerID, menuItemID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanCartItem(row pgx.CollectableRow) (domain.CartItem, error) {
	var (
		item      domain.CartItem
		amount    decimal.Decimal
		code      string
		createdAt time.Time
	)

	if err := row.Scan(&item.MenuItemID, &item.Title, &item.Quantity, &amount, &code, &createdAt); err != nil {
		return domain.CartItem{}, err
	}

	price, err := parseMoney(amount, code)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("parseMoney: %w", err)
	}

	item.UnitPrice = price
	item.CreatedAt = createdAt
	return item, nil
}
