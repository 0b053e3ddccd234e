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

const orderColumns = `o.id, o.owner_id, o.delivery_crew_id, o.delivered, o.total_amount, o.total_currency, o.created_at`

var orderOrdering = map[string]string{
	"created_at":  "o.created_at",
	"total_price": "o.total_amount",
	"status":      "o.delivered",
}

type orderRepository struct {
	db   DBTX
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return newOrder(pool, pool)
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return newOrder(tx, nil)
}

func newOrder(db DBTX, pool *pgxpool.Pool) *orderRepository {
	return &orderRepository{db: db, pool: pool}
}

// CreateOrder inserts the header and every item atomically. Inside a
// transaction it joins it, otherwise it opens its own.
func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	if order.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("order has no items")
	}

	_, err := withTx(ctx, r.pool, r.db, func(db DBTX) (struct{}, error) {
		_, err := db.Exec(ctx, `
INSERT INTO orders (id, owner_id, delivery_crew_id, delivered, total_amount, total_currency, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID,
			order.OwnerID,
			nullable(order.DeliveryCrewID),
			order.Delivered,
			order.TotalPrice.Amount,
			order.TotalPrice.Currency.String(),
			order.CreatedAt,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert order: %w", mapError(err))
		}

		batch := &pgx.Batch{}
		for _, item := range order.Items {
			batch.Queue(`
INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price_amount, unit_price_currency)
VALUES ($1, $2, $3, $4, $5)`,
				order.ID,
				item.MenuItemID,
				item.Quantity,
				item.UnitPrice.Amount,
				item.UnitPrice.Currency.String(),
			)
		}

		results := db.SendBatch(ctx, batch)
		for range order.Items {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return struct{}{}, fmt.Errorf("insert order item: %w", mapError(err))
			}
		}
		if err := results.Close(); err != nil {
			return struct{}{}, fmt.Errorf("results.Close: %w", mapError(err))
		}

		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) GetOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID) (domain.Order, error) {
	f := scopeFilter(scope)
	f.add("o.id = $%d", id)

	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o`+f.where(), f.args...)
	order, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("scanOrder: %w", mapError(err))
	}

	if err := r.loadItems(ctx, []*domain.Order{&order}); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, scope domain.OrderScope, query domain.ListQuery) (domain.Page[domain.Order], error) {
	f := scopeFilter(scope)
	if query.Delivered != nil {
		f.add("o.delivered = $%d", *query.Delivered)
	}

	page := domain.Page[domain.Order]{Page: query.Page, PageSize: query.PageSize, Items: []domain.Order{}}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders o`+f.where(), f.args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count orders: %w", err)
	}
	if page.Total == 0 || int64(query.Offset()) >= page.Total {
		return page, nil
	}

	sql := `SELECT ` + orderColumns + ` FROM orders o` + f.where() +
		orderBy(query.Ordering, orderOrdering, "o.created_at DESC", "o.id") +
		` LIMIT ` + f.next(query.PageSize) + ` OFFSET ` + f.next(query.Offset())

	rows, err := r.db.Query(ctx, sql, f.args...)
	if err != nil {
		return page, fmt.Errorf("db.Query: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return page, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	refs := make([]*domain.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return page, err
	}

	page.Items = orders
	return page, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	f := scopeFilter(scope)
	f.add("o.id = $%d", id)
	delivered := f.next(patch.Delivered)
	setCrew := f.next(patch.SetDeliveryCrew)
	crew := f.next(nullable(patch.DeliveryCrewID))

	sql := `
UPDATE orders o SET
	delivered = COALESCE(` + delivered + `::boolean, o.delivered),
	delivery_crew_id = CASE WHEN ` + setCrew + `::boolean THEN ` + crew + `::text ELSE o.delivery_crew_id END` +
		f.where() + `
RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, sql, f.args...))
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", mapError(err))
	}

	if err := r.loadItems(ctx, []*domain.Order{&order}); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, scope domain.OrderScope, id uuid.UUID) (bool, error) {
	f := scopeFilter(scope)
	f.add("o.id = $%d", id)

	tag, err := r.db.Exec(ctx, `DELETE FROM orders o`+f.where(), f.args...)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		o.Items = []domain.OrderItem{}
		byID[o.ID] = o
	}

	rows, err := r.db.Query(ctx, `
SELECT i.order_id, i.menu_item_id, m.title, i.quantity, i.unit_price_amount, i.unit_price_currency
FROM order_items i
JOIN menu_items m ON m.id = i.menu_item_id
WHERE i.order_id = ANY($1::uuid[])
ORDER BY i.order_id, m.title, i.menu_item_id`, ids)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    domain.OrderItem
			amount  decimal.Decimal
			code    string
		)
		if err := rows.Scan(&orderID, &item.MenuItemID, &item.Title, &item.Quantity, &amount, &code); err != nil {
			return fmt.Errorf("rows.Scan: %w", err)
		}

		item.UnitPrice, err = parseMoney(amount, code)
		if err != nil {
			return fmt.Errorf("parseMoney: %w", err)
		}

		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

// scopeFilter puts the caller's visibility into the WHERE clause itself.
func scopeFilter(scope domain.OrderScope) *filter {
	f := &filter{}
	if scope.OwnerID != "" {
		f.add("o.owner_id = $%d", scope.OwnerID)
	}
	if scope.DeliveryCrewID != "" {
		f.add("o.delivery_crew_id = $%d", scope.DeliveryCrewID)
	}
	return f
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		order     domain.Order
		crew      *string
		amount    decimal.Decimal
		code      string
		createdAt time.Time
	)

	if err := row.Scan(&order.ID, &order.OwnerID, &crew, &order.Delivered, &amount, &code, &createdAt); err != nil {
		return domain.Order{}, err
	}

	total, err := parseMoney(amount, code)
	if err != nil {
		return domain.Order{}, err
	}

	if crew != nil {
		order.DeliveryCrewID = *crew
	}
	order.TotalPrice = total
	order.CreatedAt = createdAt
	return order, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
