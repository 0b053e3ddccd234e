package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_catalog.up.sql",
			"../migrations/02_cart_items.up.sql",
			"../migrations/03_orders.up.sql",
			"../migrations/04_user_groups.up.sql",
			"../migrations/05_books.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: currency.USD,
	}
}

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: currency.USD}
}

func randomCategory() domain.Category {
	title := gofakeit.Adjective() + " " + gofakeit.Noun() + " " + gofakeit.LetterN(6)
	return domain.Category{
		ID:    uuid.New(),
		Title: title,
		Slug:  domain.Slugify(title),
	}
}

func randomMenuItem(categoryID uuid.UUID) domain.MenuItem {
	title := gofakeit.Dessert() + " " + gofakeit.LetterN(4)
	return domain.MenuItem{
		ID:         uuid.New(),
		Title:      title,
		Slug:       domain.Slugify(title),
		Price:      randomMoney(),
		Featured:   gofakeit.Bool(),
		CategoryID: categoryID,
	}
}

// insertMenuItems stores n menu items under a fresh category.
func insertMenuItems(t *testing.T, pool *pgxpool.Pool, n int) []domain.MenuItem {
	t.Helper()
	ctx := t.Context()

	category, err := repository.NewCategory(pool).CreateCategory(ctx, randomCategory())
	require.NoError(t, err)

	items := make([]domain.MenuItem, 0, n)
	for range n {
		item, err := repository.NewMenuItem(pool).CreateMenuItem(ctx, randomMenuItem(category.ID))
		require.NoError(t, err)
		items = append(items, item)
	}

	return items
}

func cartItemOf(item domain.MenuItem, quantity int) domain.CartItem {
	return domain.CartItem{
		MenuItemID: item.ID,
		Title:      item.Title,
		Quantity:   quantity,
		UnitPrice:  item.Price,
	}
}
