// Command seed fills an empty database with a demo menu, books and staff.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/config"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/logger"
	"github.com/nikolayk812/littlelemon/internal/migrations"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/nikolayk812/littlelemon/internal/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var menuCategories = []string{"Starters", "Main Courses", "Desserts", "Drinks"}

type seeder struct {
	faker *gofakeit.Faker
	unit  currency.Unit
	log   zerolog.Logger

	categories port.CategoryRepository
	menu       port.MenuItemRepository
	books      port.BookRepository
	members    port.MembershipRepository
}

func main() {
	var (
		seed     = flag.Uint64("seed", 42, "random seed")
		items    = flag.Int("menu-items", 5, "menu items per category")
		books    = flag.Int("books", 20, "number of books")
		managers = flag.Int("managers", 1, "number of managers")
		crew     = flag.Int("crew", 3, "number of delivery crew members")
	)
	flag.Parse()

	cfg, err := config.Load()
	must(err)

	logg, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	must(err)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DB.URL)
	must(err)
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		_, err := migrations.Apply(ctx, pool)
		must(err)
	}

	s := seeder{
		faker:      gofakeit.New(*seed),
		unit:       cfg.Catalog.Currency,
		log:        logg,
		categories: repository.NewCategory(pool),
		menu:       repository.NewMenuItem(pool),
		books:      repository.NewBook(pool),
		members:    repository.NewMembership(pool),
	}

	must(s.seedMenu(ctx, *items))
	must(s.seedBooks(ctx, *books))
	must(s.seedStaff(ctx, domain.GroupManager, *managers))
	must(s.seedStaff(ctx, domain.GroupDeliveryCrew, *crew))

	logg.Info().Msg("seed complete")
}

func (s seeder) seedMenu(ctx context.Context, perCategory int) error {
	for _, title := range menuCategories {
		category, err := s.categories.CreateCategory(ctx, domain.Category{
			ID:    uuid.New(),
			Title: title,
			Slug:  domain.Slugify(title),
		})
		if errors.Is(err, domain.ErrConflict) {
			s.log.Info().Str("category", title).Msg("category exists, skipped")
			continue
		}
		if err != nil {
			return fmt.Errorf("s.categories.CreateCategory: %w", err)
		}

		for range perCategory {
			title := s.faker.Dessert() + " " + s.faker.Adjective()
			_, err := s.menu.CreateMenuItem(ctx, domain.MenuItem{
				ID:         uuid.New(),
				Title:      title,
				Slug:       domain.Slugify(title),
				Price:      s.price(2, 40),
				Featured:   s.faker.Bool(),
				CategoryID: category.ID,
			})
			if errors.Is(err, domain.ErrConflict) {
				continue
			}
			if err != nil {
				return fmt.Errorf("s.menu.CreateMenuItem: %w", err)
			}
		}
	}

	return nil
}

func (s seeder) seedBooks(ctx context.Context, n int) error {
	genres := map[string]domain.BookCategory{}
	existing, err := s.books.ListBookCategories(ctx)
	if err != nil {
		return fmt.Errorf("s.books.ListBookCategories: %w", err)
	}
	for _, c := range existing {
		genres[c.Name] = c
	}

	for range n {
		genre := s.faker.BookGenre()
		category, ok := genres[genre]
		if !ok {
			category, err = s.books.CreateBookCategory(ctx, domain.BookCategory{ID: uuid.New(), Name: genre})
			if err != nil {
				return fmt.Errorf("s.books.CreateBookCategory: %w", err)
			}
			genres[genre] = category
		}

		if _, err := s.books.CreateBook(ctx, domain.Book{
			ID:         uuid.New(),
			Title:      s.faker.BookTitle(),
			Author:     s.faker.BookAuthor(),
			CategoryID: category.ID,
			Price:      s.price(5, 60),
		}); err != nil {
			return fmt.Errorf("s.books.CreateBook: %w", err)
		}
	}

	return nil
}

func (s seeder) seedStaff(ctx context.Context, group string, n int) error {
	for range n {
		userID := s.faker.Username()
		if err := s.members.AddMember(ctx, group, userID); err != nil {
			return fmt.Errorf("s.members.AddMember: %w", err)
		}
		s.log.Info().Str("group", group).Str("user_id", userID).Msg("staff added")
	}
	return nil
}

func (s seeder) price(lo, hi float64) domain.Money {
	return domain.NewMoney(decimal.NewFromFloat(s.faker.Price(lo, hi)).Round(2), s.unit)
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}
