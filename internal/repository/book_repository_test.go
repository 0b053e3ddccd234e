package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/port"
	"github.com/nikolayk812/littlelemon/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type bookRepositorySuite struct {
	suite.Suite

	repo port.BookRepository
	pool *pgxpool.Pool
}

func TestBookRepositorySuite(t *testing.T) {
	suite.Run(t, new(bookRepositorySuite))
}

func (suite *bookRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewBook(suite.pool)
}

func (suite *bookRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *bookRepositorySuite) TestBookCategories() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	fiction := domain.BookCategory{ID: uuid.New(), Name: "Fiction"}
	created, err := suite.repo.CreateBookCategory(ctx, fiction)
	require.NoError(t, err)
	assert.Equal(t, fiction, created)

	_, err = suite.repo.CreateBookCategory(ctx, domain.BookCategory{ID: uuid.New(), Name: "Fiction"})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = suite.repo.CreateBookCategory(ctx, domain.BookCategory{ID: uuid.New(), Name: "Biography"})
	require.NoError(t, err)

	list, err := suite.repo.ListBookCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Biography", list[0].Name)
}

func (suite *bookRepositorySuite) TestCreateGetDeleteBook() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := suite.createCategory()
	book := randomBook(category.ID)

	created, err := suite.repo.CreateBook(ctx, book)
	require.NoError(t, err)
	assertBook(t, book, created)
	assert.True(t, created.Rating.Average.IsZero())
	assert.Zero(t, created.Rating.Count)

	_, err = suite.repo.CreateBook(ctx, randomBook(uuid.New()))
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := suite.repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assertBook(t, book, got)

	deleted, err := suite.repo.DeleteBook(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = suite.repo.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *bookRepositorySuite) TestUpdateBook() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := suite.createCategory()
	book, err := suite.repo.CreateBook(ctx, randomBook(category.ID))
	require.NoError(t, err)

	author := "Ursula K. Le Guin"
	price := usd("31.99")
	patched := domain.BookPatch{Author: &author, Price: &price}.Apply(book)

	updated, err := suite.repo.UpdateBook(ctx, patched)
	require.NoError(t, err)
	assertBook(t, patched, updated)

	_, err = suite.repo.UpdateBook(ctx, randomBook(category.ID))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *bookRepositorySuite) TestRatings() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category := suite.createCategory()
	book, err := suite.repo.CreateBook(ctx, randomBook(category.ID))
	require.NoError(t, err)
	other, err := suite.repo.CreateBook(ctx, randomBook(category.ID))
	require.NoError(t, err)

	alice := gofakeit.UUID()
	bob := gofakeit.UUID()

	_, err = suite.repo.UpsertRating(ctx, domain.Rating{UserID: alice, BookID: book.ID, Score: 2})
	require.NoError(t, err)
	_, err = suite.repo.UpsertRating(ctx, domain.Rating{UserID: bob, BookID: book.ID, Score: 5})
	require.NoError(t, err)
	_, err = suite.repo.UpsertRating(ctx, domain.Rating{UserID: bob, BookID: other.ID, Score: 1})
	require.NoError(t, err)

	// re-rating overwrites
	saved, err := suite.repo.UpsertRating(ctx, domain.Rating{UserID: alice, BookID: book.ID, Score: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Score)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := suite.repo.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rating.Count)
	assert.True(t, decimal.RequireFromString("4.5").Equal(got.Rating.Average), got.Rating.Average.String())

	ratings, err := suite.repo.ListRatings(ctx, &book.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	ratings, err = suite.repo.ListRatings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, ratings, 3)

	_, err = suite.repo.UpsertRating(ctx, domain.Rating{UserID: alice, BookID: book.ID, Score: 6})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = suite.repo.UpsertRating(ctx, domain.Rating{UserID: alice, BookID: uuid.New(), Score: 3})
	require.ErrorIs(t, err, domain.ErrConflict)

	page, err := suite.repo.ListBooks(ctx, domain.ListQuery{
		Page:     1,
		PageSize: 10,
		Ordering: []domain.OrderField{{Name: "rating", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, book.ID, page.Items[0].ID)
	assert.Equal(t, other.ID, page.Items[1].ID)
}

func (suite *bookRepositorySuite) TestListBooks() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	novels := suite.createCategory()
	poetry := suite.createCategory()

	create := func(title, author string, categoryID uuid.UUID) domain.Book {
		book := randomBook(categoryID)
		book.Title = title
		book.Author = author
		created, err := suite.repo.CreateBook(ctx, book)
		require.NoError(t, err)
		return created
	}

	dune := create("Dune", "Frank Herbert", novels.ID)
	emma := create("Emma", "Jane Austen", novels.ID)
	odes := create("Odes", "John Keats", poetry.ID)

	tests := []struct {
		name      string
		query     domain.ListQuery
		wantTotal int64
		wantIDs   []uuid.UUID
	}{
		{
			name:      "default ordering by title",
			query:     domain.ListQuery{Page: 1, PageSize: 10},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{dune.ID, emma.ID, odes.ID},
		},
		{
			name:      "category filter",
			query:     domain.ListQuery{Page: 1, PageSize: 10, CategoryID: &poetry.ID},
			wantTotal: 1,
			wantIDs:   []uuid.UUID{odes.ID},
		},
		{
			name:      "search matches author",
			query:     domain.ListQuery{Page: 1, PageSize: 10, Search: "austen"},
			wantTotal: 1,
			wantIDs:   []uuid.UUID{emma.ID},
		},
		{
			name:      "author descending",
			query:     domain.ListQuery{Page: 1, PageSize: 10, Ordering: []domain.OrderField{{Name: "author", Desc: true}}},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{odes.ID, emma.ID, dune.ID},
		},
		{
			name:      "page past the end",
			query:     domain.ListQuery{Page: 99, PageSize: 10},
			wantTotal: 3,
			wantIDs:   []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			page, err := suite.repo.ListBooks(t.Context(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)

			ids := make([]uuid.UUID, 0, len(page.Items))
			for _, b := range page.Items {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func (suite *bookRepositorySuite) createCategory() domain.BookCategory {
	category, err := suite.repo.CreateBookCategory(suite.T().Context(),
		domain.BookCategory{ID: uuid.New(), Name: gofakeit.BookGenre() + " " + gofakeit.LetterN(6)})
	suite.Require().NoError(err)
	return category
}

func (suite *bookRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE ratings, books, book_categories CASCADE")
	suite.NoError(err)
}

func randomBook(categoryID uuid.UUID) domain.Book {
	return domain.Book{
		ID:         uuid.New(),
		Title:      gofakeit.BookTitle(),
		Author:     gofakeit.BookAuthor(),
		CategoryID: categoryID,
		Price:      randomMoney(),
	}
}

func assertBook(t *testing.T, expected, actual domain.Book) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Book{}, "CreatedAt", "Rating"),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
	assert.False(t, actual.CreatedAt.IsZero())
}
