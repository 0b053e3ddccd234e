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

const selectBooks = `
SELECT b.id, b.title, b.author, b.category_id, b.price_amount, b.price_currency, b.created_at,
       COALESCE(r.average, 0), r.total
FROM books b
LEFT JOIN LATERAL (
    SELECT ROUND(AVG(score), 2) AS average, count(*) AS total FROM ratings WHERE book_id = b.id
) r ON TRUE`

var bookOrdering = map[string]string{
	"title":  "b.title",
	"author": "b.author",
	"price":  "b.price_amount",
	"rating": "COALESCE(r.average, 0)",
}

type bookRepository struct {
	db DBTX
}

func NewBook(pool *pgxpool.Pool) port.BookRepository {
	return &bookRepository{db: pool}
}

func (r *bookRepository) CreateBookCategory(ctx context.Context, category domain.BookCategory) (domain.BookCategory, error) {
	var created domain.BookCategory
	err := r.db.QueryRow(ctx, `INSERT INTO book_categories (id, name) VALUES ($1, $2) RETURNING id, name`,
		category.ID, category.Name).Scan(&created.ID, &created.Name)
	if err != nil {
		return domain.BookCategory{}, fmt.Errorf("insert book category: %w", mapError(err))
	}

	return created, nil
}

func (r *bookRepository) ListBookCategories(ctx context.Context) ([]domain.BookCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM book_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BookCategory, error) {
		var c domain.BookCategory
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return categories, nil
}

func (r *bookRepository) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	_, err := r.db.Exec(ctx, `
INSERT INTO books (id, title, author, category_id, price_amount, price_currency)
VALUES ($1, $2, $3, $4, $5, $6)`,
		book.ID,
		book.Title,
		book.Author,
		book.CategoryID,
		book.Price.Amount,
		book.Price.Currency.String(),
	)
	if err != nil {
		return domain.Book{}, fmt.Errorf("insert book: %w", mapError(err))
	}

	return r.GetBook(ctx, book.ID)
}

func (r *bookRepository) GetBook(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	book, err := scanBook(r.db.QueryRow(ctx, selectBooks+` WHERE b.id = $1`, id))
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", mapError(err))
	}

	return book, nil
}

func (r *bookRepository) ListBooks(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Book], error) {
	f := &filter{}
	if query.CategoryID != nil {
		f.add("b.category_id = $%d", *query.CategoryID)
	}
	if query.Search != "" {
		f.add("(b.title ILIKE $%d OR b.author ILIKE $%d)", likePattern(query.Search))
	}

	page := domain.Page[domain.Book]{Page: query.Page, PageSize: query.PageSize, Items: []domain.Book{}}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM books b`+f.where(), f.args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count books: %w", err)
	}
	if page.Total == 0 || int64(query.Offset()) >= page.Total {
		return page, nil
	}

	sql := selectBooks + f.where() +
		orderBy(query.Ordering, bookOrdering, "b.title", "b.id") +
		` LIMIT ` + f.next(query.PageSize) + ` OFFSET ` + f.next(query.Offset())

	rows, err := r.db.Query(ctx, sql, f.args...)
	if err != nil {
		return page, fmt.Errorf("db.Query: %w", err)
	}

	books, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Book, error) {
		return scanBook(row)
	})
	if err != nil {
		return page, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	page.Items = books
	return page, nil
}

func (r *bookRepository) UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	tag, err := r.db.Exec(ctx, `
UPDATE books SET title = $2, author = $3, category_id = $4, price_amount = $5, price_currency = $6
WHERE id = $1`,
		book.ID,
		book.Title,
		book.Author,
		book.CategoryID,
		book.Price.Amount,
		book.Price.Currency.String(),
	)
	if err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.Book{}, fmt.Errorf("update book: %w", domain.ErrNotFound)
	}

	return r.GetBook(ctx, book.ID)
}

func (r *bookRepository) DeleteBook(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return tag.RowsAffected() > 0, nil
}

func (r *bookRepository) UpsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	var saved domain.Rating
	err := r.db.QueryRow(ctx, `
INSERT INTO ratings (user_id, book_id, score, updated_at) VALUES ($1, $2, $3, now())
ON CONFLICT (user_id, book_id) DO UPDATE SET score = EXCLUDED.score, updated_at = now()
RETURNING user_id, book_id, score, updated_at`,
		rating.UserID, rating.BookID, rating.Score,
	).Scan(&saved.UserID, &saved.BookID, &saved.Score, &saved.UpdatedAt)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("upsert rating: %w", mapError(err))
	}

	return saved, nil
}

func (r *bookRepository) ListRatings(ctx context.Context, bookID *uuid.UUID) ([]domain.Rating, error) {
	f := &filter{}
	if bookID != nil {
		f.add("book_id = $%d", *bookID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT user_id, book_id, score, updated_at FROM ratings`+f.where()+` ORDER BY updated_at DESC, user_id`, f.args...)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Rating, error) {
		var rt domain.Rating
		err := row.Scan(&rt.UserID, &rt.BookID, &rt.Score, &rt.UpdatedAt)
		return rt, err
	})
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return ratings, nil
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var (
		book    domain.Book
		amount  decimal.Decimal
		code    string
		average decimal.Decimal
	)

	if err := row.Scan(&book.ID, &book.Title, &book.Author, &book.CategoryID, &amount, &code, &book.CreatedAt,
		&average, &book.Rating.Count); err != nil {
		return domain.Book{}, err
	}

	price, err := parseMoney(amount, code)
	if err != nil {
		return domain.Book{}, err
	}

	book.Price = price
	book.Rating.Average = average
	return book, nil
}
