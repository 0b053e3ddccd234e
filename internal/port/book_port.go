package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

type BookRepository interface {
	CreateBookCategory(ctx context.Context, category domain.BookCategory) (domain.BookCategory, error)
	ListBookCategories(ctx context.Context) ([]domain.BookCategory, error)

	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (domain.Book, error)
	ListBooks(ctx context.Context, query domain.ListQuery) (domain.Page[domain.Book], error)
	UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) (bool, error)

	UpsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)
	// ListRatings returns every rating, or only those of bookID when it is not nil.
	ListRatings(ctx context.Context, bookID *uuid.UUID) ([]domain.Rating, error)
}
