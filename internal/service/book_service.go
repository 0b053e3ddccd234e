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

// BookInput carries the writable fields of a book. A nil price means the
// default price.
type BookInput struct {
	Title      string
	Author     string
	CategoryID uuid.UUID
	Price      *decimal.Decimal
}

type BookService struct {
	books    port.BookRepository
	currency currency.Unit
	paging   Paging
	log      zerolog.Logger
}

func NewBookService(books port.BookRepository, unit currency.Unit, paging Paging, log zerolog.Logger) *BookService {
	return &BookService{
		books:    books,
		currency: unit,
		paging:   paging,
		log:      log.With().Str("component", "books").Logger(),
	}
}

func (s *BookService) ListBookCategories(ctx context.Context, caller domain.Caller) ([]domain.BookCategory, error) {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionList); err != nil {
		return nil, err
	}

	categories, err := s.books.ListBookCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.books.ListBookCategories: %w", err)
	}

	return categories, nil
}

func (s *BookService) CreateBookCategory(ctx context.Context, caller domain.Caller, name string) (domain.BookCategory, error) {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionCreate); err != nil {
		return domain.BookCategory{}, err
	}

	category := domain.BookCategory{ID: uuid.New(), Name: name}
	if err := category.Validate(); err != nil {
		return domain.BookCategory{}, err
	}

	created, err := s.books.CreateBookCategory(ctx, category)
	if err != nil {
		return domain.BookCategory{}, fmt.Errorf("s.books.CreateBookCategory: %w", err)
	}

	return created, nil
}

func (s *BookService) ListBooks(ctx context.Context, caller domain.Caller, query domain.ListQuery) (domain.Page[domain.Book], error) {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionList); err != nil {
		return domain.Page[domain.Book]{}, err
	}

	query, err := s.paging.normalize(query)
	if err != nil {
		return domain.Page[domain.Book]{}, err
	}

	page, err := s.books.ListBooks(ctx, query)
	if err != nil {
		return domain.Page[domain.Book]{}, fmt.Errorf("s.books.ListBooks: %w", err)
	}

	return page, nil
}

func (s *BookService) GetBook(ctx context.Context, caller domain.Caller, id uuid.UUID) (domain.Book, error) {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionRetrieve); err != nil {
		return domain.Book{}, err
	}

	book, err := s.books.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.books.GetBook: %w", err)
	}

	return book, nil
}

func (s *BookService) CreateBook(ctx context.Context, caller domain.Caller, in BookInput) (domain.Book, error) {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionCreate); err != nil {
		return domain.Book{}, err
	}

	price := domain.DefaultBookPrice
	if in.Price != nil {
		price = *in.Price
	}

	book := domain.Book{
		ID:         uuid.New(),
		Title:      in.Title,
		Author:     in.Author,
		CategoryID: in.CategoryID,
		Price:      domain.NewMoney(price, s.currency),
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}

	created, err := s.books.CreateBook(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.books.CreateBook: %w", unknownCategory(err, book.CategoryID))
	}

	return created, nil
}

func (s *BookService) ReplaceBook(ctx context.Context, caller domain.Caller, id uuid.UUID, in BookInput) (domain.Book, error) {
	patch := domain.BookPatch{Title: &in.Title, Author: &in.Author, CategoryID: &in.CategoryID}

	amount := domain.DefaultBookPrice
	if in.Price != nil {
		amount = *in.Price
	}
	price := domain.NewMoney(amount, s.currency)
	patch.Price = &price

	return s.updateBook(ctx, caller, id, authz.ActionUpdate, patch)
}

func (s *BookService) PatchBook(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.BookPatch) (domain.Book, error) {
	if patch.Price != nil {
		price := domain.NewMoney(patch.Price.Amount, s.currency)
		patch.Price = &price
	}
	return s.updateBook(ctx, caller, id, authz.ActionPartialUpdate, patch)
}

func (s *BookService) updateBook(ctx context.Context, caller domain.Caller, id uuid.UUID, action authz.Action, patch domain.BookPatch) (domain.Book, error) {
	if err := authz.Permit(caller, authz.ResourceBooks, action); err != nil {
		return domain.Book{}, err
	}

	current, err := s.books.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.books.GetBook: %w", err)
	}

	book := patch.Apply(current)
	if err := book.Validate(); err != nil {
		return domain.Book{}, err
	}

	updated, err := s.books.UpdateBook(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.books.UpdateBook: %w", unknownCategory(err, book.CategoryID))
	}

	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, caller domain.Caller, id uuid.UUID) error {
	if err := authz.Permit(caller, authz.ResourceBooks, authz.ActionDestroy); err != nil {
		return err
	}

	deleted, err := s.books.DeleteBook(ctx, id)
	if err != nil {
		return fmt.Errorf("s.books.DeleteBook: %w", err)
	}
	if !deleted {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListRatings lists every rating, or those of one book when bookID is set.
func (s *BookService) ListRatings(ctx context.Context, caller domain.Caller, bookID *uuid.UUID) ([]domain.Rating, error) {
	if err := authz.Permit(caller, authz.ResourceRatings, authz.ActionList); err != nil {
		return nil, err
	}

	ratings, err := s.books.ListRatings(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("s.books.ListRatings: %w", err)
	}

	return ratings, nil
}

// RateBook stores the caller's score for a book, replacing an earlier one.
func (s *BookService) RateBook(ctx context.Context, caller domain.Caller, bookID uuid.UUID, score int) (domain.Rating, error) {
	if err := authz.Permit(caller, authz.ResourceRatings, authz.ActionCreate); err != nil {
		return domain.Rating{}, err
	}

	rating := domain.Rating{UserID: caller.UserID, BookID: bookID, Score: score}
	if err := rating.Validate(); err != nil {
		return domain.Rating{}, err
	}

	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return domain.Rating{}, fmt.Errorf("s.books.GetBook: %w", err)
	}

	saved, err := s.books.UpsertRating(ctx, rating)
	if err != nil {
		// the book vanished between the lookup and the upsert
		if errors.Is(err, domain.ErrConflict) {
			return domain.Rating{}, fmt.Errorf("book %s: %w", bookID, domain.ErrNotFound)
		}
		return domain.Rating{}, fmt.Errorf("s.books.UpsertRating: %w", err)
	}

	return saved, nil
}

// unknownCategory reports a foreign key miss on the category as bad input.
func unknownCategory(err error, categoryID uuid.UUID) error {
	if errors.Is(err, domain.ErrConflict) {
		return domain.Invalid("category %s does not exist", categoryID)
	}
	return err
}
