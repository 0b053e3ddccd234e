package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxBookFieldLength = 100

	MinRating = 0
	MaxRating = 5
)

// DefaultBookPrice applies when a book is created without a price.
var DefaultBookPrice = decimal.NewFromInt(20)

type BookCategory struct {
	ID   uuid.UUID
	Name string
}

type Book struct {
	ID         uuid.UUID
	Title      string
	Author     string
	CategoryID uuid.UUID
	Price      Money
	Rating     RatingSummary

	CreatedAt time.Time
}

// RatingSummary aggregates every rating of a book.
type RatingSummary struct {
	Average decimal.Decimal
	Count   int
}

type BookPatch struct {
	Title      *string
	Author     *string
	CategoryID *uuid.UUID
	Price      *Money
}

func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	return b
}

type Rating struct {
	UserID string
	BookID uuid.UUID
	Score  int

	UpdatedAt time.Time
}

func (c BookCategory) Validate() error {
	return validateTitle("name", c.Name, maxBookFieldLength)
}

func (b Book) Validate() error {
	if err := validateTitle("title", b.Title, maxBookFieldLength); err != nil {
		return err
	}
	if err := validateTitle("author", b.Author, maxBookFieldLength); err != nil {
		return err
	}
	if b.CategoryID == uuid.Nil {
		return Invalid("category is required")
	}
	return ValidatePrice(b.Price.Amount)
}

func (r Rating) Validate() error {
	if r.Score < MinRating || r.Score > MaxRating {
		return Invalid("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}
