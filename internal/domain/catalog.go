package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxTitleLength = 255

type Category struct {
	ID    uuid.UUID
	Slug  string
	Title string

	CreatedAt time.Time
}

type MenuItem struct {
	ID         uuid.UUID
	Title      string
	Slug       string
	Price      Money
	Featured   bool
	CategoryID uuid.UUID

	CreatedAt time.Time
}

// MenuItemPatch holds the fields of a partial update; nil means unchanged.
type MenuItemPatch struct {
	Title      *string
	Price      *Money
	Featured   *bool
	CategoryID *uuid.UUID
}

func (p MenuItemPatch) Apply(item MenuItem) MenuItem {
	if p.Title != nil {
		item.Title = *p.Title
		item.Slug = Slugify(*p.Title)
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Featured != nil {
		item.Featured = *p.Featured
	}
	if p.CategoryID != nil {
		item.CategoryID = *p.CategoryID
	}
	return item
}

func (c Category) Validate() error {
	return validateTitle("title", c.Title, maxTitleLength)
}

func (m MenuItem) Validate() error {
	if err := validateTitle("title", m.Title, maxTitleLength); err != nil {
		return err
	}
	if m.CategoryID == uuid.Nil {
		return Invalid("category is required")
	}
	return ValidatePrice(m.Price.Amount)
}

func validateTitle(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return Invalid("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return Invalid("%s must be at most %d characters", field, maxLen)
	}
	return nil
}
