package domain

import (
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ListQuery describes filtering, search, ordering and paging of a listing.
// Filters are applied in that order, the page is sliced last.
type ListQuery struct {
	CategoryID *uuid.UUID
	Featured   *bool
	Delivered  *bool
	Search     string
	Ordering   []OrderField
	Page       int
	PageSize   int
}

// Accepted ordering names per listing.
var (
	MenuItemOrderingFields = []string{"title", "price", "featured", "created_at"}
	BookOrderingFields     = []string{"title", "author", "price", "rating"}
	OrderOrderingFields    = []string{"created_at", "total_price", "status"}
)

type OrderField struct {
	Name string
	Desc bool
}

type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
}

// Offset is the number of rows before the page. It saturates at math.MaxInt,
// so a page number too large to address lands past the end of any listing.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PageSize
}

// ParseOrdering turns "price,-title" into order fields, rejecting anything
// outside allowed.
func ParseOrdering(raw string, allowed []string) ([]OrderField, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var fields []OrderField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := OrderField{Name: strings.TrimPrefix(part, "-"), Desc: strings.HasPrefix(part, "-")}
		if !slices.Contains(allowed, field.Name) {
			return nil, Invalid("cannot order by %q", field.Name)
		}
		fields = append(fields, field)
	}

	return fields, nil
}

// Normalize validates paging and clamps the page size into [1, maxSize].
func (q ListQuery) Normalize(defaultSize, maxSize int) (ListQuery, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 0 {
		return q, Invalid("page must be a positive number")
	}
	if q.PageSize < 0 {
		return q, Invalid("page size must be a positive number")
	}
	if q.PageSize == 0 {
		q.PageSize = defaultSize
	}
	if q.PageSize > maxSize {
		q.PageSize = maxSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q, nil
}
