package httpx

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/shopspring/decimal"
)

// Prices travel as strings with two decimals, e.g. "25.50".

type PageResponse[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func toPage[S, T any](page domain.Page[S], convert func(S) T) PageResponse[T] {
	results := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		results = append(results, convert(item))
	}
	return PageResponse[T]{Count: page.Total, Page: page.Page, PageSize: page.PageSize, Results: results}
}

func mapAll[S, T any](items []S, convert func(S) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func price(m domain.Money) string {
	return m.Amount.StringFixed(2)
}

type CategoryRequest struct {
	Title string `json:"title"`
}

type CategoryResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

func toCategory(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Title: c.Title, Slug: c.Slug}
}

// MenuItemRequest is the body of create and full update; every field is required.
type MenuItemRequest struct {
	Title    string           `json:"title"`
	Price    *decimal.Decimal `json:"price"`
	Featured *bool            `json:"featured"`
	Category uuid.UUID        `json:"category"`
}

type MenuItemPatchRequest struct {
	Title    *string          `json:"title"`
	Price    *decimal.Decimal `json:"price"`
	Featured *bool            `json:"featured"`
	Category *uuid.UUID       `json:"category"`
}

type MenuItemResponse struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Price    string    `json:"price"`
	Featured bool      `json:"featured"`
	Category uuid.UUID `json:"category"`
}

func toMenuItem(m domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       m.ID,
		Title:    m.Title,
		Slug:     m.Slug,
		Price:    price(m.Price),
		Featured: m.Featured,
		Category: m.CategoryID,
	}
}

type CartItemRequest struct {
	MenuItem uuid.UUID `json:"menu_item"`
	Quantity int       `json:"quantity"`
}

type CartItemResponse struct {
	MenuItem  uuid.UUID `json:"menu_item"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Price     string    `json:"price"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}

func toCartItem(i domain.CartItem) CartItemResponse {
	return CartItemResponse{
		MenuItem:  i.MenuItemID,
		Title:     i.Title,
		Quantity:  i.Quantity,
		UnitPrice: price(i.UnitPrice),
		Price:     price(i.Price()),
	}
}

type ClearCartResponse struct {
	Removed int64 `json:"removed"`
}

// OrderUpdateRequest is the body of PUT and PATCH on an order. A JSON null
// delivery_crew unassigns the order; an absent one leaves it unchanged.
type OrderUpdateRequest struct {
	Status       *bool          `json:"status"`
	DeliveryCrew optionalString `json:"delivery_crew"`
}

func (r OrderUpdateRequest) patch() domain.OrderPatch {
	patch := domain.OrderPatch{Delivered: r.Status, SetDeliveryCrew: r.DeliveryCrew.Set}
	if r.DeliveryCrew.Value != nil {
		patch.DeliveryCrewID = *r.DeliveryCrew.Value
	}
	return patch
}

type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

type OrderItemResponse struct {
	MenuItem  uuid.UUID `json:"menu_item"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Price     string    `json:"price"`
}

type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	User         string              `json:"user"`
	DeliveryCrew *string             `json:"delivery_crew"`
	Status       bool                `json:"status"`
	TotalPrice   string              `json:"total_price"`
	TimeOrdered  time.Time           `json:"time_ordered"`
	Items        []OrderItemResponse `json:"items"`
}

func toOrder(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		User:        o.OwnerID,
		Status:      o.Delivered,
		TotalPrice:  price(o.TotalPrice),
		TimeOrdered: o.CreatedAt,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
	}
	if o.DeliveryCrewID != "" {
		crew := o.DeliveryCrewID
		resp.DeliveryCrew = &crew
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MenuItem:  item.MenuItemID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: price(item.UnitPrice),
			Price:     price(item.Price()),
		})
	}
	return resp
}

type BookCategoryRequest struct {
	Name string `json:"name"`
}

type BookCategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func toBookCategory(c domain.BookCategory) BookCategoryResponse {
	return BookCategoryResponse{ID: c.ID, Name: c.Name}
}

// BookRequest is the body of create and full update. A missing price means
// the default price.
type BookRequest struct {
	Title    string           `json:"title"`
	Author   string           `json:"author"`
	Category uuid.UUID        `json:"category"`
	Price    *decimal.Decimal `json:"price"`
}

type BookPatchRequest struct {
	Title    *string          `json:"title"`
	Author   *string          `json:"author"`
	Category *uuid.UUID       `json:"category"`
	Price    *decimal.Decimal `json:"price"`
}

type RatingSummaryResponse struct {
	Average string `json:"average"`
	Count   int    `json:"count"`
}

type BookResponse struct {
	ID       uuid.UUID             `json:"id"`
	Title    string                `json:"title"`
	Author   string                `json:"author"`
	Category uuid.UUID             `json:"category"`
	Price    string                `json:"price"`
	Rating   RatingSummaryResponse `json:"rating"`
}

func toBook(b domain.Book) BookResponse {
	return BookResponse{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Category: b.CategoryID,
		Price:    price(b.Price),
		Rating: RatingSummaryResponse{
			Average: b.Rating.Average.StringFixed(2),
			Count:   b.Rating.Count,
		},
	}
}

type RatingRequest struct {
	Book   uuid.UUID `json:"book"`
	Rating *int      `json:"rating"`
}

type RatingResponse struct {
	User      string    `json:"user"`
	Book      uuid.UUID `json:"book"`
	Rating    int       `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toRating(r domain.Rating) RatingResponse {
	return RatingResponse{User: r.UserID, Book: r.BookID, Rating: r.Score, UpdatedAt: r.UpdatedAt}
}

type GroupMemberRequest struct {
	Username string `json:"username"`
}

type GroupMembersResponse struct {
	Group string   `json:"group"`
	Users []string `json:"users"`
}
