package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID      uuid.UUID
	OwnerID string
	// DeliveryCrewID is empty while the order is unassigned.
	DeliveryCrewID string
	// Delivered is the order status flag.
	Delivered  bool
	TotalPrice Money
	Items      []OrderItem

	CreatedAt time.Time
}

type OrderItem struct {
	MenuItemID uuid.UUID
	Title      string
	Quantity   int
	UnitPrice  Money
}

func (i OrderItem) Price() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// NewOrderFromCart converts cart lines into an order, copying every
// snapshotted unit price. The cart must not be empty.
func NewOrderFromCart(id uuid.UUID, cart Cart, total Money, now time.Time) (Order, error) {
	if cart.IsEmpty() {
		return Order{}, ErrEmptyCart
	}

	items := make([]OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, OrderItem{
			MenuItemID: line.MenuItemID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}

	return Order{
		ID:         id,
		OwnerID:    cart.OwnerID,
		TotalPrice: total,
		Items:      items,
		CreatedAt:  now,
	}, nil
}

// OrderPatch is the set of mutable order fields. SetDeliveryCrew distinguishes
// "unassign" (true with an empty DeliveryCrewID) from "leave unchanged".
type OrderPatch struct {
	Delivered       *bool
	SetDeliveryCrew bool
	DeliveryCrewID  string
}

func (p OrderPatch) IsEmpty() bool {
	return p.Delivered == nil && !p.SetDeliveryCrew
}

// OrderScope narrows order queries inside the store. Empty fields do not
// narrow, so the zero value matches every order.
type OrderScope struct {
	OwnerID        string
	DeliveryCrewID string
}

// OrderPlaced and OrderUpdated are published after the transaction commits.
type OrderPlaced struct {
	OrderID    uuid.UUID `json:"order_id"`
	OwnerID    string    `json:"owner_id"`
	ItemCount  int       `json:"item_count"`
	TotalPrice string    `json:"total_price"`
	Currency   string    `json:"currency"`
	PlacedAt   time.Time `json:"placed_at"`
}

type OrderUpdated struct {
	OrderID        uuid.UUID `json:"order_id"`
	Delivered      bool      `json:"delivered"`
	DeliveryCrewID string    `json:"delivery_crew_id,omitempty"`
	UpdatedBy      string    `json:"updated_by"`
}

func NewOrderPlaced(o Order) OrderPlaced {
	return OrderPlaced{
		OrderID:    o.ID,
		OwnerID:    o.OwnerID,
		ItemCount:  len(o.Items),
		TotalPrice: o.TotalPrice.Amount.StringFixed(2),
		Currency:   o.TotalPrice.Currency.String(),
		PlacedAt:   o.CreatedAt,
	}
}

func (o Order) String() string {
	return fmt.Sprintf("order %s (%d items, %s)", o.ID, len(o.Items), o.TotalPrice)
}
