package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	MenuItemID uuid.UUID
	Title      string
	Quantity   int
	// UnitPrice is the catalog price at the moment the line was added.
	UnitPrice Money

	CreatedAt time.Time
}

func (i CartItem) Price() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums line prices. An empty cart totals zero in the given currency;
// otherwise every line must be priced in that currency.
func (c Cart) Total(unit currency.Unit) (Money, error) {
	total := NewMoney(decimal.Zero, unit)

	for _, item := range c.Items {
		var err error
		total, err = total.Add(item.Price())
		if err != nil {
			return Money{}, fmt.Errorf("item %s: %w", item.MenuItemID, err)
		}
	}

	return total, nil
}
