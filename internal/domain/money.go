package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// maxPriceAmount mirrors NUMERIC(10,2): at most 8 integer digits.
var maxPriceAmount = decimal.New(1, 8)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s != %s", m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// String renders the amount with exactly two decimals, e.g. "25.50 USD".
func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency.String()
}

// ValidatePrice checks a catalog price: non-negative, two decimal places at most,
// and small enough for the store column.
func ValidatePrice(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return Invalid("price must not be negative")
	}
	if !amount.Equal(amount.Round(2)) {
		return Invalid("price must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxPriceAmount) {
		return Invalid("price must be less than %s", maxPriceAmount)
	}
	return nil
}
