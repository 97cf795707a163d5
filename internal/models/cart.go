package models

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Cart корзина покупателя (только чтение), из которой строится заявка.
type Cart struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// NewCart округляет строки до копеек и считает итоги.
// Строки копируются, поэтому корзина не зависит от исходного среза.
func NewCart(source []LineItem, currency string) Cart {
	items := make([]LineItem, len(source))
	for i, item := range source {
		item.Attributes = maps.Clone(item.Attributes)
		items[i] = item
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	count := 0

	for i := range items {
		items[i].UnitPrice = items[i].UnitPrice.Round(2)
		items[i].LineTotal = items[i].LineTotal.Round(2)
		items[i].LineTax = items[i].LineTax.Round(2)

		subtotal = subtotal.Add(items[i].LineTotal)
		tax = tax.Add(items[i].LineTax)
		count += items[i].Quantity
	}

	return Cart{
		Items: items,
		Totals: Totals{
			Subtotal:  subtotal.Round(2),
			Tax:       tax.Round(2),
			Total:     subtotal.Add(tax).Round(2),
			ItemCount: count,
			Currency:  currency,
		},
	}
}

type CartSummary struct {
	Cart            Cart     `json:"cart_data"`
	FormattedTotal  string   `json:"formatted_total"`
	CanRequestQuote bool     `json:"can_request_quote"`
	Problems        []string `json:"problems,omitempty"`
}
