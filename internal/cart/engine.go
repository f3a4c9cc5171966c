// Package cart derives prices, stock ceilings and totals from a catalog snapshot and the
// caller-owned selection state. Nothing here holds state of its own.
package cart

import "whiskd-backend/internal/domain"

// ActiveVariant is the price and stock in effect for a product's selected size.
// Stock is nil when the size has no variant entry.
type ActiveVariant struct {
	ID    string
	Price int64
	Stock *int
}

// Totals is the aggregate of a selection.
type Totals struct {
	TotalItems int   `json:"totalItems"`
	TotalPrice int64 `json:"totalPrice"`
}

// Active looks up the variant for size, falling back to the product's default price.
func Active(p domain.Product, size string) ActiveVariant {
	if v, ok := p.Variants[size]; ok {
		return ActiveVariant{ID: v.ID, Price: v.Price, Stock: v.Stock}
	}
	return ActiveVariant{Price: p.Price}
}

// EffectiveStock resolves the stock ceiling: variant stock, then root stock, then UnlimitedStock.
func EffectiveStock(p domain.Product, size string) int {
	if v, ok := p.Variants[size]; ok && v.Stock != nil {
		return *v.Stock
	}
	if p.Stock != nil {
		return *p.Stock
	}
	return domain.UnlimitedStock
}

func IsOutOfStock(p domain.Product, size string) bool {
	return EffectiveStock(p, size) == 0
}

func IsLowStock(p domain.Product, size string) bool {
	s := EffectiveStock(p, size)
	return s > 0 && s <= domain.LowStockThreshold
}

// NewSelection returns the initial state for a catalog: first size selected, nothing ordered.
func NewSelection(products []domain.Product) domain.Selection {
	sel := domain.Selection{
		Sizes:      make(map[string]string, len(products)),
		Quantities: make(map[string]int, len(products)),
	}
	for _, p := range products {
		if len(p.Sizes) > 0 {
			sel.Sizes[p.ID] = p.Sizes[0]
		}
		sel.Quantities[p.ID] = 0
	}
	return sel
}

// SelectedSize returns the size chosen for p, defaulting to its first size.
func SelectedSize(p domain.Product, sel domain.Selection) string {
	if s, ok := sel.Sizes[p.ID]; ok && s != "" {
		return s
	}
	if len(p.Sizes) > 0 {
		return p.Sizes[0]
	}
	return ""
}

// SetQuantity applies a quantity change if the current size's stock allows it.
// It reports whether the change was applied; a rejected change leaves sel untouched.
func SetQuantity(p domain.Product, sel *domain.Selection, quantity int) bool {
	if quantity < 0 {
		return false
	}
	stock := EffectiveStock(p, SelectedSize(p, *sel))
	if stock == 0 && quantity > 0 {
		return false
	}
	if quantity > stock {
		return false
	}
	if sel.Quantities == nil {
		sel.Quantities = make(map[string]int)
	}
	sel.Quantities[p.ID] = quantity
	return true
}

// SelectSize switches p to size and resets its quantity to zero.
// Sizes the product does not offer are rejected.
func SelectSize(p domain.Product, sel *domain.Selection, size string) bool {
	if _, ok := p.Variants[size]; !ok {
		return false
	}
	if sel.Sizes == nil {
		sel.Sizes = make(map[string]string)
	}
	if sel.Quantities == nil {
		sel.Quantities = make(map[string]int)
	}
	sel.Sizes[p.ID] = size
	sel.Quantities[p.ID] = 0
	return true
}

// ComputeTotals sums every quantity in sel and prices only the products actually ordered.
func ComputeTotals(products []domain.Product, sel domain.Selection) Totals {
	var t Totals
	for _, q := range sel.Quantities {
		t.TotalItems += q
	}
	for _, p := range products {
		qty := sel.Quantities[p.ID]
		if qty == 0 {
			continue
		}
		t.TotalPrice += Active(p, SelectedSize(p, sel)).Price * int64(qty)
	}
	return t
}

// LineItems builds the order lines for every product with a positive quantity, in catalog order.
func LineItems(products []domain.Product, sel domain.Selection) []domain.OrderLineItem {
	items := make([]domain.OrderLineItem, 0)
	for _, p := range products {
		qty := sel.Quantities[p.ID]
		if qty <= 0 {
			continue
		}
		size := SelectedSize(p, sel)
		v := Active(p, size)
		sku := v.ID
		if sku == "" {
			sku = p.ID
		}
		items = append(items, domain.OrderLineItem{
			SKU:         sku,
			ProductName: p.Name,
			Size:        size,
			UnitPrice:   v.Price,
			Quantity:    qty,
			Subtotal:    v.Price * int64(qty),
		})
	}
	return items
}

// Find returns the product with the given ID.
func Find(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
