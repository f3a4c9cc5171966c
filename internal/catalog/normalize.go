// Package catalog groups flat content-store rows into products with per-size variants.
package catalog

import "whiskd-backend/internal/domain"

// Normalize collapses variant rows into products, one per group key, in first-seen order.
//
// The first row of a group decides the product ID and default price, so callers are expected to
// pass rows sorted by price ascending within each group. Later rows for the same size replace the
// earlier variant, while the image is taken from the first row that has one.
func Normalize(rows []domain.VariantRow) []domain.Product {
	products := make([]domain.Product, 0)
	index := make(map[string]int)

	for _, row := range rows {
		name := row.GroupKey
		if name == "" {
			name = domain.FallbackGroupKey
		}
		size := row.SizeLabel
		if size == "" {
			size = domain.FallbackSizeLabel
		}
		category := row.CategoryLabel
		if category == "" {
			category = domain.FallbackCategory
		}

		i, seen := index[name]
		if !seen {
			rootStock := row.Stock
			products = append(products, domain.Product{
				ID:       row.VariantID,
				Name:     name,
				Price:    row.UnitPrice,
				Sizes:    []string{},
				ImageURL: row.ImageRef,
				Category: category,
				Stock:    &rootStock,
				Variants: make(map[string]domain.Variant),
			})
			i = len(products) - 1
			index[name] = i
		}
		p := &products[i]

		if _, exists := p.Variants[size]; !exists {
			p.Sizes = append(p.Sizes, size)
		}
		stock := row.Stock
		p.Variants[size] = domain.Variant{
			ID:    row.VariantID,
			Price: row.UnitPrice,
			Stock: &stock,
		}

		if p.ImageURL == "" && row.ImageRef != "" {
			p.ImageURL = row.ImageRef
		}
	}

	return products
}

// Split separates add-ons and packaging from the main menu, keeping the input order in both.
func Split(products []domain.Product) (main, extras []domain.Product) {
	main = make([]domain.Product, 0, len(products))
	extras = make([]domain.Product, 0)
	for _, p := range products {
		if p.IsExtra() {
			extras = append(extras, p)
		} else {
			main = append(main, p)
		}
	}
	return main, extras
}
