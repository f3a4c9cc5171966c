package domain

import "context"

// VariantRow is one content-store record: a single product family + size combination.
type VariantRow struct {
	GroupKey      string `json:"groupKey"`
	SizeLabel     string `json:"sizeLabel"`
	VariantID     string `json:"variantId"`
	UnitPrice     int64  `json:"unitPrice"`
	Stock         int    `json:"stock"`
	CategoryLabel string `json:"categoryLabel"`
	ImageRef      string `json:"imageRef,omitempty"`
}

// Variant is the per-size entry of a Product.
// Stock is nil when the variant carries no stock tracking of its own.
type Variant struct {
	ID    string `json:"id"`
	Price int64  `json:"price"`
	Stock *int   `json:"stock,omitempty"`
}

// Product is a product family grouped from its variant rows.
type Product struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Price    int64              `json:"price"`
	Sizes    []string           `json:"sizes"`
	ImageURL string             `json:"imageUrl,omitempty"`
	Category string             `json:"category"`
	Stock    *int               `json:"stock,omitempty"` // root level fallback
	Variants map[string]Variant `json:"variants"`
}

// IsExtra reports whether the product belongs to the add-on section of the menu.
func (p *Product) IsExtra() bool {
	for _, c := range ExtraCategories {
		if p.Category == c {
			return true
		}
	}
	return false
}

// VariantRowSource is the read side of the content store.
// Rows must come sorted by family name ascending, then price ascending.
type VariantRowSource interface {
	FetchVariantRows(ctx context.Context) ([]VariantRow, error)
}
