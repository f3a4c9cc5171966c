package usecase

import (
	"whiskd-backend/internal/cart"
	"whiskd-backend/internal/catalog"
	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/utils"
)

// ProductView is one product card as rendered for the current selection.
type ProductView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Sizes        []string `json:"sizes"`
	SelectedSize string   `json:"selectedSize"`
	VariantID    string   `json:"variantId"`
	Price        int64    `json:"price"`
	PriceLabel   string   `json:"priceLabel"`
	Stock        int      `json:"stock"`
	OutOfStock   bool     `json:"outOfStock"`
	LowStock     bool     `json:"lowStock"`
	Quantity     int      `json:"quantity"`
}

type StorefrontView struct {
	Main       []ProductView   `json:"main"`
	Extras     []ProductView   `json:"extras"`
	Totals     cart.Totals     `json:"totals"`
	TotalLabel string          `json:"totalPriceLabel"`
	Customer   domain.Customer `json:"customer"`
}

func buildView(sess *domain.Session) *StorefrontView {
	main, extras := catalog.Split(sess.Catalog)
	totals := cart.ComputeTotals(sess.Catalog, sess.Selection)
	return &StorefrontView{
		Main:       productViews(main, sess.Selection),
		Extras:     productViews(extras, sess.Selection),
		Totals:     totals,
		TotalLabel: utils.FormatRupiah(totals.TotalPrice),
		Customer:   sess.Customer,
	}
}

func productViews(products []domain.Product, sel domain.Selection) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		size := cart.SelectedSize(p, sel)
		active := cart.Active(p, size)
		views = append(views, ProductView{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			ImageURL:     p.ImageURL,
			Sizes:        p.Sizes,
			SelectedSize: size,
			VariantID:    active.ID,
			Price:        active.Price,
			PriceLabel:   utils.FormatRupiah(active.Price),
			Stock:        cart.EffectiveStock(p, size),
			OutOfStock:   cart.IsOutOfStock(p, size),
			LowStock:     cart.IsLowStock(p, size),
			Quantity:     sel.Quantities[p.ID],
		})
	}
	return views
}
