package cart

import (
	"testing"

	"whiskd-backend/internal/catalog"
	"whiskd-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func tiramisu(t *testing.T) domain.Product {
	t.Helper()
	products := catalog.Normalize([]domain.VariantRow{
		{GroupKey: "Tiramisu", SizeLabel: "Small", VariantID: "v1", UnitPrice: 50000, Stock: 3},
		{GroupKey: "Tiramisu", SizeLabel: "Large", VariantID: "v2", UnitPrice: 90000, Stock: 0},
	})
	require.Len(t, products, 1)
	return products[0]
}

func TestTiramisuScenario(t *testing.T) {
	p := tiramisu(t)
	products := []domain.Product{p}
	sel := NewSelection(products)

	assert.Equal(t, "Small", SelectedSize(p, sel))

	require.True(t, SelectSize(p, &sel, "Large"))
	assert.Equal(t, 0, EffectiveStock(p, "Large"))
	assert.True(t, IsOutOfStock(p, "Large"))
	assert.False(t, SetQuantity(p, &sel, 1))
	assert.Equal(t, 0, sel.Quantities[p.ID])

	require.True(t, SelectSize(p, &sel, "Small"))
	assert.True(t, SetQuantity(p, &sel, 2))
	assert.True(t, IsLowStock(p, "Small"))

	totals := ComputeTotals(products, sel)
	assert.Equal(t, 2, totals.TotalItems)
	assert.Equal(t, int64(100000), totals.TotalPrice)
}

func TestActive(t *testing.T) {
	p := domain.Product{
		ID:    "p1",
		Price: 10000,
		Variants: map[string]domain.Variant{
			"Box": {ID: "v-box", Price: 35000, Stock: intPtr(4)},
		},
	}

	v := Active(p, "Box")
	assert.Equal(t, "v-box", v.ID)
	assert.Equal(t, int64(35000), v.Price)
	require.NotNil(t, v.Stock)
	assert.Equal(t, 4, *v.Stock)

	missing := Active(p, "Tray")
	assert.Equal(t, "", missing.ID)
	assert.Equal(t, int64(10000), missing.Price)
	assert.Nil(t, missing.Stock)
}

func TestEffectiveStockFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		want    int
	}{
		{
			name:    "variant stock wins",
			product: domain.Product{Stock: intPtr(10), Variants: map[string]domain.Variant{
				"S": {Stock: intPtr(2)},
			}},
			want: 2,
		},
		{
			name:    "variant stock of zero is kept",
			product: domain.Product{Stock: intPtr(10), Variants: map[string]domain.Variant{
				"S": {Stock: intPtr(0)},
			}},
			want: 0,
		},
		{
			name:    "root stock when variant has none",
			product: domain.Product{Stock: intPtr(7), Variants: map[string]domain.Variant{
				"S": {},
			}},
			want: 7,
		},
		{
			name:    "root stock when size is unknown",
			product: domain.Product{Stock: intPtr(6), Variants: map[string]domain.Variant{}},
			want:    6,
		},
		{
			name:    "unlimited without any tracking",
			product: domain.Product{Variants: map[string]domain.Variant{"S": {}}},
			want:    domain.UnlimitedStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStock(tt.product, "S"))
		})
	}
}

func TestStockFlags(t *testing.T) {
	tests := []struct {
		stock    int
		outOf    bool
		lowStock bool
	}{
		{0, true, false},
		{1, false, true},
		{5, false, true},
		{6, false, false},
		{domain.UnlimitedStock, false, false},
	}

	for _, tt := range tests {
		p := domain.Product{Variants: map[string]domain.Variant{"S": {Stock: intPtr(tt.stock)}}}
		assert.Equal(t, tt.outOf, IsOutOfStock(p, "S"), "stock %d", tt.stock)
		assert.Equal(t, tt.lowStock, IsLowStock(p, "S"), "stock %d", tt.stock)
	}
}

func TestSetQuantity(t *testing.T) {
	p := domain.Product{
		ID:    "p1",
		Sizes: []string{"S"},
		Variants: map[string]domain.Variant{
			"S": {ID: "v1", Price: 1000, Stock: intPtr(3)},
		},
	}

	t.Run("within stock", func(t *testing.T) {
		sel := NewSelection([]domain.Product{p})
		assert.True(t, SetQuantity(p, &sel, 3))
		assert.Equal(t, 3, sel.Quantities["p1"])
	})

	t.Run("above stock is rejected without change", func(t *testing.T) {
		sel := NewSelection([]domain.Product{p})
		require.True(t, SetQuantity(p, &sel, 1))
		assert.False(t, SetQuantity(p, &sel, 4))
		assert.Equal(t, 1, sel.Quantities["p1"])
	})

	t.Run("negative is rejected", func(t *testing.T) {
		sel := NewSelection([]domain.Product{p})
		require.True(t, SetQuantity(p, &sel, 2))
		assert.False(t, SetQuantity(p, &sel, -1))
		assert.Equal(t, 2, sel.Quantities["p1"])
	})

	t.Run("zero is always allowed", func(t *testing.T) {
		oos := domain.Product{ID: "p2", Sizes: []string{"S"}, Variants: map[string]domain.Variant{"S": {Stock: intPtr(0)}}}
		sel := NewSelection([]domain.Product{oos})
		assert.True(t, SetQuantity(oos, &sel, 0))
	})

	t.Run("nil maps are initialised", func(t *testing.T) {
		var sel domain.Selection
		assert.True(t, SetQuantity(p, &sel, 1))
		assert.Equal(t, 1, sel.Quantities["p1"])
	})
}

func TestSelectSize(t *testing.T) {
	p := tiramisu(t)
	sel := NewSelection([]domain.Product{p})
	require.True(t, SetQuantity(p, &sel, 3))

	assert.False(t, SelectSize(p, &sel, "Huge"))
	assert.Equal(t, "Small", sel.Sizes[p.ID])
	assert.Equal(t, 3, sel.Quantities[p.ID])

	assert.True(t, SelectSize(p, &sel, "Small"))
	assert.Equal(t, 0, sel.Quantities[p.ID], "re-selecting the same size still resets")
}

func TestComputeTotals_SkipsUnorderedProducts(t *testing.T) {
	ordered := domain.Product{
		ID: "a", Price: 1000, Sizes: []string{"S"},
		Variants: map[string]domain.Variant{"S": {ID: "a-s", Price: 2500}},
	}
	// No variants at all: pricing it would fall back, but with quantity 0 it must not matter.
	broken := domain.Product{ID: "b", Price: 999999}

	sel := domain.Selection{
		Sizes:      map[string]string{"a": "S", "b": "Missing"},
		Quantities: map[string]int{"a": 4, "b": 0},
	}

	totals := ComputeTotals([]domain.Product{ordered, broken}, sel)
	assert.Equal(t, 4, totals.TotalItems)
	assert.Equal(t, int64(10000), totals.TotalPrice)
}

func TestComputeTotals_UnknownSizeUsesDefaultPrice(t *testing.T) {
	p := domain.Product{ID: "a", Price: 1200, Sizes: []string{"S"}, Variants: map[string]domain.Variant{}}
	sel := domain.Selection{Sizes: map[string]string{"a": "S"}, Quantities: map[string]int{"a": 2}}

	assert.Equal(t, int64(2400), ComputeTotals([]domain.Product{p}, sel).TotalPrice)
}

func TestLineItems(t *testing.T) {
	products := catalog.Normalize([]domain.VariantRow{
		{GroupKey: "Brownies", SizeLabel: "Box", VariantID: "b1", UnitPrice: 60000, Stock: 10},
		{GroupKey: "Candle", SizeLabel: "Standard", VariantID: "c1", UnitPrice: 5000, Stock: 10, CategoryLabel: "Add-on"},
		{GroupKey: "Tiramisu", SizeLabel: "Small", VariantID: "t1", UnitPrice: 50000, Stock: 3},
		{GroupKey: "Tiramisu", SizeLabel: "Large", VariantID: "t2", UnitPrice: 90000, Stock: 2},
	})
	sel := NewSelection(products)

	brownies, _ := Find(products, "b1")
	tira, _ := Find(products, "t1")
	require.True(t, SelectSize(tira, &sel, "Large"))
	require.True(t, SetQuantity(tira, &sel, 2))
	require.True(t, SetQuantity(brownies, &sel, 1))

	items := LineItems(products, sel)

	require.Len(t, items, 2)
	assert.Equal(t, domain.OrderLineItem{
		SKU: "b1", ProductName: "Brownies", Size: "Box", UnitPrice: 60000, Quantity: 1, Subtotal: 60000,
	}, items[0])
	assert.Equal(t, domain.OrderLineItem{
		SKU: "t2", ProductName: "Tiramisu", Size: "Large", UnitPrice: 90000, Quantity: 2, Subtotal: 180000,
	}, items[1])
}

func TestLineItems_FallsBackToProductID(t *testing.T) {
	p := domain.Product{ID: "p1", Name: "Loaf", Price: 30000, Sizes: []string{"Whole"}, Variants: map[string]domain.Variant{}}
	sel := domain.Selection{Quantities: map[string]int{"p1": 1}}

	items := LineItems([]domain.Product{p}, sel)

	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].SKU)
	assert.Equal(t, "Whole", items[0].Size)
	assert.Equal(t, int64(30000), items[0].UnitPrice)
}
