package catalog

import (
	"reflect"
	"sort"
	"testing"

	"whiskd-backend/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRows produces row sequences over a small key space so groups and sizes collide often.
func genRows() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.OneConstOf("Tiramisu", "Croissant", "Brownies", ""),
		gen.OneConstOf("Small", "Medium", "Large", ""),
		gen.Identifier(),
		gen.Int64Range(0, 500000),
		gen.IntRange(0, 20),
		gen.OneConstOf("", "a.jpg", "b.jpg"),
	).Map(func(v []interface{}) domain.VariantRow {
		return domain.VariantRow{
			GroupKey:  v[0].(string),
			SizeLabel: v[1].(string),
			VariantID: v[2].(string),
			UnitPrice: v[3].(int64),
			Stock:     v[4].(int),
			ImageRef:  v[5].(string),
		}
	}))
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("sizes are unique and match the variant keys", prop.ForAll(
		func(rows []domain.VariantRow) bool {
			for _, p := range Normalize(rows) {
				if len(p.Sizes) != len(p.Variants) {
					return false
				}
				seen := make(map[string]bool)
				for _, s := range p.Sizes {
					if seen[s] {
						return false
					}
					seen[s] = true
					if _, ok := p.Variants[s]; !ok {
						return false
					}
				}
			}
			return true
		},
		genRows(),
	))

	properties.Property("group membership ignores row order", prop.ForAll(
		func(rows []domain.VariantRow) bool {
			reversed := make([]domain.VariantRow, len(rows))
			for i, r := range rows {
				reversed[len(rows)-1-i] = r
			}
			return reflect.DeepEqual(groupNames(Normalize(rows)), groupNames(Normalize(reversed)))
		},
		genRows(),
	))

	properties.Property("defaults come from the first row of each group", prop.ForAll(
		func(rows []domain.VariantRow) bool {
			products := Normalize(rows)
			for _, p := range products {
				for _, r := range rows {
					key := r.GroupKey
					if key == "" {
						key = domain.FallbackGroupKey
					}
					if key != p.Name {
						continue
					}
					if r.VariantID != p.ID || r.UnitPrice != p.Price {
						return false
					}
					break
				}
			}
			return true
		},
		genRows(),
	))

	properties.Property("normalize is idempotent over the same input", prop.ForAll(
		func(rows []domain.VariantRow) bool {
			return reflect.DeepEqual(Normalize(rows), Normalize(rows))
		},
		genRows(),
	))

	properties.TestingRun(t)
}

func groupNames(products []domain.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}
