package notion

import (
	"math"

	"whiskd-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Column names of the catalog database
const (
	PropMarketingName = "Marketing Name"
	PropSizeVariant   = "Size Variant"
	PropPrice         = "Price (Rp)"
	PropCurrentStock  = "Current Stock"
	PropCategory      = "Product Category"
	PropMedia         = "Files & Media"
)

type selectProperty struct {
	Select *struct {
		Name string `json:"name"`
	} `json:"select"`
}

type numberProperty struct {
	Number *float64 `json:"number"`
}

type formulaProperty struct {
	Formula *struct {
		Type   string   `json:"type"`
		Number *float64 `json:"number"`
	} `json:"formula"`
}

type filesProperty struct {
	Files []struct {
		Type string `json:"type"`
		File *struct {
			URL string `json:"url"`
		} `json:"file"`
		External *struct {
			URL string `json:"url"`
		} `json:"external"`
	} `json:"files"`
}

// decodeRow never fails: unreadable or missing properties become zero values and the
// normalizer supplies the label fallbacks.
func decodeRow(p page) domain.VariantRow {
	return domain.VariantRow{
		GroupKey:      selectName(p.Properties[PropMarketingName]),
		SizeLabel:     selectName(p.Properties[PropSizeVariant]),
		VariantID:     p.ID,
		UnitPrice:     price(p.Properties[PropPrice]),
		Stock:         formulaStock(p.Properties[PropCurrentStock]),
		CategoryLabel: selectName(p.Properties[PropCategory]),
		ImageRef:      firstFileURL(p.Properties[PropMedia]),
	}
}

func selectName(raw json.RawMessage) string {
	var prop selectProperty
	if len(raw) == 0 || json.Unmarshal(raw, &prop) != nil || prop.Select == nil {
		return ""
	}
	return prop.Select.Name
}

// price is a whole rupiah amount; negative entries are treated as 0.
func price(raw json.RawMessage) int64 {
	var prop numberProperty
	if len(raw) == 0 || json.Unmarshal(raw, &prop) != nil || prop.Number == nil {
		return 0
	}
	p := int64(math.Round(*prop.Number))
	if p < 0 {
		return 0
	}
	return p
}

// formulaStock defaults to 0: an unreadable stock formula means out of stock, not unlimited.
func formulaStock(raw json.RawMessage) int {
	var prop formulaProperty
	if len(raw) == 0 || json.Unmarshal(raw, &prop) != nil || prop.Formula == nil || prop.Formula.Number == nil {
		return 0
	}
	stock := int(math.Round(*prop.Formula.Number))
	if stock < 0 {
		return 0
	}
	return stock
}

func firstFileURL(raw json.RawMessage) string {
	var prop filesProperty
	if len(raw) == 0 || json.Unmarshal(raw, &prop) != nil || len(prop.Files) == 0 {
		return ""
	}
	f := prop.Files[0]
	if f.Type == "file" && f.File != nil {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}
