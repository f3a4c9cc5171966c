package domain

// Catalog fallbacks for incomplete content-store rows
const (
	FallbackGroupKey  = "Uncategorized"
	FallbackSizeLabel = "Standard"
	FallbackCategory  = "General"
)

// Stock presentation policy
const (
	// UnlimitedStock is used when neither the variant nor the product tracks stock.
	UnlimitedStock    = 999
	LowStockThreshold = 5
)

// Categories rendered in the "Extras & Packaging" section
var ExtraCategories = []string{
	"Additional",
	"Add-on",
	"Packaging",
}

// Delivery Methods
const (
	DeliveryPickup         = "Pickup"
	DeliveryInstantCourier = "Instant Courier"
	DeliverySameDay        = "Same Day"
	DeliveryExpedition     = "Expedition"
)

// List Exports for API
var DeliveryOptions = []DeliveryOption{
	{Value: DeliveryPickup, Label: "Self Pickup"},
	{Value: DeliveryInstantCourier, Label: "Instant Courier (GoSend/Grab)"},
	{Value: DeliverySameDay, Label: "Same Day Delivery"},
	{Value: DeliveryExpedition, Label: "Expedition (JNE/SiCepat)"},
}

// IsDeliveryMethod reports whether v is one of DeliveryOptions.
func IsDeliveryMethod(v string) bool {
	for _, o := range DeliveryOptions {
		if o.Value == v {
			return true
		}
	}
	return false
}
