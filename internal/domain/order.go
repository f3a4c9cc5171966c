package domain

import (
	"context"
	"io"
	"time"
)

type Customer struct {
	Name           string `json:"name" validate:"required"`
	WhatsApp       string `json:"whatsapp" validate:"required"`
	Address        string `json:"address"`
	DeliveryMethod string `json:"deliveryMethod"`
}

// OrderLineItem is one product with a non-zero quantity at the time the order was placed.
type OrderLineItem struct {
	SKU         string `json:"sku_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// Order is the pending order handed from the cart page to the checkout page.
type Order struct {
	Customer       Customer        `json:"customer"`
	Items          []OrderLineItem `json:"items"`
	TotalItems     int             `json:"total_items"`
	EstimatedTotal int64           `json:"estimated_total"`
	CreatedAt      time.Time       `json:"order_date"`
}

// PaymentProof describes the uploaded transfer receipt.
type PaymentProof struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	URL  string `json:"url,omitempty"` // set when archived
}

// SubmittedOrder is the final payload forwarded to the relay.
type SubmittedOrder struct {
	Order
	PaymentProof *PaymentProof `json:"paymentProof"`
	SubmittedAt  time.Time     `json:"submittedAt"`
}

// Attachment is a binary file sent alongside a submitted order.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OrderRelay forwards finalized orders to the automation webhook.
type OrderRelay interface {
	Configured() bool
	Submit(ctx context.Context, order *SubmittedOrder, proof *Attachment) error
	Forward(ctx context.Context, contentType string, body io.Reader) error
}

// ProofArchive stores payment proofs and returns their public URL.
type ProofArchive interface {
	ArchiveProof(ctx context.Context, proof *Attachment) (string, error)
}
