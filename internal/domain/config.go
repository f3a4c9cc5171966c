package domain

type DeliveryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PaymentInfo holds the bank transfer instructions shown on the checkout page.
type PaymentInfo struct {
	Method        string `json:"method"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}
