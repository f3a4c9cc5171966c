package domain

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrCatalogNotLoaded      = errors.New("catalog not loaded")
	ErrProductNotFound       = errors.New("product not found")
	ErrMissingContact        = errors.New("please fill in your name and WhatsApp number")
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrNoPendingOrder        = errors.New("no pending order")
	ErrPaymentProofRequired  = errors.New("please upload payment proof first")
	ErrInvalidPaymentProof   = errors.New("payment proof must be an image")
	ErrRelayNotConfigured    = errors.New("relay webhook is not configured")
	ErrContentStoreConfig    = errors.New("content store is not configured")
)
