package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the storefront displays it, e.g. "Rp 50.000".
func FormatRupiah(amount int64) string {
	return idPrinter.Sprintf("Rp %d", amount)
}
