package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatNumber groups thousands the Indonesian way: 15000 -> "15.000".
func FormatNumber(v int64) string {
	return idPrinter.Sprintf("%d", v)
}

// FormatRupiah renders an amount as "Rp 15.000".
func FormatRupiah(v int64) string {
	if v < 0 {
		return "-Rp " + FormatNumber(-v)
	}
	return "Rp " + FormatNumber(v)
}
