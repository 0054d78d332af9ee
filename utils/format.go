package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatRupiah renders n with Indonesian digit grouping, e.g. "Rp 3.500".
func FormatRupiah(n int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("Rp %d", n)
}

// FormatCount renders a donation count with Indonesian digit grouping.
func FormatCount(n int64, suffix string) string {
	p := message.NewPrinter(language.Indonesian)
	if suffix == "" {
		return p.Sprintf("%d", n)
	}
	return p.Sprintf("%d %s", n, suffix)
}
