// Package money formats amounts in Brazilian reais.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders v with two decimals using pt-BR separators, e.g. "1.234,50".
func Format(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// BRL renders v with the currency symbol, e.g. "R$ 16,00".
func BRL(v float64) string {
	return "R$ " + Format(v)
}
