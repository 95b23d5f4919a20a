package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Display redondea a unidades enteras de moneda, solo para mostrar.
func Display(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// FormatAmount formatea un monto en pesos sin decimales y con separador de miles: $21.420.
func FormatAmount(d decimal.Decimal) string {
	n := Display(d).IntPart()
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}
