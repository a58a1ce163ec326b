package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var clpPrinter = message.NewPrinter(language.MustParse("es-CL"))

// FormatCLP renders a peso amount like "$12.500": rounded to the nearest
// whole unit, grouped per the es-CL locale, no fractional digits.
func FormatCLP(value float64) string {
	rounded := int64(math.Round(value))

	return clpPrinter.Sprintf("$%v", number.Decimal(rounded))
}
