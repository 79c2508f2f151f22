package shop

import "fmt"

// FormatPrice renders an amount of minor currency units for display, e.g.
// 500 -> "$5.00". This is the only place the cents integer is scaled.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
