package invoice

import (
	"fmt"
	"math"
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// FormatINR groups the integer part the Indian way (12,34,567) and keeps
// up to two decimals, dropping them when they are zero.
func FormatINR(v float64) string {
	neg := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	whole, frac := cents/100, cents%100

	digits := fmt.Sprintf("%d", whole)
	var grouped string
	if len(digits) <= 3 {
		grouped = digits
	} else {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		parts = append([]string{head}, parts...)
		grouped = strings.Join(parts, ",") + "," + tail
	}

	if frac != 0 {
		grouped += fmt.Sprintf(".%02d", frac)
		grouped = strings.TrimSuffix(grouped, "0")
	}
	if neg {
		return "-" + grouped
	}
	return grouped
}

// Fixed formats v with exactly n decimals, halves rounding away from zero
func Fixed(v float64, n int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%.*f", n, v)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(n))
}

// AmountInWords spells out a rupee amount, e.g. "Rupees five thousand one hundred only".
func AmountInWords(v float64) string {
	if v < 0 {
		return "Minus " + AmountInWords(-v)
	}
	cents := int64(math.Round(v * 100))
	rupees, paise := int(cents/100), int(cents%100)

	words := "Rupees " + num2words.Convert(rupees)
	if paise > 0 {
		words += " and " + num2words.Convert(paise) + " paise"
	}
	return words + " only"
}
