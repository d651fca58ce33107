package lifecycle

import (
	"strings"

	"github.com/shopspring/decimal"
)

const NairaSign = "₦"

// FormatNaira formats an amount with thousands separators and at most three
// fraction digits, e.g. 1500 -> "₦1,500" and 1234.5 -> "₦1,234.5".
func FormatNaira(amount decimal.Decimal) string {
	return NairaSign + FormatAmount(amount)
}

func FormatAmount(amount decimal.Decimal) string {
	s := amount.Round(3).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}

// SuggestedAmount is the unit cost multiplied by the booked quantity.
// A quantity below one counts as one.
func SuggestedAmount(cost string, quantity int) (decimal.Decimal, error) {
	unit, err := decimal.NewFromString(strings.TrimSpace(cost))
	if err != nil {
		return decimal.Zero, err
	}
	if quantity < 1 {
		quantity = 1
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}
