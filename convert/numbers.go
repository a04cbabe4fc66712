package convert

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

func TwoDecimals(number float64) float64 {
	return RoundFloat64(number, 2)
}

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(int(decimals))) / math.Pow10(int(decimals))
}

// USD formats dollars with thousand separators and at most two decimals, i.e. "$12,500" or "-$8,750".
func USD(number float64) string {
	v := TwoDecimals(number)
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

func KWh(number float64) string {
	return humanize.CommafWithDigits(RoundFloat64(number, 3), 3)
}

func PricePerKWh(price float64) string {
	return fmt.Sprintf("$%.2f/kWh", price)
}

func Percent(number float64) string {
	return fmt.Sprintf("%.1f %%", number)
}
