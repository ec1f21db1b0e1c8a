package alert

import (
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Norm converts a raw integer amount into its decimal value: raw / 10^decimals.
func Norm(amount *big.Int, decimals int32) float64 {
	return decimal.NewFromBigInt(amount, -decimals).InexactFloat64()
}

// FriendlyFormat abbreviates a number for humans: 1500 -> "1.5K",
// 2500000 -> "2.5M". Values below 1e-3 use scientific notation; zero is "0".
func FriendlyFormat(num float64) string {
	switch {
	case num == 0:
		return "0"
	case num >= 1e9:
		return roundTo(num/1e9, 2) + "B"
	case num >= 1e6:
		return roundTo(num/1e6, 2) + "M"
	case num >= 1e3:
		return roundTo(num/1e3, 2) + "K"
	case num < 1e-3:
		return strconv.FormatFloat(num, 'e', -1, 64)
	default:
		return roundTo(num, 4)
	}
}

func roundTo(num float64, dec int) string {
	pow := math.Pow(10, float64(dec))
	return strconv.FormatFloat(math.Round(num*pow)/pow, 'f', -1, 64)
}
