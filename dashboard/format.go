package dashboard

import (
	"math"
	"strconv"
)

func formatBin(lower, upper float64) string {
	return strconv.FormatFloat(lower, 'f', 1, 64) + "-" + strconv.FormatFloat(upper, 'f', 1, 64)
}

// formatCoefficient renders a correlation coefficient with two decimals,
// undefined coefficients as "n/a".
func formatCoefficient(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}
