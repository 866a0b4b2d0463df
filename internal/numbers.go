package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces a cell or CSV value into a float64. It accepts the
// formats that show up in the monthly exports: "1 234,56", "1,234.56",
// "€1,234.56", "(123)" and "12%". It never fails; anything unparseable
// becomes 0 so downstream sums and ratios stay finite.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return parseNumericString(x)
	default:
		return parseNumericString(fmt.Sprint(v))
	}
}

var currencyStripper = strings.NewReplacer("%", "", "€", "", "$", "", "£", "", " ", " ")

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// Accounting-style negative: (123)
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if neg {
		s = s[1 : len(s)-1]
	}

	pct := strings.Contains(s, "%")

	s = currencyStripper.Replace(s)
	s = strings.ReplaceAll(s, " ", "")

	// A comma with no dot is a decimal separator; otherwise commas are
	// thousands separators.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		x = -x
	}
	if pct {
		x /= 100
	}
	return finite(x)
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
