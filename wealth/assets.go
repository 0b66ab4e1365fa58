package wealth

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// liquidRanges maps the option values the liquid-assets question sends for
// its ranges to a representative figure: the midpoint of the range, or the
// lower bound for the open-ended top range. Only these exact strings are
// range codes; any other amount is taken as given.
var liquidRanges = map[string]decimal.Decimal{
	"0":      decimal.Zero,                // under one month of expenses
	"10000":  decimal.NewFromInt(20_000),  // 1-3 months, 10k-30k
	"30000":  decimal.NewFromInt(45_000),  // 3-6 months, 30k-60k
	"60000":  decimal.NewFromInt(90_000),  // 6-12 months, 60k-120k
	"100000": decimal.NewFromInt(120_000), // over 12 months, 120k and up
}

// ResolveLiquidAssets turns a raw liquid-assets answer into an amount. A
// string equal to one of the question's range codes goes through the fixed
// table. Numbers, and numeric strings that are not range codes, are exact
// amounts. ok is false for missing, negative or unrecognised answers.
func ResolveLiquidAssets(v any) (amount decimal.Decimal, ok bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case int:
		amount = decimal.NewFromInt(int64(x))
	case int64:
		amount = decimal.NewFromInt(x)
	case float64:
		amount = decimal.NewFromFloat(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, false
		}
		amount = d
	case decimal.Decimal:
		amount = x
	case string:
		s := strings.TrimSpace(x)
		if d, found := liquidRanges[s]; found {
			return d, true
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return decimal.Zero, false
		}
		amount = d
	default:
		return decimal.Zero, false
	}

	if amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount.Round(2), true
}
