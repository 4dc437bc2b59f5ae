package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits kept for every monetary field.
const MoneyScale = 2

// maxMoney is the largest value a NUMERIC(10,2) column holds.
var maxMoney = decimal.RequireFromString("99999999.99")

// Money normalises d to MoneyScale fractional digits, rounding half away from
// zero the way NUMERIC(10,2) does.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MoneyFromInt returns a whole-unit amount, e.g. 35000 VND.
func MoneyFromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Round(MoneyScale)
}

// ParseMoney parses a decimal string such as "12.50".
func ParseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return Money(d), nil
}

func checkMoney(entity, field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return invalid(entity, field, "must not be negative, got %s", d.StringFixed(MoneyScale))
	}
	if d.GreaterThan(maxMoney) {
		return invalid(entity, field, "exceeds %s", maxMoney.StringFixed(MoneyScale))
	}
	if !d.Equal(Money(d)) {
		return invalid(entity, field, "must have at most %d fractional digits, got %s", MoneyScale, d.String())
	}
	return nil
}
