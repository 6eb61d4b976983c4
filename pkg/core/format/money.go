// Package format turns derived valuation figures into display strings.
// Monetary inputs are in $M unless stated otherwise. Rounding is decimal
// half away from zero so that 1.25 renders as 1.3 regardless of its binary
// representation.
package format

import (
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// Value renders v ($M) as "$778M" below 1000 and "$3.51B" from 1000 up.
func Value(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.GreaterThanOrEqual(thousand) {
		return "$" + d.Div(thousand).StringFixed(2) + "B"
	}
	return "$" + d.StringFixed(0) + "M"
}

// Compact is Value with one decimal on billions, used for quoted ranges
// ("$3.5B to $5.5B").
func Compact(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.GreaterThanOrEqual(thousand) {
		return "$" + d.Div(thousand).StringFixed(1) + "B"
	}
	return "$" + d.StringFixed(0) + "M"
}

// AxisTick labels a value-axis tick: whole billions from 1000 up, the raw
// millions figure below.
func AxisTick(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.GreaterThanOrEqual(thousand) {
		return "$" + d.Div(thousand).StringFixed(0) + "B"
	}
	return "$" + d.String() + "M"
}

// Billions renders a figure already expressed in $B, e.g. market sizes.
func Billions(b float64) string {
	return "$" + decimal.NewFromFloat(b).StringFixed(1) + "B"
}

// Multiple renders a multiple with one decimal: 5.77 -> "5.8x".
func Multiple(m float64) string {
	return decimal.NewFromFloat(m).StringFixed(1) + "x"
}

// MultipleRange renders "5.8-9.0x".
func MultipleRange(lo, hi float64) string {
	return decimal.NewFromFloat(lo).StringFixed(1) + "-" + Multiple(hi)
}

// Percent renders a percentage rounded to a whole number: "352%".
func Percent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(0) + "%"
}

// PercentTenths renders a percentage with one decimal: "4.8%".
func PercentTenths(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

// SignedPercent is Percent with a leading "+" for positive values.
func SignedPercent(p float64) string {
	d := decimal.NewFromFloat(p).Round(0)
	if d.IsPositive() {
		return "+" + d.String() + "%"
	}
	return d.String() + "%"
}
