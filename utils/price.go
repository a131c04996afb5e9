package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

var priceNumberPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// ParsePrice extracts the numeric unit price from a currency string such as
// "£39.26". It returns the parsed amount plus the raw text surrounding the
// number, untrimmed, so totals re-encode in exactly the same representation.
func ParsePrice(cost string) (amount float64, prefix, suffix string, err error) {
	loc := priceNumberPattern.FindStringIndex(cost)
	if loc == nil {
		return 0, "", "", fmt.Errorf("no numeric amount in price %q", cost)
	}
	amount, err = strconv.ParseFloat(cost[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, "", "", fmt.Errorf("unparseable amount in price %q: %w", cost, err)
	}
	return amount, cost[:loc[0]], cost[loc[1]:], nil
}

// FormatPrice renders an amount back into the currency representation captured
// by ParsePrice, rounded to two decimal places.
func FormatPrice(amount float64, prefix, suffix string) string {
	return prefix + strconv.FormatFloat(amount, 'f', 2, 64) + suffix
}
