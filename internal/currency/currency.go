// Package currency normalizes the currency strings reported by scraped
// accounts into ISO 4217 codes.
package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// aliases maps the symbols and local spellings banks report to ISO codes.
var aliases = map[string]string{
	"₪":    money.ILS,
	"NIS":  money.ILS,
	"ש\"ח": money.ILS,
	"שח":   money.ILS,
	"$":    money.USD,
	"€":    money.EUR,
	"£":    money.GBP,
}

// Normalize maps a reported currency string to an ISO 4217 code. Known
// aliases are translated; anything already matching an ISO code is returned
// canonically; unknown values pass through trimmed and upper-cased.
func Normalize(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}

	if iso, ok := aliases[trimmed]; ok {
		return iso
	}

	upper := strings.ToUpper(trimmed)
	if cur := money.GetCurrency(upper); cur != nil {
		return cur.Code
	}
	return upper
}
