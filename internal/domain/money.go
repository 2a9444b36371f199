package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is the ISO 4217 code of the storefront display currency.
const DefaultCurrency = "ZAR"

// pricePrefix is the display symbol carried by every catalog price ("R350").
const pricePrefix = "R"

// ErrInvalidPrice indicates a display price string could not be parsed.
var ErrInvalidPrice = errors.New("domain: invalid price")

var pricePrinter = message.NewPrinter(language.English)

// ParsePrice converts a currency-prefixed display price such as "R350" or
// "R1,299.50" into the smallest currency unit. Arithmetic throughout the
// storefront runs on integer cents; display strings exist only at the edges.
func ParsePrice(display string) (int64, error) {
	trimmed := strings.TrimSpace(display)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	if !strings.HasPrefix(trimmed, pricePrefix) {
		return 0, fmt.Errorf("%w: missing %q prefix in %q", ErrInvalidPrice, pricePrefix, display)
	}

	amount := strings.ReplaceAll(strings.TrimSpace(strings.TrimPrefix(trimmed, pricePrefix)), ",", "")
	if amount == "" || strings.HasPrefix(amount, "-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}

	whole := amount
	fraction := ""
	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		whole = amount[:idx]
		fraction = amount[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(fraction) > 2 {
		return 0, fmt.Errorf("%w: %q has sub-cent precision", ErrInvalidPrice, display)
	}
	for len(fraction) < 2 {
		fraction += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	cents, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, display)
	}
	return units*100 + cents, nil
}

// FormatPrice renders cents back into the storefront display form, grouping
// thousands and omitting the fraction for whole-rand amounts.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := cents / 100
	remainder := cents % 100
	if remainder == 0 {
		return pricePrinter.Sprintf("%s%s%v", sign, pricePrefix, number.Decimal(units))
	}
	return pricePrinter.Sprintf("%s%s%v.%02d", sign, pricePrefix, number.Decimal(units), remainder)
}

// ValidateCurrency checks the supplied ISO 4217 code is well formed.
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(strings.TrimSpace(code)); err != nil {
		return fmt.Errorf("domain: unknown currency %q: %w", code, err)
	}
	return nil
}
