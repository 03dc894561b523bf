package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts Serbian-locale numeric text into an exact decimal.
// The portal renders amounts with either symbol as the decimal separator
// ("1.839,96" and "1839.96" both mean 1839.96), often followed by a
// currency suffix.
//
// Disambiguation when only one separator symbol occurs:
//   - followed by 1-2 digits, it is the decimal separator ("79,9" -> 79.9)
//   - followed by exactly 3 digits, it is a thousands separator
//     ("12.345" -> 12345)
//
// When both symbols occur the rightmost one is the decimal separator and
// every other occurrence is a thousands separator.
//
// Empty or non-numeric input returns a NumberParseError carrying the
// original text. No input is ever coerced to zero.
func ParseDecimal(text string) (decimal.Decimal, error) {
	cleaned := cleanNumericText(text)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, &NumberParseError{Text: text}
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	var normalized string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		normalized = resolveSingleSeparator(cleaned, ',', lastComma)
	case lastDot >= 0:
		normalized = resolveSingleSeparator(cleaned, '.', lastDot)
	default:
		normalized = cleaned
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &NumberParseError{Text: text}
	}
	return value, nil
}

// resolveSingleSeparator applies the trailing-digit rule for text carrying
// exactly one separator symbol (possibly repeated, as in "1.234.567").
func resolveSingleSeparator(text string, sep byte, last int) string {
	trailing := len(text) - last - 1
	multiple := strings.Count(text, string(sep)) > 1

	if trailing >= 1 && trailing <= 2 && !multiple {
		// Decimal separator.
		if sep == ',' {
			return strings.Replace(text, ",", ".", 1)
		}
		return text
	}
	// Thousands separator ("12.345", "1.234.567", "1,000").
	return strings.ReplaceAll(text, string(sep), "")
}

// cleanNumericText strips currency symbols, whitespace and any other stray
// characters, keeping digits, separators and a leading minus sign.
func cleanNumericText(text string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(text) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	// Trailing separators left behind by suffix stripping ("183,96 дин" is
	// already clean, but "183," is not).
	return strings.TrimRight(b.String(), ".,")
}
